package providers

import (
	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
)

// Providers below differ from each other only in their query vocabulary.

var shortKeys = operations.KeyMap{
	operations.KeyWidth:   "w",
	operations.KeyHeight:  "h",
	operations.KeyFormat:  "fm",
	operations.KeyQuality: "q",
}

func newContentful() Provider {
	p := queryProvider{codec: operations.NewCodec(operations.Config{
		KeyMap:   shortKeys,
		Defaults: operations.Params{{Key: "fit", Value: operations.String("fill")}},
	})}
	return Provider{CDN: cdn.Contentful, Extract: p.extract, Generate: p.generate}
}

func newKontentAI() Provider {
	p := queryProvider{codec: operations.NewCodec(operations.Config{
		KeyMap:   shortKeys,
		Defaults: operations.Params{{Key: "fit", Value: operations.String("crop")}},
	})}
	return Provider{CDN: cdn.KontentAI, Extract: p.extract, Generate: p.generate}
}

func newBuilderIO() Provider {
	p := queryProvider{codec: operations.NewCodec(operations.Config{
		Defaults: operations.Params{{Key: "fit", Value: operations.String("cover")}},
	})}
	return Provider{CDN: cdn.BuilderIO, Extract: p.extract, Generate: p.generate}
}

func newKeyCDN() Provider {
	p := queryProvider{codec: operations.NewCodec(operations.Config{
		Defaults: operations.Params{{Key: "fit", Value: operations.String("cover")}},
		BoolKeys: []string{"enlarge"},
	})}
	return Provider{CDN: cdn.KeyCDN, Extract: p.extract, Generate: p.generate}
}

func newWordPress() Provider {
	p := queryProvider{codec: operations.NewCodec(operations.Config{
		KeyMap: operations.KeyMap{
			operations.KeyWidth:  "w",
			operations.KeyHeight: "h",
			operations.KeyFormat: operations.Drop,
		},
		BoolKeys: []string{"crop"},
	})}
	return Provider{CDN: cdn.WordPress, Extract: p.extract, Generate: p.generate}
}

func newContentstack() Provider {
	p := queryProvider{codec: operations.NewCodec(operations.Config{
		Defaults:  operations.Params{{Key: "auto", Value: operations.String("webp")}},
		FormatMap: map[string]string{"jpg": "pjpg"},
	})}
	return Provider{CDN: cdn.Contentstack, Extract: p.extract, Generate: p.generate}
}
