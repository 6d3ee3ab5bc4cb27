package providers

import (
	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
)

var imgixCodec = operations.NewCodec(operations.Config{
	KeyMap: operations.KeyMap{
		operations.KeyWidth:   "w",
		operations.KeyHeight:  "h",
		operations.KeyFormat:  "fm",
		operations.KeyQuality: "q",
	},
	Defaults: operations.Params{
		{Key: "fit", Value: operations.String("min")},
		{Key: "auto", Value: operations.String("format")},
	},
})

func newImgix() Provider {
	p := queryProvider{
		codec: imgixCodec,
		// An explicit format overrides automatic format selection.
		finish: func(params operations.Params) operations.Params {
			if params.Get("fm").IsSet() && params.Get("auto").String() == "format" {
				params.Delete("auto")
			}
			return params
		},
	}
	return Provider{CDN: cdn.Imgix, Extract: p.extract, Generate: p.generate}
}
