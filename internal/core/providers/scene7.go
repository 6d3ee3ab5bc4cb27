package providers

import (
	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
)

func newScene7() Provider {
	p := queryProvider{
		codec: operations.NewCodec(operations.Config{
			KeyMap: operations.KeyMap{
				operations.KeyWidth:   "wid",
				operations.KeyHeight:  "hei",
				operations.KeyFormat:  "fmt",
				operations.KeyQuality: "qlt",
			},
			FormatMap: map[string]string{"jpg": "jpeg"},
		}),
		// Both dimensions crop to fill unless the caller chose a fit.
		finish: func(params operations.Params) operations.Params {
			if params.Get("wid").IsSet() && params.Get("hei").IsSet() && !params.Has("fit") {
				params.Set("fit", operations.String("crop,1"))
			}
			return params
		},
	}
	return Provider{CDN: cdn.Scene7, Extract: p.extract, Generate: p.generate}
}
