package providers

import (
	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
)

func newNetlify() Provider {
	return endpoint{
		cdn:   cdn.Netlify,
		path:  "/.netlify/images",
		param: "url",
		codec: operations.NewCodec(operations.Config{
			KeyMap: operations.KeyMap{
				operations.KeyWidth:   "w",
				operations.KeyHeight:  "h",
				operations.KeyFormat:  "fm",
				operations.KeyQuality: "q",
			},
			Defaults: operations.Params{{Key: "fit", Value: operations.String("cover")}},
		}),
	}.provider()
}
