package providers

import (
	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
)

func newAstro() Provider {
	return endpoint{
		cdn:   cdn.Astro,
		path:  "/_image",
		param: "href",
		codec: operations.NewCodec(operations.Config{
			KeyMap: operations.KeyMap{
				operations.KeyWidth:   "w",
				operations.KeyHeight:  "h",
				operations.KeyFormat:  "f",
				operations.KeyQuality: "q",
			},
		}),
	}.provider()
}
