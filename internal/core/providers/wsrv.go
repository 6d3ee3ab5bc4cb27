package providers

import (
	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
)

func newWsrv() Provider {
	return endpoint{
		cdn:   cdn.Wsrv,
		path:  "/",
		param: "url",
		hosts: []string{"wsrv.nl", "images.weserv.nl"},
		codec: operations.NewCodec(operations.Config{
			KeyMap: operations.KeyMap{
				operations.KeyWidth:   "w",
				operations.KeyHeight:  "h",
				operations.KeyFormat:  "output",
				operations.KeyQuality: "q",
			},
			Defaults: operations.Params{{Key: "fit", Value: operations.String("cover")}},
		}),
	}.provider()
}
