package providers

import (
	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
)

// Next.js and Vercel only resize by width and pick the format themselves.
var nextConfig = operations.Config{
	KeyMap: operations.KeyMap{
		operations.KeyWidth:   "w",
		operations.KeyQuality: "q",
		operations.KeyHeight:  operations.Drop,
		operations.KeyFormat:  operations.Drop,
	},
	Defaults: operations.Params{{Key: operations.KeyQuality, Value: operations.Int(75)}},
}

func newNextJS() Provider {
	return endpoint{
		cdn:   cdn.NextJS,
		path:  "/_next/image",
		param: "url",
		codec: operations.NewCodec(nextConfig),
	}.provider()
}

func newVercel() Provider {
	return endpoint{
		cdn:   cdn.Vercel,
		path:  "/_vercel/image",
		param: "url",
		codec: operations.NewCodec(nextConfig),
	}.provider()
}
