package providers

import (
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
)

const (
	supabaseObjectPath = "/storage/v1/object/public/"
	supabaseRenderPath = "/storage/v1/render/image/public/"
)

var supabaseCodec = operations.NewCodec(operations.Config{
	Defaults: operations.Params{{Key: "resize", Value: operations.String("cover")}},
})

// Supabase serves the original object from the object path and transformed
// images from the render path. The source is always the object URL.
func newSupabase() Provider {
	p := queryProvider{codec: supabaseCodec}
	return Provider{
		CDN: cdn.Supabase,
		Extract: func(raw string, opts transform.Options) (transform.ExtractedURL, bool) {
			if !strings.Contains(raw, supabaseObjectPath) && !strings.Contains(raw, supabaseRenderPath) {
				return transform.ExtractedURL{}, false
			}
			extracted, ok := p.extract(raw, opts)
			if !ok {
				return extracted, false
			}
			extracted.Src = strings.Replace(extracted.Src, supabaseRenderPath, supabaseObjectPath, 1)
			return extracted, true
		},
		Generate: func(src string, ops operations.Operations, opts transform.Options) (string, error) {
			if ops.IsZero() {
				return strings.Replace(src, supabaseRenderPath, supabaseObjectPath, 1), nil
			}
			return p.generate(strings.Replace(src, supabaseObjectPath, supabaseRenderPath, 1), ops, opts)
		},
	}
}
