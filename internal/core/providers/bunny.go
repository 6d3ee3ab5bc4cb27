package providers

import (
	"strconv"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
)

// Bunny Optimizer picks the output format itself.
var bunnyCodec = operations.NewCodec(operations.Config{
	KeyMap: operations.KeyMap{operations.KeyFormat: operations.Drop},
})

func newBunny() Provider {
	p := queryProvider{codec: bunnyCodec}
	return Provider{
		CDN:       cdn.Bunny,
		Extract:   p.extract,
		Generate:  p.generate,
		Transform: bunnyTransform(p.extract, p.generate),
	}
}

// bunnyTransform expresses a requested width and height as width plus an
// aspect ratio, which Bunny applies as a crop.
func bunnyTransform(extract transform.ExtractFunc, generate transform.GenerateFunc) transform.TransformFunc {
	return func(raw string, ops operations.Operations, opts transform.Options) (string, error) {
		extracted, ok := extract(raw, opts)
		if !ok {
			extracted = transform.ExtractedURL{Src: raw}
		}
		merged, mergedOpts := transform.Merge(extracted, ops, opts)

		w, wOK := merged.Width.Int()
		h, hOK := merged.Height.Int()
		if wOK && hOK && w > 0 && h > 0 {
			g := gcd(w, h)
			merged.Set("aspect_ratio", operations.String(strconv.Itoa(w/g)+":"+strconv.Itoa(h/g)))
			merged.Height = operations.Value{}
		}
		return generate(extracted.Src, merged, mergedOpts)
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
