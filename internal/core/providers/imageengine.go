package providers

import (
	"fmt"
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

const imageEngineParam = "imgeng"

// ImageEngine directives are written /w_300/h_200/cmpr_20 in the imgeng
// query parameter. Quality is expressed as compression, 100 minus quality.
var imageEngineCodec = operations.NewCodec(operations.Config{
	KeyMap: operations.KeyMap{
		operations.KeyWidth:  "w",
		operations.KeyHeight: "h",
		operations.KeyFormat: "f",
	},
	Defaults:       operations.Params{{Key: "m", Value: operations.String("cropbox")}},
	KVSeparator:    "_",
	ParamSeparator: "/",
})

func newImageEngine() Provider {
	return Provider{
		CDN:      cdn.ImageEngine,
		Extract:  extractImageEngine,
		Generate: generateImageEngine,
	}
}

func extractImageEngine(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	u, err := urls.Parse(raw)
	if err != nil {
		return transform.ExtractedURL{}, false
	}
	params := urls.QueryParams(u)
	directives := params.Get(imageEngineParam).String()
	params.Delete(imageEngineParam)
	urls.SetQueryParams(u, params)

	ops := imageEngineCodec.Deserialize(strings.TrimPrefix(directives, "/"))
	if cmpr, ok := ops.Get("cmpr").Int(); ok {
		ops.Quality = operations.Int(100 - cmpr)
		ops.Delete("cmpr")
	}
	return transform.ExtractedURL{Src: urls.Canonical(u), Operations: ops}, true
}

func generateImageEngine(src string, ops operations.Operations, _ transform.Options) (string, error) {
	u, err := urls.Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	ops = ops.Clone()
	if q, ok := ops.Quality.Int(); ok {
		ops.Set("cmpr", operations.Int(100-q))
	}
	ops.Quality = operations.Value{}

	params := urls.QueryParams(u)
	params.Delete(imageEngineParam)
	query := operations.FormatQuery(params)
	if directives := imageEngineCodec.Serialize(ops); directives != "" {
		if query != "" {
			query += "&"
		}
		query += imageEngineParam + "=/" + directives
	}
	u.RawQuery = query
	return urls.Canonical(u), nil
}
