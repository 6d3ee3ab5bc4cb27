package providers

import (
	"fmt"
	"log/slog"
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"

	"github.com/xeipuuv/gojsonschema"
)

// directusTransformsSchema describes the transforms parameter: a list of
// sharp calls, each a method name followed by its arguments.
const directusTransformsSchema = `{
	"type": "array",
	"items": {
		"type": "array",
		"minItems": 1,
		"items": [{"type": "string", "minLength": 1}]
	}
}`

var directusSchema = gojsonschema.NewStringLoader(directusTransformsSchema)

var directusCodec = operations.NewCodec(operations.Config{
	Defaults: operations.Params{{Key: "fit", Value: operations.String("cover")}},
})

func newDirectus() Provider {
	p := queryProvider{codec: directusCodec}
	return Provider{
		CDN: cdn.Directus,
		Extract: func(raw string, opts transform.Options) (transform.ExtractedURL, bool) {
			if !strings.Contains(raw, "/assets/") {
				return transform.ExtractedURL{}, false
			}
			extracted, ok := p.extract(raw, opts)
			if !ok {
				return extracted, false
			}
			if t := extracted.Operations.Get("transforms"); t.IsSet() {
				if err := validateDirectusTransforms(t.String()); err != nil {
					slog.Debug("[IMAGE-CDN] ignoring URL with malformed transforms",
						"cdn", cdn.Directus,
						"url", raw,
						"error", err,
					)
					return transform.ExtractedURL{}, false
				}
			}
			return extracted, true
		},
		Generate: p.generate,
	}
}

// validateDirectusTransforms checks that raw is a JSON list of sharp calls.
func validateDirectusTransforms(raw string) error {
	result, err := gojsonschema.Validate(directusSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransforms, err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidTransforms, errorMessages)
	}
	return nil
}
