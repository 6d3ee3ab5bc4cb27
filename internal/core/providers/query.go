package providers

import (
	"fmt"

	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

// queryProvider implements extract and generate for CDNs that read operations
// from the query string of the image URL itself.
type queryProvider struct {
	codec *operations.Codec
	// keep lists query keys that identify the asset rather than transform it.
	// They stay on the source URL.
	keep []string
	// finish adjusts the normalized params before they are formatted.
	finish func(operations.Params) operations.Params
}

func (p queryProvider) extract(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	u, err := urls.Parse(raw)
	if err != nil {
		return transform.ExtractedURL{}, false
	}
	params := urls.QueryParams(u)
	var kept operations.Params
	for _, key := range p.keep {
		if v, ok := params.Lookup(key); ok {
			kept.Set(key, v)
			params.Delete(key)
		}
	}
	urls.SetQueryParams(u, kept)
	u.Fragment = ""
	return transform.ExtractedURL{
		Src:        urls.Canonical(u),
		Operations: operations.FromParams(p.codec.Denormalize(params)),
	}, true
}

func (p queryProvider) generate(src string, ops operations.Operations, _ transform.Options) (string, error) {
	u, err := urls.Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	u.RawQuery = p.query(u.RawQuery, ops)
	return urls.Canonical(u), nil
}

// query merges ops over the operations already present in rawQuery and
// returns the provider query string.
func (p queryProvider) query(rawQuery string, ops operations.Operations) string {
	params := p.codec.DeserializeParams(rawQuery).Merge(ops.Params())
	normalized := p.codec.Normalize(params)
	if p.finish != nil {
		normalized = p.finish(normalized)
	}
	return p.codec.Format(normalized)
}
