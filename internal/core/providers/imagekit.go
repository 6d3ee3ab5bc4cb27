package providers

import (
	"fmt"
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

// ImageKit takes transformations either as a tr query parameter or as a
// tr: path segment. OptionStyle selects the form; extraction records the
// form it found.
const (
	OptionStyle = "style"
	StyleQuery  = "query"
	StylePath   = "path"
)

const imagekitHost = "ik.imagekit.io"

var imagekitCodec = operations.NewCodec(operations.Config{
	KeyMap: operations.KeyMap{
		operations.KeyWidth:   "w",
		operations.KeyHeight:  "h",
		operations.KeyFormat:  "f",
		operations.KeyQuality: "q",
	},
	KVSeparator:    "-",
	ParamSeparator: ",",
})

func newImageKit() Provider {
	return Provider{
		CDN:      cdn.ImageKit,
		Extract:  extractImageKit,
		Generate: generateImageKit,
	}
}

// imagekitPathIndex is the position of the tr: segment. On ik.imagekit.io
// the first segment is the account's URL endpoint.
func imagekitPathIndex(host string) int {
	if host == imagekitHost {
		return 1
	}
	return 0
}

func extractImageKit(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	u, err := urls.Parse(raw)
	if err != nil {
		return transform.ExtractedURL{}, false
	}

	params := urls.QueryParams(u)
	if tr, ok := params.Lookup("tr"); ok {
		params.Delete("tr")
		urls.SetQueryParams(u, params)
		return transform.ExtractedURL{
			Src:        urls.Canonical(u),
			Operations: imagekitCodec.Deserialize(tr.String()),
			Options:    transform.Options{OptionStyle: StyleQuery},
		}, true
	}

	segments := strings.Split(urls.StripLeadingSlash(u.EscapedPath()), "/")
	i := imagekitPathIndex(u.Host)
	if i < len(segments) && strings.HasPrefix(segments[i], "tr:") {
		ops := imagekitCodec.Deserialize(strings.TrimPrefix(segments[i], "tr:"))
		segments = append(segments[:i:i], segments[i+1:]...)
		if err := urls.SetEscapedPath(u, "/"+strings.Join(segments, "/")); err != nil {
			return transform.ExtractedURL{}, false
		}
		return transform.ExtractedURL{
			Src:        urls.Canonical(u),
			Operations: ops,
			Options:    transform.Options{OptionStyle: StylePath},
		}, true
	}

	return transform.ExtractedURL{Src: urls.Canonical(u)}, true
}

func generateImageKit(src string, ops operations.Operations, opts transform.Options) (string, error) {
	u, err := urls.Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	tr := imagekitCodec.Serialize(ops)
	if tr == "" {
		return urls.Canonical(u), nil
	}

	if opts.Get(OptionStyle) == StylePath {
		segments := strings.Split(urls.StripLeadingSlash(u.EscapedPath()), "/")
		i := min(imagekitPathIndex(u.Host), len(segments))
		segments = append(segments[:i:i], append([]string{"tr:" + tr}, segments[i:]...)...)
		if err := urls.SetEscapedPath(u, "/"+strings.Join(segments, "/")); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidSource, err)
		}
		return urls.Canonical(u), nil
	}

	params := urls.QueryParams(u)
	params.Set("tr", operations.String(tr))
	u.RawQuery = formatImageKitQuery(params)
	return urls.Canonical(u), nil
}

// formatImageKitQuery writes the query with tr left readable; its separators
// are valid in a query value.
func formatImageKitQuery(params operations.Params) string {
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		if p.Key == "tr" {
			pairs = append(pairs, "tr="+p.Value.String())
			continue
		}
		pairs = append(pairs, operations.FormatQuery(operations.Params{p}))
	}
	return strings.Join(pairs, "&")
}
