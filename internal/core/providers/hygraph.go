package providers

import (
	"fmt"
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

// Hygraph groups operations into path segments of the form
// name=field:value,field:value. Width, height and fit belong to resize,
// format to output and quality to quality.
type hygraphField struct {
	key   string
	field string
}

var hygraphGroups = []struct {
	segment string
	fields  []hygraphField
}{
	{segment: "resize", fields: []hygraphField{{operations.KeyWidth, "width"}, {operations.KeyHeight, "height"}, {"fit", "fit"}}},
	{segment: "output", fields: []hygraphField{{operations.KeyFormat, "format"}}},
	{segment: "quality", fields: []hygraphField{{operations.KeyQuality, "value"}}},
}

var hygraphCodec = operations.NewCodec(operations.Config{
	Defaults:  operations.Params{{Key: "fit", Value: operations.String("crop")}},
	Formatter: formatHygraph,
	Parser:    parseHygraph,
})

func formatHygraph(params operations.Params) string {
	var segments []string
	grouped := make(map[string]bool)
	for _, group := range hygraphGroups {
		var fields []string
		for _, f := range group.fields {
			grouped[f.key] = true
			if v := params.Get(f.key); v.IsSet() {
				fields = append(fields, f.field+":"+v.String())
			}
		}
		// fit alone is not a resize.
		if group.segment == "resize" && !params.Get(operations.KeyWidth).IsSet() && !params.Get(operations.KeyHeight).IsSet() {
			continue
		}
		if len(fields) > 0 {
			segments = append(segments, group.segment+"="+strings.Join(fields, ","))
		}
	}
	for _, p := range params {
		if grouped[p.Key] || !p.Value.IsSet() {
			continue
		}
		segments = append(segments, p.Key+"="+p.Value.String())
	}
	return strings.Join(segments, "/")
}

func parseHygraph(s string) operations.Params {
	var params operations.Params
	for _, segment := range strings.Split(s, "/") {
		name, body, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		fields, known := hygraphFields(name)
		if !known {
			params.Set(name, operations.String(body))
			continue
		}
		for _, field := range strings.Split(body, ",") {
			fieldName, value, _ := strings.Cut(field, ":")
			for _, f := range fields {
				if f.field == fieldName {
					params.Set(f.key, operations.String(value))
				}
			}
		}
	}
	return params
}

func hygraphFields(segment string) ([]hygraphField, bool) {
	for _, g := range hygraphGroups {
		if g.segment == segment {
			return g.fields, true
		}
	}
	return nil, false
}

func newHygraph() Provider {
	return Provider{
		CDN:      cdn.Hygraph,
		Extract:  extractHygraph,
		Generate: generateHygraph,
	}
}

func extractHygraph(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	u, err := urls.Parse(raw)
	if err != nil || urls.IsRelative(u) {
		return transform.ExtractedURL{}, false
	}
	segments := strings.Split(urls.StripLeadingSlash(u.EscapedPath()), "/")
	if len(segments) == 0 || segments[len(segments)-1] == "" {
		return transform.ExtractedURL{}, false
	}

	var base, directives []string
	for _, seg := range segments[:len(segments)-1] {
		if strings.Contains(seg, "=") {
			directives = append(directives, seg)
			continue
		}
		base = append(base, seg)
	}
	base = append(base, segments[len(segments)-1])
	if err := urls.SetEscapedPath(u, "/"+strings.Join(base, "/")); err != nil {
		return transform.ExtractedURL{}, false
	}
	return transform.ExtractedURL{
		Src:        urls.Canonical(u),
		Operations: hygraphCodec.Deserialize(strings.Join(directives, "/")),
	}, true
}

// generateHygraph inserts the operation segments before the handle, the last
// path segment.
func generateHygraph(src string, ops operations.Operations, _ transform.Options) (string, error) {
	u, err := urls.Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	segments := strings.Split(urls.StripLeadingSlash(u.EscapedPath()), "/")
	handle := segments[len(segments)-1]
	path := segments[:len(segments)-1]
	if directives := hygraphCodec.Serialize(ops); directives != "" {
		path = append(path, directives)
	}
	path = append(path, handle)
	if err := urls.SetEscapedPath(u, "/"+strings.Join(path, "/")); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	return urls.Canonical(u), nil
}
