package providers

import (
	"regexp"
	"strconv"
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
)

// Storyblok path flags, stored as boolean operations.
const (
	storyblokFitIn = "fit-in"
	storyblokSmart = "smart"
)

// storyblokPattern splits an asset URL from its /m/ modifier path.
var storyblokPattern = regexp.MustCompile(`^(https?://[^/]+/f/\d+/[^/]+/[^/]+/[^/]+?)(?:/m/(.*))?$`)

var storyblokSize = regexp.MustCompile(`^(\d+)x(\d+)$`)

var storyblokFilter = regexp.MustCompile(`^([a-z_]+)\((.*)\)$`)

// Storyblok writes operations as [fit-in/]WxH/[smart/]filters:name(arg):...
// Width, height, format and quality keep their canonical names; format and
// quality are filters like any other.
var storyblokCodec = operations.NewCodec(operations.Config{
	Formatter: formatStoryblok,
	Parser:    parseStoryblok,
})

func formatStoryblok(params operations.Params) string {
	var segments []string
	if isTrue(params.Get(storyblokFitIn)) {
		segments = append(segments, storyblokFitIn)
	}
	w, h := params.Get(operations.KeyWidth), params.Get(operations.KeyHeight)
	if w.IsSet() || h.IsSet() {
		segments = append(segments, dimensionOrZero(w)+"x"+dimensionOrZero(h))
	}
	if isTrue(params.Get(storyblokSmart)) {
		segments = append(segments, storyblokSmart)
	}

	var filters []string
	for _, p := range params {
		switch p.Key {
		case operations.KeyWidth, operations.KeyHeight, storyblokFitIn, storyblokSmart:
			continue
		}
		if !p.Value.IsSet() {
			continue
		}
		filters = append(filters, p.Key+"("+p.Value.String()+")")
	}
	if len(filters) > 0 {
		segments = append(segments, "filters:"+strings.Join(filters, ":"))
	}
	return strings.Join(segments, "/")
}

func parseStoryblok(s string) operations.Params {
	var params operations.Params
	for _, segment := range strings.Split(s, "/") {
		switch {
		case segment == "":
		case segment == storyblokFitIn:
			params.Set(storyblokFitIn, operations.Bool(true))
		case segment == storyblokSmart:
			params.Set(storyblokSmart, operations.Bool(true))
		case storyblokSize.MatchString(segment):
			m := storyblokSize.FindStringSubmatch(segment)
			// Zero means "keep aspect ratio" and is the same as unset.
			if w, _ := strconv.Atoi(m[1]); w > 0 {
				params.Set(operations.KeyWidth, operations.Int(w))
			}
			if h, _ := strconv.Atoi(m[2]); h > 0 {
				params.Set(operations.KeyHeight, operations.Int(h))
			}
		case strings.HasPrefix(segment, "filters:"):
			for _, filter := range strings.Split(strings.TrimPrefix(segment, "filters:"), ":") {
				if m := storyblokFilter.FindStringSubmatch(filter); m != nil {
					params.Set(m[1], operations.String(m[2]))
				}
			}
		}
	}
	return params
}

func newStoryblok() Provider {
	return Provider{
		CDN:       cdn.Storyblok,
		Extract:   extractStoryblok,
		Generate:  generateStoryblok,
		Transform: transformStoryblok,
	}
}

func extractStoryblok(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	m := storyblokPattern.FindStringSubmatch(raw)
	if m == nil {
		return transform.ExtractedURL{}, false
	}
	return transform.ExtractedURL{
		Src:        m[1],
		Operations: storyblokCodec.Deserialize(m[2]),
	}, true
}

func generateStoryblok(src string, ops operations.Operations, _ transform.Options) (string, error) {
	modifiers := storyblokCodec.Serialize(ops)
	if modifiers == "" {
		return src, nil
	}
	return strings.TrimSuffix(src, "/") + "/m/" + modifiers, nil
}

// transformStoryblok resizes by one dimension with the other set to zero, so
// the image keeps its aspect ratio instead of the previously extracted one.
func transformStoryblok(raw string, ops operations.Operations, opts transform.Options) (string, error) {
	extracted, ok := extractStoryblok(raw, opts)
	if !ok {
		extracted = transform.ExtractedURL{Src: raw}
	}
	merged, mergedOpts := transform.Merge(extracted, ops, opts)
	// Storyblok crops to WxH when both are non-zero. Keeping the extracted
	// height next to a new width would crop to a stale aspect ratio, so a
	// single requested dimension zeroes the other instead of letting it
	// survive the merge.
	switch {
	case ops.Width.IsSet() && !ops.Height.IsSet():
		merged.Height = operations.Int(0)
	case ops.Height.IsSet() && !ops.Width.IsSet():
		merged.Width = operations.Int(0)
	}
	return generateStoryblok(extracted.Src, merged, mergedOpts)
}

func dimensionOrZero(v operations.Value) string {
	if !v.IsSet() {
		return "0"
	}
	return v.String()
}

func isTrue(v operations.Value) bool {
	if b, ok := v.Bool(); ok {
		return b
	}
	return v.String() == "true"
}
