package providers

import (
	"strconv"
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

// DefaultIPXBaseURL is where IPX is mounted when no base URL is given.
const DefaultIPXBaseURL = "/_ipx"

// ipxNoModifiers is the placeholder IPX uses for an empty modifier segment.
const ipxNoModifiers = "_"

var ipxCodec = operations.NewCodec(operations.Config{
	KeyMap: operations.KeyMap{
		operations.KeyWidth:   "w",
		operations.KeyHeight:  "h",
		operations.KeyFormat:  "f",
		operations.KeyQuality: "q",
	},
	Defaults:  operations.Params{{Key: operations.KeyFormat, Value: operations.String("auto")}},
	Formatter: formatIPX,
	Parser:    parseIPX,
})

var (
	ipxFormat = operations.NewFormatter("_", ",")
	ipxParse  = operations.NewParser("_", ",")
)

// formatIPX writes width and height together as s_WxH, in the position of
// the width.
func formatIPX(params operations.Params) string {
	w, h := params.Get("w"), params.Get("h")
	if w.IsSet() && h.IsSet() {
		var out operations.Params
		for _, p := range params {
			switch p.Key {
			case "w":
				out = append(out, operations.Param{Key: "s", Value: operations.String(w.String() + "x" + h.String())})
			case "h":
			default:
				out = append(out, p)
			}
		}
		params = out
	}
	return ipxFormat(params)
}

func parseIPX(s string) operations.Params {
	if s == ipxNoModifiers {
		return nil
	}
	params := ipxParse(s)
	size, ok := params.Lookup("s")
	if !ok {
		return params
	}
	w, h, found := strings.Cut(size.String(), "x")
	if !found {
		return params
	}
	var out operations.Params
	for _, p := range params {
		if p.Key != "s" {
			out = append(out, p)
			continue
		}
		out = append(out, operations.Param{Key: "w", Value: ipxDimension(w)})
		out = append(out, operations.Param{Key: "h", Value: ipxDimension(h)})
	}
	return out
}

func ipxDimension(s string) operations.Value {
	if n, err := strconv.Atoi(s); err == nil {
		return operations.Int(n)
	}
	return operations.String(s)
}

func newIPX() Provider {
	return Provider{
		CDN:      cdn.IPX,
		Extract:  extractIPX,
		Generate: generateIPX,
		Delegate: func(raw string) (Delegation, bool) {
			extracted, ok := extractIPX(raw, nil)
			if !ok {
				return Delegation{}, false
			}
			return delegateTo(extracted.Src)
		},
	}
}

// extractIPX reads <baseURL>/<modifiers>/<source>. The base URL comes from
// the options, or is everything before the last "/_ipx/" segment.
func extractIPX(raw string, opts transform.Options) (transform.ExtractedURL, bool) {
	base := opts.Get(OptionBaseURL)
	var rest string
	if base != "" {
		prefix := urls.AddTrailingSlash(base)
		if !strings.HasPrefix(raw, prefix) {
			return transform.ExtractedURL{}, false
		}
		rest = raw[len(prefix):]
	} else {
		i := strings.Index(raw, DefaultIPXBaseURL+"/")
		if i < 0 {
			return transform.ExtractedURL{}, false
		}
		base = raw[:i+len(DefaultIPXBaseURL)]
		rest = raw[i+len(DefaultIPXBaseURL)+1:]
	}

	modifiers, src, ok := strings.Cut(rest, "/")
	if !ok || modifiers == "" || src == "" {
		return transform.ExtractedURL{}, false
	}
	if !urls.IsAbsolute(src) {
		src = urls.AddLeadingSlash(src)
	}
	return transform.ExtractedURL{
		Src:        src,
		Operations: ipxCodec.Deserialize(modifiers),
		Options:    transform.Options{OptionBaseURL: base},
	}, true
}

func generateIPX(src string, ops operations.Operations, opts transform.Options) (string, error) {
	base := opts.Get(OptionBaseURL)
	if base == "" {
		base = DefaultIPXBaseURL
	}
	modifiers := ipxCodec.Serialize(ops)
	if modifiers == "" {
		modifiers = ipxNoModifiers
	}
	return urls.StripTrailingSlash(base) + "/" + modifiers + "/" + urls.StripLeadingSlash(src), nil
}
