package providers

import (
	"fmt"
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"

	"github.com/google/uuid"
)

// OptionFilename is the optional trailing filename of an Uploadcare URL.
const OptionFilename = "filename"

// Uploadcare chains operations as /-/name/args/ after the file UUID. Width and
// height share the resize operation, written WxH with either side optional.
var uploadcareCodec = operations.NewCodec(operations.Config{
	Formatter: formatUploadcare,
	Parser:    parseUploadcare,
})

func formatUploadcare(params operations.Params) string {
	var b strings.Builder
	w, h := params.Get(operations.KeyWidth), params.Get(operations.KeyHeight)
	for _, p := range params {
		switch p.Key {
		case operations.KeyHeight:
			if w.IsSet() {
				continue
			}
			b.WriteString("-/resize/x" + h.String() + "/")
		case operations.KeyWidth:
			size := w.String() + "x"
			if h.IsSet() {
				size += h.String()
			}
			b.WriteString("-/resize/" + size + "/")
		default:
			if !p.Value.IsSet() {
				continue
			}
			b.WriteString("-/" + p.Key + "/" + p.Value.String() + "/")
		}
	}
	return b.String()
}

func parseUploadcare(s string) operations.Params {
	var params operations.Params
	for _, op := range strings.Split(s, "/-/") {
		op = strings.Trim(strings.TrimPrefix(op, "-/"), "/")
		if op == "" {
			continue
		}
		name, args, _ := strings.Cut(op, "/")
		if name == "resize" {
			w, h, _ := strings.Cut(args, "x")
			if w != "" {
				params.Set(operations.KeyWidth, operations.String(w))
			}
			if h != "" {
				params.Set(operations.KeyHeight, operations.String(h))
			}
			continue
		}
		params.Set(name, operations.String(args))
	}
	return params
}

// uploadcareURL is https://<host>/<uuid>/[-/op/args/...][filename].
type uploadcareURL struct {
	origin     string
	id         string
	operations string
	filename   string
}

func parseUploadcareURL(raw string) (uploadcareURL, bool) {
	u, err := urls.Parse(raw)
	if err != nil || urls.IsRelative(u) {
		return uploadcareURL{}, false
	}
	path := urls.StripLeadingSlash(u.EscapedPath())
	id, rest, _ := strings.Cut(path, "/")
	if _, err := uuid.Parse(id); err != nil {
		return uploadcareURL{}, false
	}

	c := uploadcareURL{origin: urls.Origin(u), id: id}
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		c.operations, c.filename = rest[:i+1], rest[i+1:]
	} else {
		c.filename = rest
	}
	if c.operations != "" && !strings.HasPrefix(c.operations, "-/") {
		return uploadcareURL{}, false
	}
	return c, true
}

func newUploadcare() Provider {
	return Provider{
		CDN:       cdn.Uploadcare,
		Extract:   extractUploadcare,
		Generate:  generateUploadcare,
		Transform: transform.ComposeStrict(extractUploadcare, generateUploadcare),
	}
}

func extractUploadcare(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	c, ok := parseUploadcareURL(raw)
	if !ok {
		return transform.ExtractedURL{}, false
	}
	var opts transform.Options
	if c.filename != "" {
		opts = transform.Options{OptionFilename: c.filename}
	}
	return transform.ExtractedURL{
		Src:        c.origin + "/" + c.id + "/",
		Operations: uploadcareCodec.Deserialize(c.operations),
		Options:    opts,
	}, true
}

func generateUploadcare(src string, ops operations.Operations, opts transform.Options) (string, error) {
	c, ok := parseUploadcareURL(src)
	if !ok {
		return "", fmt.Errorf("%w: uploadcare needs a file UUID URL, got %s", ErrInvalidSource, src)
	}
	filename := c.filename
	if f := opts.Get(OptionFilename); f != "" {
		filename = f
	}
	return c.origin + "/" + c.id + "/" + uploadcareCodec.Serialize(ops) + filename, nil
}
