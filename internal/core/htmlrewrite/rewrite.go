// Package htmlrewrite rewrites the image URLs in an HTML document. The src
// of every img element and each candidate of img and source srcset
// attributes are transformed with the same request.
package htmlrewrite

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"Unpic/internal/core/operations"
	"Unpic/internal/core/providers"

	"golang.org/x/net/html"
)

// Transformer rewrites a single image URL.
type Transformer interface {
	TransformURL(req providers.Request) (string, error)
}

// Result reports what Rewrite changed.
type Result struct {
	// Rewritten counts URLs that were replaced.
	Rewritten int
	// Skipped counts URLs left alone because no provider applied or the
	// provider returned an error.
	Skipped int
}

// Rewrite parses the document from r, transforms its image URLs with t and
// writes the document to w. req.URL is ignored; each image URL takes its
// place. Width descriptors in srcset replace the requested width and scale
// the requested height to keep the aspect ratio. Density descriptors
// multiply both.
func Rewrite(r io.Reader, w io.Writer, t Transformer, req providers.Request) (Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	rw := rewriter{transformer: t, req: req}
	rw.walk(doc)

	if err := html.Render(w, doc); err != nil {
		return rw.result, fmt.Errorf("failed to render HTML: %w", err)
	}
	return rw.result, nil
}

type rewriter struct {
	transformer Transformer
	req         providers.Request
	result      Result
}

func (rw *rewriter) walk(n *html.Node) {
	if n.Type == html.ElementNode && (n.Data == "img" || n.Data == "source") {
		for i := range n.Attr {
			attr := &n.Attr[i]
			switch {
			case attr.Key == "src" && n.Data == "img":
				attr.Val = rw.rewrite(attr.Val, rw.req.Operations)
			case attr.Key == "srcset":
				attr.Val = rw.rewriteSrcset(attr.Val)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rw.walk(c)
	}
}

func (rw *rewriter) rewrite(raw string, ops operations.Operations) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || isInline(raw) {
		return raw
	}

	req := rw.req
	req.URL = raw
	req.Operations = ops
	out, err := rw.transformer.TransformURL(req)
	if err != nil || out == "" {
		if err != nil {
			slog.Debug("[IMAGE-CDN] skipping image URL",
				"url", raw,
				"error", err,
			)
		}
		rw.result.Skipped++
		return raw
	}
	rw.result.Rewritten++
	return out
}

func (rw *rewriter) rewriteSrcset(srcset string) string {
	candidates := ParseSrcset(srcset)
	for i, c := range candidates {
		candidates[i].URL = rw.rewrite(c.URL, scaleOperations(rw.req.Operations, c.Descriptor))
	}
	return FormatSrcset(candidates)
}

// scaleOperations applies a srcset descriptor to ops. Unknown descriptors
// leave ops unchanged.
func scaleOperations(ops operations.Operations, descriptor string) operations.Operations {
	if len(descriptor) < 2 {
		return ops
	}
	n, err := strconv.ParseFloat(descriptor[:len(descriptor)-1], 64)
	if err != nil || n <= 0 {
		return ops
	}

	out := ops.Clone()
	width, hasWidth := ops.Width.Number()
	height, hasHeight := ops.Height.Number()
	switch descriptor[len(descriptor)-1] {
	case 'w':
		out.Width = operations.Int(int(math.Round(n)))
		if hasWidth && hasHeight && width > 0 {
			out.Height = operations.Int(int(math.Round(height * n / width)))
		}
	case 'x':
		if hasWidth {
			out.Width = operations.Int(int(math.Round(width * n)))
		}
		if hasHeight {
			out.Height = operations.Int(int(math.Round(height * n)))
		}
	}
	return out
}

func isInline(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "blob:")
}
