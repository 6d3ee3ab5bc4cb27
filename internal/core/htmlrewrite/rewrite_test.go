package htmlrewrite

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingTransformer struct{}

func (failingTransformer) TransformURL(providers.Request) (string, error) {
	return "", errors.New("boom")
}

func rewrite(t *testing.T, tr Transformer, doc string, req providers.Request) (string, Result) {
	t.Helper()
	var out bytes.Buffer
	result, err := Rewrite(strings.NewReader(doc), &out, tr, req)
	require.NoError(t, err)
	return out.String(), result
}

func TestRewriteImgSrc(t *testing.T) {
	doc := `<p><img src="https://assets.imgix.net/a.jpg" alt="cat"><img src="https://example.com/b.jpg"></p>`
	req := providers.Request{Operations: operations.Operations{Width: operations.Int(400), Height: operations.Int(300)}}

	out, result := rewrite(t, providers.NewDispatcher(nil), doc, req)

	assert.Contains(t, out, `<img src="https://assets.imgix.net/a.jpg?w=400&amp;h=300&amp;fit=min&amp;auto=format" alt="cat"/>`)
	assert.Contains(t, out, `<img src="https://example.com/b.jpg"/>`, "unrecognized images are left alone")
	assert.Equal(t, Result{Rewritten: 1, Skipped: 1}, result)
}

func TestRewriteUsesFallback(t *testing.T) {
	doc := `<img src="https://placekitten.com/100">`
	req := providers.Request{
		Operations: operations.Operations{Width: operations.Int(200), Height: operations.Int(100)},
		Fallback:   cdn.IPX,
	}

	out, result := rewrite(t, providers.NewDispatcher(nil), doc, req)

	assert.Contains(t, out, `<img src="/_ipx/s_200x100,f_auto/https://placekitten.com/100"/>`)
	assert.Equal(t, 1, result.Rewritten)
}

func TestRewriteSrcset(t *testing.T) {
	doc := `<picture>` +
		`<source srcset="https://assets.imgix.net/a.jpg 400w, https://assets.imgix.net/a.jpg 800w">` +
		`<img src="https://assets.imgix.net/a.jpg" srcset="https://assets.imgix.net/a.jpg 2x">` +
		`</picture>`
	req := providers.Request{Operations: operations.Operations{Width: operations.Int(400), Height: operations.Int(300)}}

	out, result := rewrite(t, providers.NewDispatcher(nil), doc, req)

	assert.Contains(t, out, `https://assets.imgix.net/a.jpg?w=400&amp;h=300&amp;fit=min&amp;auto=format 400w, `+
		`https://assets.imgix.net/a.jpg?w=800&amp;h=600&amp;fit=min&amp;auto=format 800w`)
	assert.Contains(t, out, `srcset="https://assets.imgix.net/a.jpg?w=800&amp;h=600&amp;fit=min&amp;auto=format 2x"`)
	assert.Equal(t, 4, result.Rewritten)
}

func TestRewriteSkipsInlineImagesAndErrors(t *testing.T) {
	doc := `<img src="data:image/png;base64,AAAA"><img src="https://assets.imgix.net/a.jpg">`

	out, result := rewrite(t, failingTransformer{}, doc, providers.Request{})

	assert.Contains(t, out, `<img src="data:image/png;base64,AAAA"/>`)
	assert.Contains(t, out, `<img src="https://assets.imgix.net/a.jpg"/>`)
	assert.Equal(t, Result{Skipped: 1}, result)
}

func TestScaleOperations(t *testing.T) {
	ops := operations.Operations{Width: operations.Int(400), Height: operations.Int(300)}

	tests := []struct {
		descriptor string
		wantWidth  string
		wantHeight string
	}{
		{descriptor: "", wantWidth: "400", wantHeight: "300"},
		{descriptor: "200w", wantWidth: "200", wantHeight: "150"},
		{descriptor: "1.5x", wantWidth: "600", wantHeight: "450"},
		{descriptor: "bogus", wantWidth: "400", wantHeight: "300"},
		{descriptor: "0w", wantWidth: "400", wantHeight: "300"},
	}
	for _, tt := range tests {
		t.Run(tt.descriptor, func(t *testing.T) {
			got := scaleOperations(ops, tt.descriptor)
			assert.Equal(t, tt.wantWidth, got.Width.String())
			assert.Equal(t, tt.wantHeight, got.Height.String())
		})
	}

	widthOnly := scaleOperations(operations.Operations{Format: "webp"}, "640w")
	assert.Equal(t, "640", widthOnly.Width.String())
	assert.False(t, widthOnly.Height.IsSet())
	assert.Equal(t, "webp", widthOnly.Format)
}
