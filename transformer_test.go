package unpic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransformer(t *testing.T, cfg Config) *Transformer {
	t.Helper()
	tr, err := NewTransformer(cfg)
	require.NoError(t, err)
	return tr
}

func TestNewTransformerRejectsInvalidConfig(t *testing.T) {
	_, err := NewTransformer(Config{DefaultQuality: 500})
	assert.ErrorIs(t, err, ErrInvalidDefaultQuality)
}

func TestTransformerTransformURL(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		req    Request
		want   string
	}{
		{
			name:   "configured fallback",
			config: Config{Fallback: IPX},
			req: Request{
				URL:        "https://placekitten.com/100",
				Operations: Operations{Width: Int(200), Height: Int(100)},
			},
			want: "/_ipx/s_200x100,f_auto/https://placekitten.com/100",
		},
		{
			name:   "request fallback wins over configured fallback",
			config: Config{Fallback: Wsrv},
			req: Request{
				URL:        "https://placekitten.com/100",
				Operations: Operations{Width: Int(200), Height: Int(100)},
				Fallback:   IPX,
			},
			want: "/_ipx/s_200x100,f_auto/https://placekitten.com/100",
		},
		{
			name:   "configured IPX base URL",
			config: Config{Fallback: IPX, IPXBaseURL: "https://example.com/_ipx"},
			req: Request{
				URL:        "https://placekitten.com/100",
				Operations: Operations{Width: Int(200), Height: Int(100)},
			},
			want: "https://example.com/_ipx/s_200x100,f_auto/https://placekitten.com/100",
		},
		{
			name:   "default quality fills an unset quality",
			config: Config{DefaultQuality: 80},
			req: Request{
				URL:        "https://cdn.builder.io/api/v1/image/assets/abc",
				Operations: Operations{Width: Int(300), Height: Int(200)},
			},
			want: "https://cdn.builder.io/api/v1/image/assets/abc?width=300&height=200&quality=80&fit=cover",
		},
		{
			name:   "request quality wins over default quality",
			config: Config{DefaultQuality: 80},
			req: Request{
				URL:        "https://cdn.builder.io/api/v1/image/assets/abc",
				Operations: Operations{Width: Int(300), Quality: Int(50)},
			},
			want: "https://cdn.builder.io/api/v1/image/assets/abc?width=300&quality=50&fit=cover",
		},
		{
			name:   "quality already in the URL wins over default quality",
			config: Config{DefaultQuality: 80},
			req: Request{
				URL:        "https://cdn.builder.io/api/v1/image/assets/abc?quality=60",
				Operations: Operations{Width: Int(300)},
			},
			want: "https://cdn.builder.io/api/v1/image/assets/abc?width=300&quality=60&fit=cover",
		},
		{
			name:   "configured cloudimage token",
			config: Config{CloudimageToken: "tok"},
			req: Request{
				URL:        "https://example.com/a.jpg",
				Operations: Operations{Width: Int(100)},
				CDN:        Cloudimage,
			},
			want: "https://tok.cloudimg.io/v7/https://example.com/a.jpg?w=100&org_if_sml=1",
		},
		{
			name:   "request options win over configured options",
			config: Config{CloudimageToken: "tok"},
			req: Request{
				URL:             "https://example.com/a.jpg",
				Operations:      Operations{Width: Int(100)},
				CDN:             Cloudimage,
				ProviderOptions: map[ImageCDN]Options{Cloudimage: {OptionToken: "other"}},
			},
			want: "https://other.cloudimg.io/v7/https://example.com/a.jpg?w=100&org_if_sml=1",
		},
		{
			name:   "existing cloudinary URL keeps its cloud",
			config: Config{CloudinaryCloudName: "acme"},
			req: Request{
				URL:        "https://res.cloudinary.com/demo/image/upload/w_300,h_200,c_fill/v1234/sample.jpg",
				Operations: Operations{Width: Int(600)},
			},
			want: "https://res.cloudinary.com/demo/image/upload/w_600,h_200,c_fill,f_auto/v1234/sample.jpg",
		},
		{
			name:   "configured cloudflare domain",
			config: Config{CloudflareDomain: "example.com"},
			req: Request{
				URL:        "https://other.com/a.jpg",
				Operations: Operations{Width: Int(300)},
				CDN:        Cloudflare,
			},
			want: "https://example.com/cdn-cgi/image/width=300,f=auto/https://other.com/a.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTransformer(t, tt.config)
			got, err := tr.TransformURL(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransformerDoesNotModifyRequestOptions(t *testing.T) {
	tr := newTestTransformer(t, Config{CloudimageToken: "tok"})
	opts := map[ImageCDN]Options{Cloudimage: {OptionToken: "other"}}

	_, err := tr.TransformURL(Request{URL: "https://example.com/a.jpg", CDN: Cloudimage, ProviderOptions: opts})
	require.NoError(t, err)

	assert.Len(t, opts, 1)
	assert.Equal(t, Options{OptionToken: "other"}, opts[Cloudimage])
}

func TestTransformerErrors(t *testing.T) {
	tr := newTestTransformer(t, DefaultConfig())

	_, err := tr.TransformURL(Request{URL: "https://example.com/a.jpg", CDN: Cloudimage})
	assert.ErrorIs(t, err, ErrMissingIdentifiers)

	_, err = tr.TransformURL(Request{URL: "https://example.com/a.jpg", CDN: "fastly"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestTransformerCanonicalCDNForURL(t *testing.T) {
	tr := newTestTransformer(t, Config{Fallback: Wsrv})

	got, ok := tr.CanonicalCDNForURL("https://example.com/a.jpg", "")
	require.True(t, ok)
	assert.Equal(t, Delegation{CDN: Wsrv, URL: "https://example.com/a.jpg"}, got)

	got, ok = tr.CanonicalCDNForURL("https://example.com/a.jpg", IPX)
	require.True(t, ok)
	assert.Equal(t, IPX, got.CDN)

	got, ok = tr.CanonicalCDNForURL("/_next/image?url=https%3A%2F%2Fcdn.shopify.com%2Fa.jpg&w=640", "")
	require.True(t, ok)
	assert.Equal(t, Delegation{CDN: Shopify, URL: "https://cdn.shopify.com/a.jpg"}, got)
}

func TestTransformerParseURL(t *testing.T) {
	tr := newTestTransformer(t, DefaultConfig())

	parsed, ok := tr.ParseURL("https://cdn.builder.io/api/v1/image/assets/abc?width=300&height=200&fit=cover", "")
	require.True(t, ok)
	assert.Equal(t, BuilderIO, parsed.CDN)
	assert.Equal(t, "https://cdn.builder.io/api/v1/image/assets/abc", parsed.Src)
	assert.Equal(t, "300", parsed.Operations.Width.String())
	assert.Equal(t, "cover", parsed.Operations.Get("fit").String())

	_, ok = tr.ParseURL("https://example.com/a.jpg", "")
	assert.False(t, ok)
}

func TestTransformerRewriteHTML(t *testing.T) {
	tr := newTestTransformer(t, Config{Fallback: IPX})

	var out strings.Builder
	result, err := tr.RewriteHTML(
		strings.NewReader(`<img src="https://placekitten.com/100" srcset="https://placekitten.com/100 2x">`),
		&out,
		Request{Operations: Operations{Width: Int(200), Height: Int(100)}},
	)
	require.NoError(t, err)

	assert.Equal(t, RewriteResult{Rewritten: 2}, result)
	assert.Contains(t, out.String(), `src="/_ipx/s_200x100,f_auto/https://placekitten.com/100"`)
	assert.Contains(t, out.String(), `srcset="/_ipx/s_400x200,f_auto/https://placekitten.com/100 2x"`)
}
