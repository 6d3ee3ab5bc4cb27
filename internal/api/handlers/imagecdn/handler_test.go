package imagecdn

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"Unpic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockService implements unpic.Service for testing
type mockService struct {
	transformFunc func(req unpic.Request) (string, error)
}

func (m *mockService) TransformURL(req unpic.Request) (string, error) {
	if m.transformFunc != nil {
		return m.transformFunc(req)
	}
	return "", errors.New("not implemented")
}

func (m *mockService) ParseURL(string, unpic.ImageCDN) (unpic.ParsedURL, bool) {
	return unpic.ParsedURL{}, false
}

func (m *mockService) CanonicalCDNForURL(string, unpic.ImageCDN) (unpic.Delegation, bool) {
	return unpic.Delegation{}, false
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	transformer, err := unpic.NewTransformer(unpic.DefaultConfig())
	require.NoError(t, err)
	return NewHandler(transformer)
}

func get(path string, params url.Values) *http.Request {
	return httptest.NewRequest(http.MethodGet, path+"?"+params.Encode(), nil)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandler_HandleTransform(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		want   string
	}{
		{
			name: "detected CDN",
			params: url.Values{
				"url":    {"https://cdn.builder.io/api/v1/image/assets/abc"},
				"width":  {"300"},
				"height": {"200"},
			},
			want: "https://cdn.builder.io/api/v1/image/assets/abc?width=300&height=200&fit=cover",
		},
		{
			name: "fallback",
			params: url.Values{
				"url":      {"https://placekitten.com/100"},
				"width":    {"200"},
				"height":   {"100"},
				"fallback": {"ipx"},
			},
			want: "/_ipx/s_200x100,f_auto/https://placekitten.com/100",
		},
		{
			name: "extra operations and provider options",
			params: url.Values{
				"url":       {"https://example.com/a.jpg"},
				"cdn":       {"cloudimage"},
				"width":     {"100"},
				"op.blur":   {"5"},
				"opt.token": {"tok"},
			},
			want: "https://tok.cloudimg.io/v7/https://example.com/a.jpg?w=100&blur=5&org_if_sml=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newTestHandler(t).HandleTransform(w, get("/transform", tt.params))

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.want, decode(t, w)["url"])
		})
	}
}

func TestHandler_HandleTransform_Errors(t *testing.T) {
	tests := []struct {
		name      string
		params    url.Values
		wantCode  int
		wantError string
	}{
		{name: "missing url", params: url.Values{"width": {"100"}}, wantCode: http.StatusBadRequest, wantError: "InvalidRequest"},
		{name: "unsupported cdn", params: url.Values{"url": {"https://example.com/a.jpg"}, "cdn": {"fastly"}}, wantCode: http.StatusBadRequest, wantError: "InvalidRequest"},
		{name: "options without a target", params: url.Values{"url": {"https://example.com/a.jpg"}, "opt.token": {"tok"}}, wantCode: http.StatusBadRequest, wantError: "InvalidRequest"},
		{name: "no provider applies", params: url.Values{"url": {"https://placekitten.com/100"}}, wantCode: http.StatusNotFound, wantError: "UnrecognizedURL"},
		{name: "missing identifiers", params: url.Values{"url": {"https://example.com/a.jpg"}, "cdn": {"cloudimage"}}, wantCode: http.StatusBadRequest, wantError: "MissingIdentifiers"},
		{name: "strict provider rejects foreign URL", params: url.Values{"url": {"https://example.com/a.jpg"}, "cdn": {"uploadcare"}}, wantCode: http.StatusUnprocessableEntity, wantError: "UnrecognizedURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newTestHandler(t).HandleTransform(w, get("/transform", tt.params))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantError, decode(t, w)["error"])
		})
	}
}

func TestHandler_HandleTransform_UnhandledError(t *testing.T) {
	handler := NewHandler(&mockService{
		transformFunc: func(unpic.Request) (string, error) {
			return "", errors.New("boom")
		},
	})

	w := httptest.NewRecorder()
	handler.HandleTransform(w, get("/transform", url.Values{"url": {"https://example.com/a.jpg"}}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestHandler_HandleRedirect(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		want   string
	}{
		{
			name: "root-relative path keeps embedded source URL",
			params: url.Values{
				"url":      {"https://placekitten.com/100"},
				"width":    {"200"},
				"height":   {"100"},
				"fallback": {"ipx"},
			},
			want: "/_ipx/s_200x100,f_auto/https://placekitten.com/100",
		},
		{
			name: "absolute URL",
			params: url.Values{
				"url":   {"https://assets.imgix.net/a.jpg"},
				"width": {"100"},
			},
			want: "https://assets.imgix.net/a.jpg?w=100&fit=min&auto=format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newTestHandler(t).HandleRedirect(w, get("/img", tt.params))

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
			assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
		})
	}
}

func TestHandler_HandleParse(t *testing.T) {
	w := httptest.NewRecorder()
	newTestHandler(t).HandleParse(w, get("/parse", url.Values{
		"url": {"https://res.cloudinary.com/demo/image/upload/w_300,h_200,c_fill/v1234/sample.jpg"},
	}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "cloudinary", body["cdn"])
	operations, ok := body["operations"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "300", operations["width"])
	assert.Equal(t, "200", operations["height"])

	w = httptest.NewRecorder()
	newTestHandler(t).HandleParse(w, get("/parse", url.Values{"url": {"https://example.com/a.jpg"}}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	newTestHandler(t).HandleParse(w, get("/parse", url.Values{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_HandleCanonical(t *testing.T) {
	w := httptest.NewRecorder()
	newTestHandler(t).HandleCanonical(w, get("/canonical", url.Values{
		"url": {"https://demo.cloudimg.io/v7/https://assets.imgix.net/a.jpg?w=300"},
	}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, map[string]interface{}{"cdn": "imgix", "url": "https://assets.imgix.net/a.jpg"}, decode(t, w))

	w = httptest.NewRecorder()
	newTestHandler(t).HandleCanonical(w, get("/canonical", url.Values{"url": {"https://example.com/a.jpg"}}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	newTestHandler(t).HandleCanonical(w, get("/canonical", url.Values{"url": {"https://example.com/a.jpg"}, "default": {"nope"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
