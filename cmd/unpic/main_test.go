package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Unpic"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	transformer, err := unpic.NewTransformer(unpic.DefaultConfig())
	require.NoError(t, err)

	var out bytes.Buffer
	root := newRootCommand(transformer)
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), err
}

func TestTransformCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "detected CDN",
			args: []string{"transform", "--width", "300", "--height", "200", "https://cdn.builder.io/api/v1/image/assets/abc"},
			want: "https://cdn.builder.io/api/v1/image/assets/abc?width=300&height=200&fit=cover\n",
		},
		{
			name: "fallback",
			args: []string{"transform", "-w", "200", "-H", "100", "--fallback", "ipx", "https://placekitten.com/100"},
			want: "/_ipx/s_200x100,f_auto/https://placekitten.com/100\n",
		},
		{
			name: "provider option",
			args: []string{"transform", "-w", "100", "--cdn", "cloudimage", "-o", "token=tok", "https://example.com/a.jpg"},
			want: "https://tok.cloudimg.io/v7/https://example.com/a.jpg?w=100&org_if_sml=1\n",
		},
		{
			name: "unrecognized prints nothing",
			args: []string{"transform", "-w", "200", "https://placekitten.com/100"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestTransformCommandErrors(t *testing.T) {
	_, err := runCommand(t, "transform", "--cdn", "fastly", "https://example.com/a.jpg")
	assert.ErrorContains(t, err, "unsupported CDN")

	_, err = runCommand(t, "transform", "-p", "novalue", "https://cdn.builder.io/a.jpg")
	assert.ErrorContains(t, err, "expected key=value")

	_, err = runCommand(t, "transform", "-o", "token=tok", "https://example.com/a.jpg")
	assert.ErrorContains(t, err, "--option needs --cdn or --fallback")

	_, err = runCommand(t, "transform", "--cdn", "cloudimage", "https://example.com/a.jpg")
	assert.ErrorIs(t, err, unpic.ErrMissingIdentifiers)
}

func TestParseCommand(t *testing.T) {
	out, err := runCommand(t, "parse", "/_ipx/s_200x100,f_auto/https://placekitten.com/100")
	require.NoError(t, err)

	var got struct {
		CDN        string            `json:"cdn"`
		Src        string            `json:"src"`
		Operations map[string]string `json:"operations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ipx", got.CDN)
	assert.Equal(t, "https://placekitten.com/100", got.Src)
	assert.Equal(t, map[string]string{"width": "200", "height": "100", "format": "auto"}, got.Operations)

	_, err = runCommand(t, "parse", "https://example.com/a.jpg")
	assert.ErrorIs(t, err, unpic.ErrUnrecognizedURL)
}

func TestCanonicalCommand(t *testing.T) {
	out, err := runCommand(t, "canonical", "/_ipx/_/https://cdn.shopify.com/a.jpg")
	require.NoError(t, err)
	assert.JSONEq(t, `{"cdn": "shopify", "url": "https://cdn.shopify.com/a.jpg"}`, out)

	out, err = runCommand(t, "canonical", "--default", "wsrv", "https://example.com/a.jpg")
	require.NoError(t, err)
	assert.JSONEq(t, `{"cdn": "wsrv", "url": "https://example.com/a.jpg"}`, out)
}

func TestRouter(t *testing.T) {
	transformer, err := unpic.NewTransformer(unpic.DefaultConfig())
	require.NoError(t, err)
	router := newRouter(transformer, nil, []string{"https://example.com"})

	req := httptest.NewRequest(http.MethodGet, "/img?url=https%3A%2F%2Fplacekitten.com%2F100&width=200&height=100&fallback=ipx", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/_ipx/s_200x100,f_auto/https://placekitten.com/100", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/transform?url=https%3A%2F%2Fassets.imgix.net%2Fa.jpg&width=100", nil)
	req.Header.Set("Origin", "https://example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTMLCommand(t *testing.T) {
	transformer, err := unpic.NewTransformer(unpic.DefaultConfig())
	require.NoError(t, err)

	var out bytes.Buffer
	root := newRootCommand(transformer)
	root.SetIn(strings.NewReader(`<img src="https://placekitten.com/100">`))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"html", "-w", "200", "-H", "100", "--fallback", "ipx"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `<img src="/_ipx/s_200x100,f_auto/https://placekitten.com/100"/>`)
}
