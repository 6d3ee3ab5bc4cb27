package urls

import (
	"testing"

	"Unpic/internal/core/operations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		relative bool
	}{
		{name: "absolute URL", input: "https://cdn.example.com/images/cat.jpg?w=100", want: "https://cdn.example.com/images/cat.jpg?w=100"},
		{name: "absolute URL without path gains slash", input: "https://example.com", want: "https://example.com/"},
		{name: "root-relative path", input: "/foo/bar?x=1", want: "/foo/bar?x=1", relative: true},
		{name: "bare path resolves from root", input: "foo/bar.png", want: "/foo/bar.png", relative: true},
		{name: "parentheses survive", input: "/m/filters:format(webp)/a.jpg", want: "/m/filters:format(webp)/a.jpg", relative: true},
		{name: "commas survive", input: "https://example.com/cdn-cgi/image/width=100,format=auto/a.jpg", want: "https://example.com/cdn-cgi/image/width=100,format=auto/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.relative, IsRelative(u))
			assert.Equal(t, tt.want, Canonical(u))
		})
	}
}

func TestCanonicalIsIdempotent(t *testing.T) {
	for _, input := range []string{"/foo/bar?x=1", "https://example.com/a.jpg?w=1&h=2"} {
		u, err := Parse(input)
		require.NoError(t, err)
		first := Canonical(u)

		u, err = Parse(first)
		require.NoError(t, err)
		assert.Equal(t, first, Canonical(u))
	}
}

func TestParseWithBase(t *testing.T) {
	u, err := ParseWithBase("/_next/image?w=100", "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/_next/image?w=100", Canonical(u))
	assert.Equal(t, "https://example.com", Origin(u))

	u, err = ParseWithBase("/a.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, "", Origin(u))
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse("http://[::1")
	assert.Error(t, err)
}

func TestSetEscapedPath(t *testing.T) {
	u, err := Parse("https://example.com/a.jpg")
	require.NoError(t, err)

	require.NoError(t, SetEscapedPath(u, "/m/100x0/filters:quality(80)/a.jpg"))
	assert.Equal(t, "https://example.com/m/100x0/filters:quality(80)/a.jpg", Canonical(u))

	assert.Error(t, SetEscapedPath(u, "/bad%zz"))
}

func TestSlashHelpers(t *testing.T) {
	assert.Equal(t, "a/", StripLeadingSlash("/a/"))
	assert.Equal(t, "/a", StripTrailingSlash("/a/"))
	assert.Equal(t, "/a", AddLeadingSlash("a"))
	assert.Equal(t, "/a", AddLeadingSlash("/a"))
	assert.Equal(t, "a/", AddTrailingSlash("a"))
	assert.Equal(t, "a/", AddTrailingSlash("a/"))
}

func TestJoinPaths(t *testing.T) {
	tests := []struct {
		segments []string
		want     string
	}{
		{[]string{"/_ipx", "w_100", "/a.jpg"}, "/_ipx/w_100/a.jpg"},
		{[]string{"https://example.com/", "/cdn-cgi/image/", "x.png"}, "https://example.com/cdn-cgi/image/x.png"},
		{[]string{"", "a", "b/"}, "a/b/"},
		{[]string{"/a", "", "b"}, "/a/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinPaths(tt.segments...))
	}
}

func TestIsAbsolute(t *testing.T) {
	assert.True(t, IsAbsolute("https://example.com"))
	assert.True(t, IsAbsolute("HTTP://example.com"))
	assert.False(t, IsAbsolute("/a.jpg"))
	assert.False(t, IsAbsolute("//example.com/a.jpg"))
}

func TestQueryParams(t *testing.T) {
	u, err := Parse("/a.jpg?w=100&fit=cover&w=200")
	require.NoError(t, err)

	params := QueryParams(u)
	assert.Equal(t, []string{"w", "fit"}, params.Keys())
	assert.Equal(t, "200", params.Get("w").String())

	params.Set("h", operations.Int(50))
	SetQueryParams(u, params)
	assert.Equal(t, "/a.jpg?w=200&fit=cover&h=50", Canonical(u))

	SetQueryParams(u, nil)
	assert.Equal(t, "/a.jpg", Canonical(u))
}
