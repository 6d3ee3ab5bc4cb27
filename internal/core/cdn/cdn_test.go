package cdn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  ImageCDN
		ok    bool
	}{
		{input: "imgix", want: Imgix, ok: true},
		{input: " Cloudinary ", want: Cloudinary, ok: true},
		{input: "builder.io", want: BuilderIO, ok: true},
		{input: "builderio", want: BuilderIO, ok: true},
		{input: "next", want: NextJS, ok: true},
		{input: "cloudflare_images", want: CloudflareImages, ok: true},
		{input: "unknown", ok: false},
		{input: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllIsValidAndUnique(t *testing.T) {
	seen := make(map[ImageCDN]bool)
	for _, c := range All() {
		assert.True(t, c.Valid(), c)
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 29)
}
