package providers

import (
	"regexp"
	"strconv"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

var shopifyCodec = operations.NewCodec(operations.Config{
	Defaults: operations.Params{{Key: "crop", Value: operations.String("center")}},
})

// shopifyLegacySize matches the filename suffix older storefront URLs use for
// sizing: name_300x200_crop_center.jpg or name_large.jpg.
var shopifyLegacySize = regexp.MustCompile(`^(.+?)(?:_(?:pico|icon|thumb|small|compact|medium|large|grande|original|master|(\d*)x(\d*)))(?:_crop_([a-z]+))?(\.[a-zA-Z]+)$`)

func newShopify() Provider {
	p := queryProvider{codec: shopifyCodec, keep: []string{"v"}}
	return Provider{
		CDN: cdn.Shopify,
		Extract: func(raw string, opts transform.Options) (transform.ExtractedURL, bool) {
			extracted, ok := p.extract(raw, opts)
			if !ok {
				return extracted, false
			}
			return extractShopifyLegacy(extracted), true
		},
		Generate: p.generate,
	}
}

// extractShopifyLegacy moves size and crop from a legacy filename suffix into
// the operations. Query operations take precedence.
func extractShopifyLegacy(extracted transform.ExtractedURL) transform.ExtractedURL {
	u, err := urls.Parse(extracted.Src)
	if err != nil {
		return extracted
	}
	m := shopifyLegacySize.FindStringSubmatch(u.Path)
	if m == nil {
		return extracted
	}

	var legacy operations.Operations
	if w, err := strconv.Atoi(m[2]); err == nil {
		legacy.Width = operations.Int(w)
	}
	if h, err := strconv.Atoi(m[3]); err == nil {
		legacy.Height = operations.Int(h)
	}
	if m[4] != "" {
		legacy.Set("crop", operations.String(m[4]))
	}

	u.Path = m[1] + m[5]
	u.RawPath = ""
	extracted.Src = urls.Canonical(u)
	extracted.Operations = legacy.Merge(extracted.Operations)
	return extracted
}
