package providers

import (
	"fmt"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/transform"
)

// registry is built once at package init and read-only afterwards. Provider
// constructors must not refer to it.
var registry = buildRegistry(
	newAppwrite(),
	newAstro(),
	newBluesky(),
	newBuilderIO(),
	newBunny(),
	newCloudflare(),
	newCloudflareImages(),
	newCloudimage(),
	newCloudinary(),
	newContentful(),
	newContentstack(),
	newDirectus(),
	newHygraph(),
	newImageEngine(),
	newImageKit(),
	newImgix(),
	newIPX(),
	newKeyCDN(),
	newKontentAI(),
	newNetlify(),
	newNextJS(),
	newScene7(),
	newShopify(),
	newStoryblok(),
	newSupabase(),
	newUploadcare(),
	newVercel(),
	newWordPress(),
	newWsrv(),
)

func buildRegistry(list ...Provider) map[cdn.ImageCDN]Provider {
	m := make(map[cdn.ImageCDN]Provider, len(list))
	for _, p := range list {
		if p.Transform == nil {
			p.Transform = transform.Compose(p.Extract, p.Generate)
		}
		m[p.CDN] = p
	}
	return m
}

// Lookup returns the provider registered for c.
func Lookup(c cdn.ImageCDN) (Provider, bool) {
	p, ok := registry[c]
	return p, ok
}

// Resolve returns the provider registered for c or an error wrapping
// ErrUnknownProvider.
func Resolve(c cdn.ImageCDN) (Provider, error) {
	p, ok := registry[c]
	if !ok {
		return Provider{}, fmt.Errorf("%w: %q", ErrUnknownProvider, c)
	}
	return p, nil
}
