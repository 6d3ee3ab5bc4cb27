// Package cdn enumerates the supported image CDNs and image servers.
package cdn

import "strings"

// ImageCDN identifies a supported image CDN or image server.
type ImageCDN string

// Supported providers.
const (
	Appwrite         ImageCDN = "appwrite"
	Astro            ImageCDN = "astro"
	Bluesky          ImageCDN = "bluesky"
	BuilderIO        ImageCDN = "builder.io"
	Bunny            ImageCDN = "bunny"
	Cloudflare       ImageCDN = "cloudflare"
	CloudflareImages ImageCDN = "cloudflare_images"
	Cloudimage       ImageCDN = "cloudimage"
	Cloudinary       ImageCDN = "cloudinary"
	Contentful       ImageCDN = "contentful"
	Contentstack     ImageCDN = "contentstack"
	Directus         ImageCDN = "directus"
	Hygraph          ImageCDN = "hygraph"
	ImageEngine      ImageCDN = "imageengine"
	ImageKit         ImageCDN = "imagekit"
	Imgix            ImageCDN = "imgix"
	IPX              ImageCDN = "ipx"
	KeyCDN           ImageCDN = "keycdn"
	KontentAI        ImageCDN = "kontent.ai"
	Netlify          ImageCDN = "netlify"
	NextJS           ImageCDN = "nextjs"
	Scene7           ImageCDN = "scene7"
	Shopify          ImageCDN = "shopify"
	Storyblok        ImageCDN = "storyblok"
	Supabase         ImageCDN = "supabase"
	Uploadcare       ImageCDN = "uploadcare"
	Vercel           ImageCDN = "vercel"
	WordPress        ImageCDN = "wordpress"
	Wsrv             ImageCDN = "wsrv"
)

var all = []ImageCDN{
	Appwrite, Astro, Bluesky, BuilderIO, Bunny, Cloudflare, CloudflareImages,
	Cloudimage, Cloudinary, Contentful, Contentstack, Directus, Hygraph,
	ImageEngine, ImageKit, Imgix, IPX, KeyCDN, KontentAI, Netlify, NextJS,
	Scene7, Shopify, Storyblok, Supabase, Uploadcare, Vercel, WordPress, Wsrv,
}

// aliases are alternate spellings accepted by Parse.
var aliases = map[string]ImageCDN{
	"builderio":        BuilderIO,
	"builder":          BuilderIO,
	"kontentai":        KontentAI,
	"kontent":          KontentAI,
	"next":             NextJS,
	"next.js":          NextJS,
	"cloudflareimages": CloudflareImages,
	"wp":               WordPress,
	"adobe":            Scene7,
}

// All returns every supported provider in a stable order.
func All() []ImageCDN {
	return append([]ImageCDN(nil), all...)
}

// String returns the provider identifier.
func (c ImageCDN) String() string {
	return string(c)
}

// Valid reports whether c names a supported provider.
func (c ImageCDN) Valid() bool {
	for _, known := range all {
		if c == known {
			return true
		}
	}
	return false
}

// Parse resolves a provider name, case-insensitively and with a few common
// alternate spellings. It returns false for unknown names.
func Parse(name string) (ImageCDN, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if c := ImageCDN(key); c.Valid() {
		return c, true
	}
	if c, ok := aliases[key]; ok {
		return c, true
	}
	return "", false
}
