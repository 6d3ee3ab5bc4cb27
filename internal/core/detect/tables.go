package detect

import "Unpic/internal/core/cdn"

// domains maps exact hostnames to the CDN serving them.
var domains = map[string]cdn.ImageCDN{
	"images.ctfassets.net":   cdn.Contentful,
	"cdn.builder.io":         cdn.BuilderIO,
	"images.prismic.io":      cdn.Imgix,
	"www.datocms-assets.com": cdn.Imgix,
	"cdn.sanity.io":          cdn.Imgix,
	"images.unsplash.com":    cdn.Imgix,
	"cdn.shopify.com":        cdn.Shopify,
	"s7d1.scene7.com":        cdn.Scene7,
	"ip.keycdn.com":          cdn.KeyCDN,
	"assets.caisy.io":        cdn.Bunny,
	"images.contentstack.io": cdn.Contentstack,
	"ucarecdn.com":           cdn.Uploadcare,
	"imagedelivery.net":      cdn.CloudflareImages,
	"wsrv.nl":                cdn.Wsrv,
	"cdn.bsky.app":           cdn.Bluesky,
	"assets.kontent.ai":      cdn.KontentAI,
	"ik.imagekit.io":         cdn.ImageKit,
	"res.cloudinary.com":     cdn.Cloudinary,
}

// subdomains maps a parent domain to the CDN serving every host below it.
var subdomains = map[string]cdn.ImageCDN{
	"imgix.net":           cdn.Imgix,
	"wp.com":              cdn.WordPress,
	"files.wordpress.com": cdn.WordPress,
	"b-cdn.net":           cdn.Bunny,
	"storyblok.com":       cdn.Storyblok,
	"kc-usercontent.com":  cdn.KontentAI,
	"cloudinary.com":      cdn.Cloudinary,
	"cloudimg.io":         cdn.Cloudimage,
	"imagekit.io":         cdn.ImageKit,
	"imgeng.in":           cdn.ImageEngine,
	"graphassets.com":     cdn.Hygraph,
	"supabase.co":         cdn.Supabase,
	"directus.app":        cdn.Directus,
	"appwrite.io":         cdn.Appwrite,
	"appwrite.global":     cdn.Appwrite,
	"netlify.app":         cdn.Netlify,
	"vercel.app":          cdn.Vercel,
	"scene7.com":          cdn.Scene7,
	"ctfassets.net":       cdn.Contentful,
	"contentstack.io":     cdn.Contentstack,
	"shopify.com":         cdn.Shopify,
}

type pathRule struct {
	prefix string
	cdn    cdn.ImageCDN
}

// paths are checked in order and the first match wins. A prefix ending in
// "/" matches any path below it; any other prefix must equal the path.
var paths = []pathRule{
	{prefix: "/cdn-cgi/image/", cdn: cdn.Cloudflare},
	{prefix: "/cdn-cgi/imagedelivery/", cdn: cdn.CloudflareImages},
	{prefix: "/_next/image", cdn: cdn.NextJS},
	{prefix: "/_vercel/image", cdn: cdn.Vercel},
	{prefix: "/is/image/", cdn: cdn.Scene7},
	{prefix: "/_ipx/", cdn: cdn.IPX},
	{prefix: "/_image", cdn: cdn.Astro},
	{prefix: "/.netlify/images", cdn: cdn.Netlify},
	{prefix: "/storage/v1/object/public/", cdn: cdn.Supabase},
	{prefix: "/storage/v1/render/image/public/", cdn: cdn.Supabase},
	{prefix: "/v1/storage/buckets/", cdn: cdn.Appwrite},
}
