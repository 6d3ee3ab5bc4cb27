// Package unpic rewrites image URLs for image CDNs and image-serving
// frameworks. Given a URL from one of the supported services it can detect the
// provider, extract the source image and its operations (width, height,
// format, quality and provider-specific extras), and regenerate the URL with
// new operations.
//
// The package-level functions detect CDNs without caching. Use NewTransformer
// for a cached detector and defaults from a Config.
package unpic

import (
	"math"
	"strconv"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/providers"
	"Unpic/internal/core/transform"
)

type (
	// ImageCDN names a supported image service.
	ImageCDN = cdn.ImageCDN
	// Operations are the image operations carried by a URL.
	Operations = operations.Operations
	// Params is an ordered list of provider parameters.
	Params = operations.Params
	// Param is a single key/value pair.
	Param = operations.Param
	// Value is a parameter value.
	Value = operations.Value
	// Options carry provider context such as a base URL or account name.
	Options = transform.Options
	// Request describes a URL transformation.
	Request = providers.Request
	// ParsedURL is the result of ParseURL.
	ParsedURL = providers.ParsedURL
	// Delegation names the CDN and URL that actually serve an image.
	Delegation = providers.Delegation
)

// Supported CDNs.
const (
	Appwrite         = cdn.Appwrite
	Astro            = cdn.Astro
	Bluesky          = cdn.Bluesky
	BuilderIO        = cdn.BuilderIO
	Bunny            = cdn.Bunny
	Cloudflare       = cdn.Cloudflare
	CloudflareImages = cdn.CloudflareImages
	Cloudimage       = cdn.Cloudimage
	Cloudinary       = cdn.Cloudinary
	Contentful       = cdn.Contentful
	Contentstack     = cdn.Contentstack
	Directus         = cdn.Directus
	Hygraph          = cdn.Hygraph
	ImageEngine      = cdn.ImageEngine
	ImageKit         = cdn.ImageKit
	Imgix            = cdn.Imgix
	IPX              = cdn.IPX
	KeyCDN           = cdn.KeyCDN
	KontentAI        = cdn.KontentAI
	Netlify          = cdn.Netlify
	NextJS           = cdn.NextJS
	Scene7           = cdn.Scene7
	Shopify          = cdn.Shopify
	Storyblok        = cdn.Storyblok
	Supabase         = cdn.Supabase
	Uploadcare       = cdn.Uploadcare
	Vercel           = cdn.Vercel
	WordPress        = cdn.WordPress
	Wsrv             = cdn.Wsrv
)

// Provider option keys.
const (
	OptionBaseURL          = providers.OptionBaseURL
	OptionDomain           = providers.OptionDomain
	OptionAccountHash      = providers.OptionAccountHash
	OptionImageID          = providers.OptionImageID
	OptionVariant          = providers.OptionVariant
	OptionToken            = providers.OptionToken
	OptionCloudName        = providers.OptionCloudName
	OptionCloudinaryDomain = providers.OptionCloudinaryDomain
	OptionStyle            = providers.OptionStyle
	OptionFilename         = providers.OptionFilename
	OptionPreset           = providers.OptionPreset
)

// CDNs returns every supported CDN.
func CDNs() []ImageCDN {
	return cdn.All()
}

// ParseCDN looks up a CDN by name.
func ParseCDN(name string) (ImageCDN, bool) {
	return cdn.Parse(name)
}

// Int returns an integer Value.
func Int(n int) Value { return operations.Int(n) }

// Float returns a numeric Value.
func Float(f float64) Value { return operations.Float(f) }

// String returns a string Value.
func String(s string) Value { return operations.String(s) }

// Bool returns a boolean Value.
func Bool(b bool) Value { return operations.Bool(b) }

// ParseValue reads a value from text such as a flag or query parameter.
// Numeric text becomes a number so providers can round it. Empty text is
// unset.
func ParseValue(s string) Value {
	if s == "" {
		return Value{}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return Float(n)
	}
	return String(s)
}

// TransformURL re-targets req.URL with req.Operations. The CDN is req.CDN if
// set, else the detected CDN, else req.Fallback. It returns "" and a nil error
// when none applies.
func TransformURL(req Request) (string, error) {
	return providers.TransformURL(req)
}

// ParseURL extracts the source image and operations from raw. When c is empty
// the CDN is detected from the URL.
func ParseURL(raw string, c ImageCDN) (ParsedURL, bool) {
	return providers.ParseURL(raw, c)
}

// CanonicalCDNForURL reports the CDN and URL that actually serve raw, following
// one level of delegation such as a Next.js optimizer wrapping a Shopify URL.
func CanonicalCDNForURL(raw string, defaultCDN ImageCDN) (Delegation, bool) {
	return providers.CanonicalCDNForURL(raw, defaultCDN)
}
