package providers

import (
	"fmt"
	"regexp"
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
)

// Cloudflare Images options.
const (
	OptionAccountHash = "accountHash"
	OptionImageID     = "imageId"
	// OptionVariant names a predefined variant, used when no operations are given.
	OptionVariant = "variant"
)

// cloudflareImagesPattern matches both the imagedelivery.net host and the
// /cdn-cgi/imagedelivery path on a custom domain.
var cloudflareImagesPattern = regexp.MustCompile(`^https?://(?:imagedelivery\.net|([^/]+)/cdn-cgi/imagedelivery)/([^/]+)/([^/]+)/([^/]+)$`)

var cloudflareImagesCodec = operations.NewCodec(operations.Config{
	KeyMap: operations.KeyMap{
		operations.KeyWidth:   "w",
		operations.KeyHeight:  "h",
		operations.KeyFormat:  "f",
		operations.KeyQuality: "q",
	},
	Defaults:       operations.Params{{Key: "fit", Value: operations.String("cover")}},
	KVSeparator:    "=",
	ParamSeparator: ",",
})

// Cloudflare Images addresses uploads by account and image id, so a URL that
// does not carry them cannot be transformed.
func newCloudflareImages() Provider {
	return Provider{
		CDN:       cdn.CloudflareImages,
		Extract:   extractCloudflareImages,
		Generate:  generateCloudflareImages,
		Transform: transform.ComposeStrict(extractCloudflareImages, generateCloudflareImages),
	}
}

func extractCloudflareImages(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	m := cloudflareImagesPattern.FindStringSubmatch(raw)
	if m == nil {
		return transform.ExtractedURL{}, false
	}
	domain, account, image, last := m[1], m[2], m[3], m[4]

	opts := transform.Options{
		OptionAccountHash: account,
		OptionImageID:     image,
	}
	if domain != "" {
		opts[OptionDomain] = domain
	}
	var ops operations.Operations
	if strings.Contains(last, "=") {
		ops = cloudflareImagesCodec.Deserialize(last)
	} else {
		opts[OptionVariant] = last
	}
	return transform.ExtractedURL{Src: raw, Operations: ops, Options: opts}, true
}

func generateCloudflareImages(src string, ops operations.Operations, opts transform.Options) (string, error) {
	if extracted, ok := extractCloudflareImages(src, nil); ok {
		opts = extracted.Options.Merge(opts)
	}
	account, image := opts.Get(OptionAccountHash), opts.Get(OptionImageID)
	if account == "" || image == "" {
		return "", fmt.Errorf("%w: cloudflare_images needs %s and %s", ErrMissingIdentifiers, OptionAccountHash, OptionImageID)
	}

	last := opts.Get(OptionVariant)
	if !ops.IsZero() || last == "" {
		last = cloudflareImagesCodec.Serialize(ops)
	}

	base := "https://imagedelivery.net"
	if domain := opts.Get(OptionDomain); domain != "" {
		base = "https://" + domain + "/cdn-cgi/imagedelivery"
	}
	return base + "/" + account + "/" + image + "/" + last, nil
}
