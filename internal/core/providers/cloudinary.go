package providers

import (
	"fmt"
	"regexp"
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

// Cloudinary options.
const (
	OptionCloudName = "cloudName"
	// OptionCloudinaryDomain is a private CDN or CNAME host replacing res.cloudinary.com.
	OptionCloudinaryDomain = "domain"
)

const cloudinaryHost = "res.cloudinary.com"

var (
	cloudinaryAssetTypes    = map[string]bool{"image": true, "video": true, "raw": true}
	cloudinaryDeliveryTypes = map[string]bool{
		"upload": true, "fetch": true, "private": true, "authenticated": true,
		"sprite": true, "facebook": true, "twitter": true, "youtube": true, "vimeo": true,
	}
	cloudinaryVersion   = regexp.MustCompile(`^v\d+$`)
	cloudinaryTransform = regexp.MustCompile(`^[a-z]{1,3}_[^,]*(?:,[a-z]{1,3}_[^,]*)*$`)
)

var cloudinaryCodec = operations.NewCodec(operations.Config{
	KeyMap: operations.KeyMap{
		operations.KeyWidth:   "w",
		operations.KeyHeight:  "h",
		operations.KeyFormat:  "f",
		operations.KeyQuality: "q",
	},
	Defaults: operations.Params{
		{Key: operations.KeyFormat, Value: operations.String("auto")},
		{Key: "c", Value: operations.String("lfill")},
	},
	KVSeparator:    "_",
	ParamSeparator: ",",
})

// cloudinaryURL is a parsed delivery URL:
// https://res.cloudinary.com/<cloud>/<asset>/<delivery>/<transforms>/v<version>/<id>
type cloudinaryURL struct {
	host       string
	cloudName  string
	assetType  string
	delivery   string
	transforms string
	version    string
	id         string
}

func parseCloudinary(raw string) (cloudinaryURL, bool) {
	u, err := urls.Parse(raw)
	if err != nil || urls.IsRelative(u) {
		return cloudinaryURL{}, false
	}
	segments := strings.Split(urls.StripLeadingSlash(u.EscapedPath()), "/")

	c := cloudinaryURL{host: u.Host}
	// The cloud name is the first segment on res.cloudinary.com, and absent
	// on private CDN hosts.
	if u.Host == cloudinaryHost {
		if len(segments) == 0 {
			return cloudinaryURL{}, false
		}
		c.cloudName, segments = segments[0], segments[1:]
	}
	if len(segments) < 3 || !cloudinaryAssetTypes[segments[0]] || !cloudinaryDeliveryTypes[segments[1]] {
		return cloudinaryURL{}, false
	}
	c.assetType, c.delivery, segments = segments[0], segments[1], segments[2:]

	if len(segments) > 1 && cloudinaryTransform.MatchString(segments[0]) {
		c.transforms, segments = segments[0], segments[1:]
	}
	if len(segments) > 1 && cloudinaryVersion.MatchString(segments[0]) {
		c.version, segments = segments[0], segments[1:]
	}
	c.id = strings.Join(segments, "/")
	if u.RawQuery != "" {
		c.id += "?" + u.RawQuery
	}
	if c.id == "" {
		return cloudinaryURL{}, false
	}
	return c, true
}

func (c cloudinaryURL) String() string {
	parts := []string{"https://" + c.host}
	if c.cloudName != "" && c.host == cloudinaryHost {
		parts = append(parts, c.cloudName)
	}
	parts = append(parts, c.assetType, c.delivery)
	if c.transforms != "" {
		parts = append(parts, c.transforms)
	}
	if c.version != "" {
		parts = append(parts, c.version)
	}
	parts = append(parts, c.id)
	return strings.Join(parts, "/")
}

func newCloudinary() Provider {
	return Provider{
		CDN:      cdn.Cloudinary,
		Extract:  extractCloudinary,
		Generate: generateCloudinary,
	}
}

func extractCloudinary(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	c, ok := parseCloudinary(raw)
	if !ok {
		return transform.ExtractedURL{}, false
	}
	ops := cloudinaryCodec.Deserialize(c.transforms)
	c.transforms = ""

	opts := transform.Options{OptionCloudName: c.cloudName}
	if c.host != cloudinaryHost {
		opts[OptionCloudinaryDomain] = c.host
	}
	src := c.String()
	if c.delivery == "fetch" {
		src = c.id
	}
	return transform.ExtractedURL{Src: src, Operations: ops, Options: opts}, true
}

// generateCloudinary rewrites a Cloudinary URL in place, or wraps any other
// source in a fetch URL for the configured cloud.
func generateCloudinary(src string, ops operations.Operations, opts transform.Options) (string, error) {
	c, ok := parseCloudinary(src)
	if !ok {
		cloudName := opts.Get(OptionCloudName)
		if cloudName == "" {
			return "", fmt.Errorf("%w: cloudinary needs %s to fetch %s", ErrMissingIdentifiers, OptionCloudName, src)
		}
		c = cloudinaryURL{
			host:      cloudinaryHost,
			cloudName: cloudName,
			assetType: "image",
			delivery:  "fetch",
			id:        src,
		}
		if domain := opts.Get(OptionCloudinaryDomain); domain != "" {
			c.host = domain
		}
	}
	c.transforms = cloudinaryCodec.Serialize(ops)
	return c.String(), nil
}
