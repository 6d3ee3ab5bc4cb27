package providers

import (
	"fmt"
	"regexp"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

// OptionDomain is the zone hostname serving the image endpoint.
const OptionDomain = "domain"

var cloudflarePattern = regexp.MustCompile(`^(?:(https?://[^/]+))?/cdn-cgi/image/([^/]+)/(.+)$`)

var cloudflareCodec = operations.NewCodec(operations.Config{
	KeyMap:         operations.KeyMap{operations.KeyFormat: "f"},
	Defaults:       operations.Params{{Key: operations.KeyFormat, Value: operations.String("auto")}},
	KVSeparator:    "=",
	ParamSeparator: ",",
})

func newCloudflare() Provider {
	return Provider{
		CDN:      cdn.Cloudflare,
		Extract:  extractCloudflare,
		Generate: generateCloudflare,
	}
}

func extractCloudflare(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	m := cloudflarePattern.FindStringSubmatch(raw)
	if m == nil {
		return transform.ExtractedURL{}, false
	}
	origin, modifiers, path := m[1], m[2], m[3]

	src := path
	if !urls.IsAbsolute(path) {
		src = origin + urls.AddLeadingSlash(path)
	}
	var opts transform.Options
	if origin != "" {
		u, err := urls.Parse(origin)
		if err != nil {
			return transform.ExtractedURL{}, false
		}
		opts = transform.Options{OptionDomain: u.Host}
	}
	return transform.ExtractedURL{
		Src:        src,
		Operations: cloudflareCodec.Deserialize(modifiers),
		Options:    opts,
	}, true
}

func generateCloudflare(src string, ops operations.Operations, opts transform.Options) (string, error) {
	u, err := urls.Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}

	// Images on the zone are referenced by path, others by full URL.
	origin := urls.Origin(u)
	path := urls.StripLeadingSlash(u.RequestURI())
	if domain := opts.Get(OptionDomain); domain != "" && domain != u.Host {
		if !urls.IsRelative(u) {
			path = urls.Canonical(u)
		}
		origin = "https://" + domain
	}
	return origin + "/cdn-cgi/image/" + cloudflareCodec.Serialize(ops) + "/" + path, nil
}
