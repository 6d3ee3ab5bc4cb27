package providers

import (
	"fmt"
	"regexp"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

// OptionToken is the Cloudimage customer token, the subdomain of cloudimg.io.
const OptionToken = "token"

var cloudimagePattern = regexp.MustCompile(`^https?://([^.]+)\.cloudimg\.io/v7/(.+)$`)

var cloudimageCodec = operations.NewCodec(operations.Config{
	KeyMap: operations.KeyMap{
		operations.KeyWidth:   "w",
		operations.KeyHeight:  "h",
		operations.KeyFormat:  "force_format",
		operations.KeyQuality: "q",
	},
	Defaults: operations.Params{{Key: "org_if_sml", Value: operations.Int(1)}},
})

func newCloudimage() Provider {
	return Provider{
		CDN:      cdn.Cloudimage,
		Extract:  extractCloudimage,
		Generate: generateCloudimage,
		Delegate: func(raw string) (Delegation, bool) {
			extracted, ok := extractCloudimage(raw, nil)
			if !ok {
				return Delegation{}, false
			}
			return delegateTo(extracted.Src)
		},
	}
}

// extractCloudimage reads https://<token>.cloudimg.io/v7/<source>?<operations>.
// The query belongs to Cloudimage, not to the source.
func extractCloudimage(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	m := cloudimagePattern.FindStringSubmatch(raw)
	if m == nil {
		return transform.ExtractedURL{}, false
	}
	token, rest := m[1], m[2]
	u, err := urls.Parse(rest)
	if err != nil {
		return transform.ExtractedURL{}, false
	}
	ops := cloudimageCodec.Deserialize(u.RawQuery)
	u.RawQuery = ""
	src := urls.Canonical(u)
	if urls.IsRelative(u) {
		src = urls.StripLeadingSlash(src)
	}
	return transform.ExtractedURL{
		Src:        src,
		Operations: ops,
		Options:    transform.Options{OptionToken: token},
	}, true
}

func generateCloudimage(src string, ops operations.Operations, opts transform.Options) (string, error) {
	token := opts.Get(OptionToken)
	if token == "" {
		return "", fmt.Errorf("%w: cloudimage needs %s", ErrMissingIdentifiers, OptionToken)
	}
	out := "https://" + token + ".cloudimg.io/v7/" + urls.StripLeadingSlash(src)
	if q := cloudimageCodec.Serialize(ops); q != "" {
		out += "?" + q
	}
	return out, nil
}
