package providers

import (
	"fmt"
	"net/url"
	"regexp"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
)

// OptionPreset names the Bluesky preset. Its family is kept when a new width
// selects a different size.
const OptionPreset = "preset"

const blueskyBaseURL = "https://cdn.bsky.app"

// blueskyPattern matches {base}/img/{preset}/plain/{did}/{cid}[@{format}].
var blueskyPattern = regexp.MustCompile(`^https://cdn\.bsky\.app/img/([a-z_]+)/plain/([^/]+)/([^/@]+)(?:@([a-z]+))?$`)

var blueskyCodec = operations.NewCodec(operations.Config{
	FormatMap: map[string]string{"jpg": "jpeg"},
})

type blueskyImage struct {
	preset string
	did    string
	cid    string
	format string
}

func parseBluesky(raw string) (blueskyImage, error) {
	m := blueskyPattern.FindStringSubmatch(raw)
	if m == nil {
		return blueskyImage{}, fmt.Errorf("%w: not a Bluesky CDN URL: %s", ErrInvalidSource, raw)
	}
	did, err := url.PathUnescape(m[2])
	if err != nil {
		return blueskyImage{}, ErrInvalidDID
	}
	img := blueskyImage{preset: m[1], did: did, cid: m[3], format: m[4]}
	if err := ValidatePreset(img.preset); err != nil {
		return blueskyImage{}, err
	}
	if err := ValidateDID(img.did); err != nil {
		return blueskyImage{}, err
	}
	if err := ValidateCID(img.cid); err != nil {
		return blueskyImage{}, err
	}
	return img, nil
}

// String renders the image URL. An empty format means the CDN's default.
func (img blueskyImage) String() string {
	out := blueskyBaseURL + "/img/" + img.preset + "/plain/" + url.PathEscape(img.did) + "/" + url.PathEscape(img.cid)
	if img.format != "" {
		out += "@" + img.format
	}
	return out
}

// Bluesky only serves fixed presets, so a URL without a valid preset, DID and
// CID cannot be transformed.
func newBluesky() Provider {
	return Provider{
		CDN:       cdn.Bluesky,
		Extract:   extractBluesky,
		Generate:  generateBluesky,
		Transform: transform.ComposeStrict(extractBluesky, generateBluesky),
	}
}

func extractBluesky(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	img, err := parseBluesky(raw)
	if err != nil {
		return transform.ExtractedURL{}, false
	}
	preset, _ := GetPreset(img.preset)

	params := operations.Params{{Key: operations.KeyWidth, Value: operations.Int(preset.Width)}}
	if preset.Height > 0 {
		params.Set(operations.KeyHeight, operations.Int(preset.Height))
	}
	if img.format != "" {
		params.Set(operations.KeyFormat, operations.String(img.format))
	}

	img.format = ""
	return transform.ExtractedURL{
		Src:        img.String(),
		Operations: operations.FromParams(blueskyCodec.Denormalize(params)),
		Options:    transform.Options{OptionPreset: preset.Name},
	}, true
}

// generateBluesky picks the smallest preset of the source's family that
// covers the requested width. Height is implied by the preset.
func generateBluesky(src string, ops operations.Operations, opts transform.Options) (string, error) {
	img, err := parseBluesky(src)
	if err != nil {
		return "", fmt.Errorf("%w: bluesky needs a preset, DID and CID: %v", ErrMissingIdentifiers, err)
	}
	if name := opts.Get(OptionPreset); name != "" {
		if err := ValidatePreset(name); err != nil {
			return "", err
		}
		img.preset = name
	}

	normalized := blueskyCodec.Normalize(ops.Params())
	if w, ok := normalized.Get(operations.KeyWidth).Int(); ok {
		current, err := GetPreset(img.preset)
		if err != nil {
			return "", err
		}
		preset, err := PresetForWidth(current.Family, w)
		if err != nil {
			return "", err
		}
		img.preset = preset.Name
	}
	if f := normalized.Get(operations.KeyFormat); f.IsSet() {
		img.format = f.String()
	}
	return img.String(), nil
}
