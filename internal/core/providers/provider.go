// Package providers holds the catalog of supported image CDNs and the
// dispatch that routes a URL to one of them.
//
// Each provider is data plus a few functions: an operations.Config describing
// its wire format, an extract/generate pair built on that codec, and
// optionally a hand-written transform or a delegate for image servers that
// proxy another CDN.
package providers

import (
	"Unpic/internal/core/cdn"
	"Unpic/internal/core/transform"
)

// Delegation is the upstream image an image server forwards to.
type Delegation struct {
	CDN cdn.ImageCDN
	URL string
}

// DelegateFunc reports the upstream CDN URL wrapped by raw, if any.
type DelegateFunc func(raw string) (Delegation, bool)

// Provider is one entry in the catalog.
type Provider struct {
	CDN      cdn.ImageCDN
	Extract  transform.ExtractFunc
	Generate transform.GenerateFunc
	// Transform defaults to transform.Compose(Extract, Generate).
	Transform transform.TransformFunc
	// Delegate is set for image servers whose source may be on another CDN.
	Delegate DelegateFunc
}
