package providers

import (
	"log/slog"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/detect"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
)

// Detector identifies the CDN serving a URL.
type Detector interface {
	Detect(raw string) (cdn.ImageCDN, bool)
}

// Request describes a transform of URL.
type Request struct {
	URL        string
	Operations operations.Operations
	// CDN forces a provider. Empty means detect from the URL.
	CDN cdn.ImageCDN
	// Fallback is used when CDN is empty and detection finds nothing.
	Fallback cdn.ImageCDN
	// ProviderOperations are merged over Operations for the chosen provider.
	ProviderOperations map[cdn.ImageCDN]operations.Operations
	// ProviderOptions are passed to the chosen provider.
	ProviderOptions map[cdn.ImageCDN]transform.Options
}

// ParsedURL is an extracted URL together with the provider that recognized it.
type ParsedURL struct {
	transform.ExtractedURL
	CDN cdn.ImageCDN
}

// Dispatcher routes URLs to providers. It holds no mutable state of its own
// and is safe for concurrent use when its Detector is.
type Dispatcher struct {
	detector Detector
}

// NewDispatcher creates a Dispatcher using detector, or uncached detection
// when detector is nil.
func NewDispatcher(detector Detector) *Dispatcher {
	if detector == nil {
		detector = detect.NewDetector(0)
	}
	return &Dispatcher{detector: detector}
}

var defaultDispatcher = NewDispatcher(nil)

// TransformURL transforms req.URL with the explicit, detected or fallback
// provider, in that order. It returns "" and a nil error when no provider
// applies. Errors from the provider are returned unchanged.
func (d *Dispatcher) TransformURL(req Request) (string, error) {
	c := d.resolve(req.URL, req.CDN, req.Fallback)
	if c == "" {
		slog.Debug("[IMAGE-CDN] no provider for URL",
			"url", req.URL,
		)
		return "", nil
	}
	p, err := Resolve(c)
	if err != nil {
		return "", err
	}

	ops := req.Operations.Merge(req.ProviderOperations[c])
	opts := req.ProviderOptions[c]
	if opts == nil {
		opts = transform.Options{}
	}
	return p.Transform(req.URL, ops, opts)
}

// ParseURL extracts raw with the given provider, or the detected one when c
// is empty. It returns false when no provider recognizes raw.
func (d *Dispatcher) ParseURL(raw string, c cdn.ImageCDN) (ParsedURL, bool) {
	c = d.resolve(raw, c, "")
	if c == "" {
		return ParsedURL{}, false
	}
	p, ok := Lookup(c)
	if !ok {
		return ParsedURL{}, false
	}
	extracted, ok := p.Extract(raw, nil)
	if !ok {
		return ParsedURL{}, false
	}
	return ParsedURL{ExtractedURL: extracted, CDN: c}, true
}

// CanonicalCDNForURL returns the CDN and URL that actually serve raw. When
// raw is on an image server wrapping an image on another CDN, the wrapped
// image is returned. Delegation is followed one level only. defaultCDN is
// used when detection finds nothing.
func (d *Dispatcher) CanonicalCDNForURL(raw string, defaultCDN cdn.ImageCDN) (Delegation, bool) {
	c := d.resolve(raw, "", defaultCDN)
	if c == "" {
		return Delegation{}, false
	}
	if p, ok := Lookup(c); ok && p.Delegate != nil {
		if delegated, ok := p.Delegate(raw); ok {
			return delegated, true
		}
	}
	return Delegation{CDN: c, URL: raw}, true
}

func (d *Dispatcher) resolve(raw string, explicit, fallback cdn.ImageCDN) cdn.ImageCDN {
	if explicit != "" {
		return explicit
	}
	if c, ok := d.detector.Detect(raw); ok {
		return c
	}
	return fallback
}

// TransformURL transforms a URL with uncached detection.
func TransformURL(req Request) (string, error) {
	return defaultDispatcher.TransformURL(req)
}

// ParseURL extracts a URL with uncached detection.
func ParseURL(raw string, c cdn.ImageCDN) (ParsedURL, bool) {
	return defaultDispatcher.ParseURL(raw, c)
}

// CanonicalCDNForURL resolves delegation with uncached detection.
func CanonicalCDNForURL(raw string, defaultCDN cdn.ImageCDN) (Delegation, bool) {
	return defaultDispatcher.CanonicalCDNForURL(raw, defaultCDN)
}
