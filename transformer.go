package unpic

import (
	"io"
	"log/slog"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/detect"
	"Unpic/internal/core/htmlrewrite"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/providers"
	"Unpic/internal/core/transform"
)

// Service defines the interface for rewriting image CDN URLs.
type Service interface {
	// TransformURL re-targets an image URL with new operations. It returns ""
	// when no provider applies.
	TransformURL(req Request) (string, error)
	// ParseURL extracts the source image and operations from a CDN URL.
	ParseURL(raw string, c ImageCDN) (ParsedURL, bool)
	// CanonicalCDNForURL reports the CDN and URL that actually serve an image.
	CanonicalCDNForURL(raw string, defaultCDN ImageCDN) (Delegation, bool)
}

// Transformer implements Service, applying the defaults of a Config to every
// request. It is safe for concurrent use.
type Transformer struct {
	dispatcher *providers.Dispatcher
	config     Config
}

// NewTransformer creates a Transformer for cfg.
// Returns an error if the configuration is invalid.
func NewTransformer(cfg Config) (*Transformer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Transformer{
		dispatcher: providers.NewDispatcher(detect.NewDetector(cfg.DetectionCacheSize)),
		config:     cfg,
	}, nil
}

// Config returns the configuration the Transformer was built with.
func (t *Transformer) Config() Config {
	return t.config
}

// TransformURL applies the configured fallback, default quality and provider
// options, then transforms req. Values set on req or already present in its
// URL take precedence.
func (t *Transformer) TransformURL(req Request) (string, error) {
	if req.Fallback == "" {
		req.Fallback = t.config.Fallback
	}
	if t.config.DefaultQuality > 0 && !req.Operations.Quality.IsSet() && !t.hasQuality(req) {
		req.Operations.Quality = operations.Int(t.config.DefaultQuality)
	}
	req.ProviderOptions = t.providerOptions(req.URL, req.ProviderOptions)

	out, err := t.dispatcher.TransformURL(req)
	if err != nil {
		slog.Debug("[IMAGE-CDN] transform failed",
			"url", req.URL,
			"cdn", req.CDN,
			"error", err,
		)
		return "", err
	}
	return out, nil
}

// hasQuality reports whether the URL of req already carries a quality.
func (t *Transformer) hasQuality(req Request) bool {
	parsed, ok := t.dispatcher.ParseURL(req.URL, req.CDN)
	return ok && parsed.Operations.Quality.IsSet()
}

// ParseURL extracts raw with the given or detected provider.
func (t *Transformer) ParseURL(raw string, c ImageCDN) (ParsedURL, bool) {
	return t.dispatcher.ParseURL(raw, c)
}

// CanonicalCDNForURL resolves delegation for raw. The configured fallback is
// used when defaultCDN is empty.
func (t *Transformer) CanonicalCDNForURL(raw string, defaultCDN ImageCDN) (Delegation, bool) {
	if defaultCDN == "" {
		defaultCDN = t.config.Fallback
	}
	return t.dispatcher.CanonicalCDNForURL(raw, defaultCDN)
}

// RewriteResult reports how many image URLs RewriteHTML replaced and skipped.
type RewriteResult = htmlrewrite.Result

// RewriteHTML transforms every img src and srcset candidate in the HTML
// document read from r and writes the document to w. req supplies the
// operations and provider settings; its URL is ignored.
func (t *Transformer) RewriteHTML(r io.Reader, w io.Writer, req Request) (RewriteResult, error) {
	result, err := htmlrewrite.Rewrite(r, w, t, req)
	if err != nil {
		return result, err
	}
	slog.Debug("[IMAGE-CDN] rewrote HTML",
		"rewritten", result.Rewritten,
		"skipped", result.Skipped,
	)
	return result, nil
}

// providerOptions layers the request's options over the configured ones. A
// configured option is skipped for a provider that already recognizes raw, so
// an existing URL keeps its own account and host. The request's map is not
// modified.
func (t *Transformer) providerOptions(raw string, requested map[cdn.ImageCDN]transform.Options) map[cdn.ImageCDN]transform.Options {
	configured := map[cdn.ImageCDN]transform.Options{
		cdn.IPX:        {providers.OptionBaseURL: t.config.IPXBaseURL},
		cdn.Cloudinary: {providers.OptionCloudName: t.config.CloudinaryCloudName},
		cdn.Cloudflare: {providers.OptionDomain: t.config.CloudflareDomain},
		cdn.Cloudimage: {providers.OptionToken: t.config.CloudimageToken},
	}

	out := make(map[cdn.ImageCDN]transform.Options, len(configured)+len(requested))
	for c, opts := range configured {
		if p, ok := providers.Lookup(c); ok {
			if _, recognized := p.Extract(raw, nil); recognized {
				continue
			}
		}
		out[c] = transform.Options{}.Merge(opts)
	}
	for c, opts := range requested {
		out[c] = out[c].Merge(opts)
	}
	return out
}

var _ Service = (*Transformer)(nil)
