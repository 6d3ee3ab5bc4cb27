package unpic

import (
	"fmt"
	"log/slog"
	"reflect"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/detect"

	"github.com/caarlos0/env/v11"
)

// Config holds the defaults a Transformer applies to every request.
type Config struct {
	// Fallback is the CDN used when a URL is not recognized and the request
	// names none. Empty means unrecognized URLs are left alone.
	Fallback cdn.ImageCDN `env:"IMAGE_CDN_FALLBACK"`

	// DefaultQuality is applied when a request does not set a quality.
	// Zero means the provider's own default.
	DefaultQuality int `env:"IMAGE_CDN_DEFAULT_QUALITY"`

	// IPXBaseURL is where IPX is mounted (e.g., "https://example.com/_ipx").
	// Empty string generates root-relative "/_ipx" URLs.
	IPXBaseURL string `env:"IMAGE_CDN_IPX_BASE_URL"`

	// CloudinaryCloudName is used to fetch images that are not on Cloudinary.
	CloudinaryCloudName string `env:"IMAGE_CDN_CLOUDINARY_CLOUD_NAME"`

	// CloudflareDomain is the zone serving /cdn-cgi/image.
	CloudflareDomain string `env:"IMAGE_CDN_CLOUDFLARE_DOMAIN"`

	// CloudimageToken is the Cloudimage customer token.
	CloudimageToken string `env:"IMAGE_CDN_CLOUDIMAGE_TOKEN"`

	// DetectionCacheSize bounds the hostname detection cache. Zero disables it.
	DetectionCacheSize int `env:"IMAGE_CDN_DETECTION_CACHE_SIZE"`
}

// NewConfig creates a new Config with the provided values and validates it.
// Use DefaultConfig() or ConfigFromEnv() for convenient config creation with sensible defaults.
func NewConfig(
	fallback cdn.ImageCDN,
	defaultQuality int,
	ipxBaseURL string,
	cloudinaryCloudName string,
	cloudflareDomain string,
	cloudimageToken string,
	detectionCacheSize int,
) (Config, error) {
	cfg := Config{
		Fallback:            fallback,
		DefaultQuality:      defaultQuality,
		IPXBaseURL:          ipxBaseURL,
		CloudinaryCloudName: cloudinaryCloudName,
		CloudflareDomain:    cloudflareDomain,
		CloudimageToken:     cloudimageToken,
		DetectionCacheSize:  detectionCacheSize,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
// Returns nil if the configuration is valid, or an error describing the problem.
func (c Config) Validate() error {
	if c.Fallback != "" && !c.Fallback.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidFallback, c.Fallback)
	}
	if c.DefaultQuality < 0 || c.DefaultQuality > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidDefaultQuality, c.DefaultQuality)
	}
	if c.DetectionCacheSize < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCacheSize, c.DetectionCacheSize)
	}
	return nil
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		DetectionCacheSize: detect.DefaultCacheSize,
	}
}

// envParsers decodes the typed fields env.ParseWithOptions cannot handle on
// its own.
var envParsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(cdn.ImageCDN("")): func(v string) (interface{}, error) {
		c, ok := cdn.Parse(v)
		if !ok {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidFallback, v)
		}
		return c, nil
	},
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing or invalid environment variables.
//
// Environment variables:
//   - IMAGE_CDN_FALLBACK: CDN for unrecognized URLs, e.g. "ipx" (default: none)
//   - IMAGE_CDN_DEFAULT_QUALITY: quality 1-100 applied when unset (default: provider default)
//   - IMAGE_CDN_IPX_BASE_URL: IPX mount point (default: "/_ipx")
//   - IMAGE_CDN_CLOUDINARY_CLOUD_NAME: Cloudinary cloud for fetch URLs (default: "")
//   - IMAGE_CDN_CLOUDFLARE_DOMAIN: Cloudflare zone hostname (default: "")
//   - IMAGE_CDN_CLOUDIMAGE_TOKEN: Cloudimage customer token (default: "")
//   - IMAGE_CDN_DETECTION_CACHE_SIZE: hostnames to remember, 0 to disable (default: 1000)
func ConfigFromEnv() Config {
	defaults := DefaultConfig()
	cfg := defaults

	// Fields that fail to parse keep their defaults; env reports them together.
	if err := env.ParseWithOptions(&cfg, env.Options{FuncMap: envParsers}); err != nil {
		slog.Warn("[IMAGE-CDN] invalid environment values, using defaults for them",
			"error", err,
		)
	}

	if cfg.DefaultQuality < 0 || cfg.DefaultQuality > 100 {
		slog.Warn("[IMAGE-CDN] invalid IMAGE_CDN_DEFAULT_QUALITY value, using default",
			"value", cfg.DefaultQuality,
			"default", defaults.DefaultQuality,
		)
		cfg.DefaultQuality = defaults.DefaultQuality
	}

	if cfg.DetectionCacheSize < 0 {
		slog.Warn("[IMAGE-CDN] invalid IMAGE_CDN_DETECTION_CACHE_SIZE value, using default",
			"value", cfg.DetectionCacheSize,
			"default", defaults.DetectionCacheSize,
		)
		cfg.DetectionCacheSize = defaults.DetectionCacheSize
	}

	return cfg
}
