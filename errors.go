package unpic

import (
	"errors"

	"Unpic/internal/core/providers"
	"Unpic/internal/core/transform"
)

// Config validation errors
var (
	// ErrInvalidFallback is returned when Fallback names no supported CDN
	ErrInvalidFallback = errors.New("Fallback must name a supported image CDN")
	// ErrInvalidDefaultQuality is returned when DefaultQuality is outside 0-100
	ErrInvalidDefaultQuality = errors.New("DefaultQuality must be between 0 and 100")
	// ErrInvalidCacheSize is returned when DetectionCacheSize is negative
	ErrInvalidCacheSize = errors.New("DetectionCacheSize cannot be negative")
)

// Errors returned by transforms.
var (
	ErrUnknownProvider    = providers.ErrUnknownProvider
	ErrMissingIdentifiers = providers.ErrMissingIdentifiers
	ErrInvalidSource      = providers.ErrInvalidSource
	ErrInvalidPreset      = providers.ErrInvalidPreset
	ErrUnrecognizedURL    = transform.ErrUnrecognizedURL
)
