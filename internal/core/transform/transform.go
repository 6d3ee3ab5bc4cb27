// Package transform composes a provider's extract and generate functions into
// a transform: parse the existing URL, overlay new operations and options, and
// generate again.
package transform

import (
	"fmt"
	"log/slog"

	"Unpic/internal/core/operations"
)

// ExtractedURL is the state recovered from a provider URL. Generating Src
// with Operations and Options reproduces the original URL.
type ExtractedURL struct {
	// Src is the source image with every operation-specific part removed.
	Src        string
	Operations operations.Operations
	Options    Options
}

// ExtractFunc parses raw into its source and operations. It returns false
// when raw is not a URL the provider recognizes.
type ExtractFunc func(raw string, opts Options) (ExtractedURL, bool)

// GenerateFunc builds a provider URL for src. It returns an error only when
// the request is structurally invalid, such as missing account identifiers.
type GenerateFunc func(src string, ops operations.Operations, opts Options) (string, error)

// TransformFunc re-targets a URL with new operations and options.
type TransformFunc func(raw string, ops operations.Operations, opts Options) (string, error)

// Compose derives a transform from extract and generate. A URL the provider
// does not recognize is treated as an opaque source with no operations.
func Compose(extract ExtractFunc, generate GenerateFunc) TransformFunc {
	return func(raw string, ops operations.Operations, opts Options) (string, error) {
		extracted, ok := extract(raw, opts)
		if !ok {
			slog.Debug("[IMAGE-CDN] URL not recognized, using it as source",
				"url", raw,
			)
			extracted = ExtractedURL{Src: raw}
		}
		return apply(extracted, ops, opts, generate)
	}
}

// ComposeStrict is Compose for providers whose URLs cannot be built without
// identifiers found in a recognized URL. Unrecognized input is an error
// wrapping ErrUnrecognizedURL.
func ComposeStrict(extract ExtractFunc, generate GenerateFunc) TransformFunc {
	return func(raw string, ops operations.Operations, opts Options) (string, error) {
		extracted, ok := extract(raw, opts)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrUnrecognizedURL, raw)
		}
		return apply(extracted, ops, opts, generate)
	}
}

// Merge overlays ops and opts on an extracted URL, right-biased.
func Merge(extracted ExtractedURL, ops operations.Operations, opts Options) (operations.Operations, Options) {
	return extracted.Operations.Merge(ops), extracted.Options.Merge(opts)
}

func apply(extracted ExtractedURL, ops operations.Operations, opts Options, generate GenerateFunc) (string, error) {
	mergedOps, mergedOpts := Merge(extracted, ops, opts)
	return generate(extracted.Src, mergedOps, mergedOpts)
}
