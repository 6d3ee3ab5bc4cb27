package providers

import "errors"

var (
	// ErrUnknownProvider is returned when a provider name is not registered.
	ErrUnknownProvider = errors.New("unknown image CDN")

	// ErrMissingIdentifiers is returned when a provider needs account or asset
	// identifiers that neither the source URL nor the options supply.
	ErrMissingIdentifiers = errors.New("missing required identifiers")

	// ErrInvalidSource is returned when the source URL cannot be parsed or is
	// not addressable on the provider.
	ErrInvalidSource = errors.New("invalid source URL")

	// ErrInvalidTransforms is returned when an embedded list of transform
	// steps is not valid JSON of the expected shape.
	ErrInvalidTransforms = errors.New("invalid embedded transforms")

	// ErrInvalidPreset is returned when a preset name is not found in the preset registry.
	ErrInvalidPreset = errors.New("invalid image preset")

	// ErrInvalidDID is returned when a DID string does not match expected atproto DID format.
	ErrInvalidDID = errors.New("invalid DID format")

	// ErrInvalidCID is returned when a CID string is not a valid content identifier.
	ErrInvalidCID = errors.New("invalid CID format")
)
