package providers

import (
	"strings"

	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/ipfs/go-cid"
)

// ValidateDID validates that a DID string matches expected atproto DID formats.
// It uses the Indigo library's syntax.ParseDID for consistent validation.
// Returns ErrInvalidDID if the DID is invalid.
func ValidateDID(did string) error {
	if hasPathTraversal(did) {
		return ErrInvalidDID
	}
	if _, err := syntax.ParseDID(did); err != nil {
		return ErrInvalidDID
	}
	return nil
}

// ValidateCID validates that a CID string is a valid content identifier.
// syntax.ParseCID checks the shape and go-cid decodes the multihash.
// Returns ErrInvalidCID if the CID is invalid.
func ValidateCID(s string) error {
	if hasPathTraversal(s) {
		return ErrInvalidCID
	}
	if _, err := syntax.ParseCID(s); err != nil {
		return ErrInvalidCID
	}
	if _, err := cid.Decode(s); err != nil {
		return ErrInvalidCID
	}
	return nil
}

// ValidatePreset validates that a preset name is safe and exists.
func ValidatePreset(preset string) error {
	if preset == "" || strings.ContainsAny(preset, "/\\") || strings.Contains(preset, "..") {
		return ErrInvalidPreset
	}
	_, err := GetPreset(preset)
	return err
}

// hasPathTraversal reports whether s could escape its path segment.
func hasPathTraversal(s string) bool {
	return strings.Contains(s, "..") || strings.ContainsAny(s, "/\\\x00")
}
