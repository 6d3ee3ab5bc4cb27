package transform

import "errors"

var (
	// ErrUnrecognizedURL is returned by strict transforms when the input URL
	// does not have the shape the provider requires.
	ErrUnrecognizedURL = errors.New("URL not recognized by provider")
)
