package operations

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// roundHalfUp rounds .5 toward positive infinity, so 200.5 becomes 201 and
// -0.5 becomes 0.
func roundHalfUp(f float64) float64 {
	r := math.Floor(f + 0.5)
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

// RoundIfNumeric rounds numbers and numeric strings to the nearest integer.
// Unset values, empty strings, booleans and non-numeric strings are returned
// unchanged. Zero rounds to zero.
func RoundIfNumeric(v Value) Value {
	switch v.kind {
	case KindNumber, KindString:
	default:
		return v
	}
	f, ok := v.Number()
	if !ok {
		return v
	}
	return Float(roundHalfUp(f))
}

// BoolToken encodes a boolean as the "1"/"0" token some providers expect.
// Non-boolean values are returned unchanged.
func BoolToken(v Value) Value {
	b, ok := v.Bool()
	if !ok {
		return v
	}
	if b {
		return String("1")
	}
	return String("0")
}

// ParseBoolToken is the inverse of BoolToken. Only "1" (or a true boolean) is
// true; an unset value stays unset.
func ParseBoolToken(v Value) Value {
	if !v.IsSet() {
		return v
	}
	if b, ok := v.Bool(); ok {
		return Bool(b)
	}
	return Bool(v.String() == "1")
}

// EscapeChar percent-encodes a single character for use inside a value that
// is delimited by that character. A space becomes "+".
func EscapeChar(r rune) string {
	if r == ' ' {
		return "+"
	}
	buf := make([]byte, utf8.RuneLen(r))
	utf8.EncodeRune(buf, r)
	var sb strings.Builder
	for _, c := range buf {
		fmt.Fprintf(&sb, "%%%02X", c)
	}
	return sb.String()
}

// escapeComponent encodes s the way form components are encoded by browsers:
// everything except ASCII alphanumerics and -_.!~*'() is percent-encoded.
func escapeComponent(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isComponentSafe(c) {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "%%%02X", c)
	}
	return sb.String()
}

func isComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// escapeSeparators encodes s as a component and then escapes any separator
// characters that component encoding leaves alone.
func escapeSeparators(s string, separators ...string) string {
	out := escapeComponent(s)
	for _, sep := range separators {
		for _, r := range sep {
			if r < utf8.RuneSelf && isComponentSafe(byte(r)) {
				out = strings.ReplaceAll(out, string(r), EscapeChar(r))
			}
		}
	}
	return out
}
