package operations

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindUnset is the zero Value: the operation was not specified.
	KindUnset Kind = iota
	KindNumber
	KindString
	KindBool
	KindList
)

// Value is a scalar operation value: a number, a string, a boolean, or a list
// of those for repeated-key encodings. The zero Value is unset.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	list []Value
}

// Int returns a numeric Value.
func Int(n int) Value {
	return Value{kind: KindNumber, num: float64(n)}
}

// Float returns a numeric Value.
func Float(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// String returns a string Value. An empty string is still a set value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// List returns a Value holding several values emitted as repeated keys.
func List(values ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), values...)}
}

// Strings is a convenience for a List of string values.
func Strings(values ...string) Value {
	list := make([]Value, 0, len(values))
	for _, s := range values {
		list = append(list, String(s))
	}
	return Value{kind: KindList, list: list}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsSet reports whether v holds anything.
func (v Value) IsSet() bool {
	return v.kind != KindUnset
}

// String returns the wire form of v. Numbers are printed without trailing
// zeros, booleans as "true"/"false", lists comma-joined, unset as "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		parts := make([]string, 0, len(v.list))
		for _, item := range v.list {
			parts = append(parts, item.String())
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// Number returns the numeric interpretation of v. Numeric strings such as
// "200.6" convert; booleans, lists, empty and non-numeric strings do not.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int returns the rounded numeric interpretation of v.
func (v Value) Int() (int, bool) {
	f, ok := v.Number()
	if !ok {
		return 0, false
	}
	return int(roundHalfUp(f)), true
}

// Bool returns the boolean held by v. Only KindBool values report ok.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Values returns the elements of a list, a one-element slice for a scalar,
// or nil when v is unset.
func (v Value) Values() []Value {
	switch v.kind {
	case KindUnset:
		return nil
	case KindList:
		return append([]Value(nil), v.list...)
	default:
		return []Value{v}
	}
}

// Equal reports whether v and o hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
