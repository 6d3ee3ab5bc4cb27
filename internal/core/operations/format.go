package operations

import (
	"net/url"
	"strings"
)

// Default separators, matching query-string conventions.
const (
	DefaultKVSeparator    = "="
	DefaultParamSeparator = "&"
)

// Formatter turns provider-keyed params into their wire string.
type Formatter func(Params) string

// Parser turns a wire string into provider-keyed params.
type Parser func(string) Params

// NewFormatter returns the standard formatter for the given separators. Unset
// values are dropped, list values become one pair per element, and separator
// characters inside keys or values are escaped. Order is preserved. The "="
// and "&" pair writes spaces as "+", the way query strings encode them.
func NewFormatter(kvSeparator, paramSeparator string) Formatter {
	escape := func(s string) string {
		return escapeSeparators(s, kvSeparator, paramSeparator)
	}
	if kvSeparator == DefaultKVSeparator && paramSeparator == DefaultParamSeparator {
		// A literal "%" is already "%25" here, so "%20" can only be a space.
		escape = func(s string) string {
			return strings.ReplaceAll(escapeSeparators(s, kvSeparator, paramSeparator), "%20", "+")
		}
	}
	return func(params Params) string {
		pairs := make([]string, 0, len(params))
		for _, param := range params {
			for _, v := range param.Value.Values() {
				if !v.IsSet() {
					continue
				}
				pairs = append(pairs, escape(param.Key)+kvSeparator+escape(v.String()))
			}
		}
		return strings.Join(pairs, paramSeparator)
	}
}

// NewParser returns the standard parser for the given separators. The "=" and
// "&" pair parses query strings (a full URL or a bare query); any other pair
// splits on the separators and unescapes each side.
func NewParser(kvSeparator, paramSeparator string) Parser {
	if kvSeparator == DefaultKVSeparator && paramSeparator == DefaultParamSeparator {
		return func(s string) Params {
			return ParseQuery(queryPart(s))
		}
	}
	return func(s string) Params {
		var params Params
		for _, pair := range strings.Split(s, paramSeparator) {
			if pair == "" {
				continue
			}
			key, value, _ := strings.Cut(pair, kvSeparator)
			params.Set(unescape(key), String(unescape(value)))
		}
		return params
	}
}

// ParseQuery parses a raw query string into ordered params. A key repeated in
// the query keeps its first position and its last value.
func ParseQuery(rawQuery string) Params {
	var params Params
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key)
		if key == "" {
			continue
		}
		params.Set(key, String(unescape(value)))
	}
	return params
}

// FormatQuery encodes params as a query string with the standard formatter.
func FormatQuery(params Params) string {
	return standardFormatter(params)
}

var standardFormatter = NewFormatter(DefaultKVSeparator, DefaultParamSeparator)

// queryPart extracts the query of a URL-ish string. Strings that look like a
// URL or path without a "?" have no query; anything else is a bare query.
func queryPart(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[i+1:]
	}
	if strings.HasPrefix(s, "/") || strings.Contains(s, "://") {
		return ""
	}
	return s
}

func unescape(s string) string {
	out, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return out
}
