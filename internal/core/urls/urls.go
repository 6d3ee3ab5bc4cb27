// Package urls normalizes absolute and root-relative image URLs so they can be
// manipulated with net/url and rendered back in their original form.
//
// Root-relative inputs are resolved against a placeholder authority. Any URL
// still carrying that authority is rendered as path+query, so the placeholder
// never reaches a caller.
package urls

import (
	"net/url"
	"strings"

	"Unpic/internal/core/operations"
)

// PlaceholderHost is the reserved authority used for root-relative URLs. A
// single-label host never appears in a public image URL.
const PlaceholderHost = "n"

const placeholderBase = "http://" + PlaceholderHost + "/"

// Parse parses raw. Absolute URLs parse as-is; root-relative, scheme-relative
// and bare paths are resolved against the placeholder base.
func Parse(raw string) (*url.URL, error) {
	return ParseWithBase(raw, placeholderBase)
}

// ParseWithBase parses raw relative to base. An empty base means the
// placeholder base.
func ParseWithBase(raw, base string) (*url.URL, error) {
	if base == "" {
		base = placeholderBase
	}
	b, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	u := b.ResolveReference(ref)
	if u.Host != "" && u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return u, nil
}

// IsRelative reports whether u carries the placeholder authority.
func IsRelative(u *url.URL) bool {
	return u.Host == PlaceholderHost
}

// Canonical renders u: path and query for placeholder URLs, the full absolute
// form otherwise.
func Canonical(u *url.URL) string {
	if IsRelative(u) {
		s := u.EscapedPath()
		if u.RawQuery != "" {
			s += "?" + u.RawQuery
		}
		return s
	}
	return u.String()
}

// Origin returns scheme://host, or "" for placeholder URLs.
func Origin(u *url.URL) string {
	if IsRelative(u) {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// SetEscapedPath sets the path of u from an already-escaped string so that
// characters such as "(" or "," survive rendering unchanged.
func SetEscapedPath(u *url.URL, escaped string) error {
	p, err := url.PathUnescape(escaped)
	if err != nil {
		return err
	}
	u.Path = p
	u.RawPath = escaped
	return nil
}

// IsAbsolute reports whether s starts with an http or https scheme.
func IsAbsolute(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// StripLeadingSlash removes one leading "/".
func StripLeadingSlash(s string) string {
	return strings.TrimPrefix(s, "/")
}

// StripTrailingSlash removes one trailing "/".
func StripTrailingSlash(s string) string {
	return strings.TrimSuffix(s, "/")
}

// AddLeadingSlash ensures s starts with "/".
func AddLeadingSlash(s string) string {
	if strings.HasPrefix(s, "/") {
		return s
	}
	return "/" + s
}

// AddTrailingSlash ensures s ends with "/".
func AddTrailingSlash(s string) string {
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}

// JoinPaths joins segments with exactly one "/" between each pair. Leading
// slashes of the first segment and trailing slashes of the last are kept.
func JoinPaths(segments ...string) string {
	var out string
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if i == 0 || out == "" {
			out = seg
			continue
		}
		out = StripTrailingSlash(out) + "/" + StripLeadingSlash(seg)
	}
	return out
}

// QueryParams returns the query of u as ordered params.
func QueryParams(u *url.URL) operations.Params {
	return operations.ParseQuery(u.RawQuery)
}

// SetQueryParams replaces the query of u. An empty params list clears it.
func SetQueryParams(u *url.URL, params operations.Params) {
	u.RawQuery = operations.FormatQuery(params)
}
