// Package detect identifies which image CDN, if any, serves a URL. Lookups
// use three static tables: request paths that identify an image endpoint on
// any host, exact hostnames, and parent domains.
package detect

import (
	"log/slog"
	"net/url"
	"strings"

	"Unpic/internal/core/cdn"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/publicsuffix"
)

// DefaultCacheSize bounds the number of hostnames a Detector remembers.
const DefaultCacheSize = 1000

type hostResult struct {
	cdn cdn.ImageCDN
	ok  bool
}

// Detector resolves URLs to CDNs, remembering hostname lookups in a bounded
// LRU cache. It is safe for concurrent use.
type Detector struct {
	hosts *lru.Cache[string, hostResult]
}

// NewDetector creates a Detector caching up to size hostnames. A size below
// one disables caching.
func NewDetector(size int) *Detector {
	if size < 1 {
		return &Detector{}
	}
	cache, err := lru.New[string, hostResult](size)
	if err != nil {
		slog.Warn("[IMAGE-CDN] failed to create detection cache, lookups will not be cached",
			"size", size,
			"error", err,
		)
		return &Detector{}
	}
	return &Detector{hosts: cache}
}

// Detect returns the CDN serving raw. Root-relative URLs are matched on path
// only. It returns false when nothing matches or raw does not parse.
func (d *Detector) Detect(raw string) (cdn.ImageCDN, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if c, ok := ByPath(u.Path); ok {
		return c, true
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	if d.hosts != nil {
		if cached, ok := d.hosts.Get(host); ok {
			return cached.cdn, cached.ok
		}
	}
	c, ok := ByHost(host)
	if d.hosts != nil {
		d.hosts.Add(host, hostResult{cdn: c, ok: ok})
	}
	return c, ok
}

var defaultDetector = NewDetector(0)

// Detect returns the CDN serving raw without caching.
func Detect(raw string) (cdn.ImageCDN, bool) {
	return defaultDetector.Detect(raw)
}

// ByPath matches an unescaped URL path against the image endpoint table.
func ByPath(path string) (cdn.ImageCDN, bool) {
	for _, rule := range paths {
		if strings.HasSuffix(rule.prefix, "/") {
			if strings.HasPrefix(path, rule.prefix) {
				return rule.cdn, true
			}
			continue
		}
		if path == rule.prefix {
			return rule.cdn, true
		}
	}
	return "", false
}

// ByHost matches a lowercase hostname against the exact table, then walks up
// its parent domains in the subdomain table. The walk stops before an ICANN
// public suffix such as "com" or "co.uk"; private suffixes such as
// "netlify.app" can match.
func ByHost(host string) (cdn.ImageCDN, bool) {
	host = strings.TrimSuffix(host, ".")
	if c, ok := domains[host]; ok {
		return c, true
	}
	for candidate := host; candidate != ""; candidate = parent(candidate) {
		if suffix, icann := publicsuffix.PublicSuffix(candidate); icann && suffix == candidate {
			break
		}
		if c, ok := subdomains[candidate]; ok {
			return c, true
		}
	}
	return "", false
}

func parent(host string) string {
	_, rest, ok := strings.Cut(host, ".")
	if !ok {
		return ""
	}
	return rest
}
