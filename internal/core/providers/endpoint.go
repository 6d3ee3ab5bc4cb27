package providers

import (
	"strings"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/detect"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

// OptionBaseURL is the origin (or origin plus prefix) an image server is
// mounted on. Empty means root-relative URLs.
const OptionBaseURL = "baseURL"

// endpoint is an image server that takes the source image as a query
// parameter on a fixed path, such as a framework's built-in optimizer.
type endpoint struct {
	cdn   cdn.ImageCDN
	path  string
	param string
	// hosts pins the endpoint to hosted services; empty means any origin.
	hosts []string
	codec *operations.Codec
}

func (e endpoint) provider() Provider {
	return Provider{
		CDN:      e.cdn,
		Extract:  e.extract,
		Generate: e.generate,
		Delegate: e.delegate,
	}
}

func (e endpoint) extract(raw string, _ transform.Options) (transform.ExtractedURL, bool) {
	u, err := urls.Parse(raw)
	if err != nil {
		return transform.ExtractedURL{}, false
	}
	if len(e.hosts) > 0 && !e.servedBy(u.Hostname()) {
		return transform.ExtractedURL{}, false
	}
	if strings.TrimSuffix(u.Path, "/") != strings.TrimSuffix(e.path, "/") {
		return transform.ExtractedURL{}, false
	}
	params := urls.QueryParams(u)
	src := params.Get(e.param).String()
	if src == "" {
		return transform.ExtractedURL{}, false
	}
	params.Delete(e.param)

	var opts transform.Options
	if len(e.hosts) == 0 {
		if origin := urls.Origin(u); origin != "" {
			opts = transform.Options{OptionBaseURL: origin}
		}
	}
	return transform.ExtractedURL{
		Src:        src,
		Operations: operations.FromParams(e.codec.Denormalize(params)),
		Options:    opts,
	}, true
}

func (e endpoint) generate(src string, ops operations.Operations, opts transform.Options) (string, error) {
	base := opts.Get(OptionBaseURL)
	if len(e.hosts) > 0 {
		base = "https://" + e.hosts[0]
	}
	query := operations.FormatQuery(operations.Params{{Key: e.param, Value: operations.String(src)}})
	if q := e.codec.Serialize(ops); q != "" {
		query += "&" + q
	}
	return urls.StripTrailingSlash(base) + e.path + "?" + query, nil
}

func (e endpoint) delegate(raw string) (Delegation, bool) {
	extracted, ok := e.extract(raw, nil)
	if !ok {
		return Delegation{}, false
	}
	return delegateTo(extracted.Src)
}

func (e endpoint) servedBy(host string) bool {
	host = strings.ToLower(host)
	for _, h := range e.hosts {
		if host == h {
			return true
		}
	}
	return false
}

// delegateTo reports the CDN serving an upstream source, if it is on one.
func delegateTo(src string) (Delegation, bool) {
	c, ok := detect.Detect(src)
	if !ok {
		return Delegation{}, false
	}
	return Delegation{CDN: c, URL: src}, true
}
