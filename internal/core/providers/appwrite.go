package providers

import (
	"regexp"

	"Unpic/internal/core/cdn"
	"Unpic/internal/core/operations"
	"Unpic/internal/core/transform"
	"Unpic/internal/core/urls"
)

var appwritePath = regexp.MustCompile(`^(/v1/storage/buckets/[^/]+/files/[^/]+)/(view|preview|download)$`)

var appwriteCodec = operations.NewCodec(operations.Config{
	KeyMap: operations.KeyMap{operations.KeyFormat: "output"},
})

// Appwrite serves originals from .../view and transformed images from
// .../preview. The project parameter identifies the asset and is kept on the
// source.
func newAppwrite() Provider {
	p := queryProvider{codec: appwriteCodec, keep: []string{"project"}}
	return Provider{
		CDN: cdn.Appwrite,
		Extract: func(raw string, opts transform.Options) (transform.ExtractedURL, bool) {
			extracted, ok := p.extract(raw, opts)
			if !ok {
				return extracted, false
			}
			src, ok := appwriteFilePath(extracted.Src, "view")
			if !ok {
				return transform.ExtractedURL{}, false
			}
			extracted.Src = src
			return extracted, true
		},
		Generate: func(src string, ops operations.Operations, opts transform.Options) (string, error) {
			if preview, ok := appwriteFilePath(src, "preview"); ok {
				src = preview
			}
			return p.generate(src, ops, opts)
		},
	}
}

// appwriteFilePath rewrites the endpoint of a file URL to action.
func appwriteFilePath(raw, action string) (string, bool) {
	u, err := urls.Parse(raw)
	if err != nil {
		return "", false
	}
	m := appwritePath.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}
	u.Path = m[1] + "/" + action
	u.RawPath = ""
	return urls.Canonical(u), true
}
