package htmlrewrite

import "strings"

// Candidate is one image candidate of a srcset attribute.
type Candidate struct {
	URL string
	// Descriptor is the width ("300w") or density ("2x") descriptor, or "".
	Descriptor string
}

// ParseSrcset splits a srcset attribute into candidates. URLs may contain
// commas; a comma only separates candidates when it follows whitespace or a
// descriptor, or ends the URL.
func ParseSrcset(srcset string) []Candidate {
	var out []Candidate
	s := srcset
	for {
		s = strings.TrimLeft(s, " \t\n\r\f,")
		if s == "" {
			return out
		}

		end := strings.IndexAny(s, " \t\n\r\f")
		if end < 0 {
			end = len(s)
		}
		url := s[:end]
		s = s[end:]

		if trimmed := strings.TrimRight(url, ","); trimmed != url {
			out = append(out, Candidate{URL: trimmed})
			continue
		}

		descriptor := s
		if i := strings.IndexByte(s, ','); i >= 0 {
			descriptor = s[:i]
			s = s[i+1:]
		} else {
			s = ""
		}
		out = append(out, Candidate{URL: url, Descriptor: strings.TrimSpace(descriptor)})
	}
}

// FormatSrcset renders candidates as a srcset attribute.
func FormatSrcset(candidates []Candidate) string {
	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.Descriptor == "" {
			parts = append(parts, c.URL)
			continue
		}
		parts = append(parts, c.URL+" "+c.Descriptor)
	}
	return strings.Join(parts, ", ")
}
