// Package operations holds the canonical image operations vocabulary and the
// generic codec that maps it onto provider-specific encodings.
//
// A provider describes its wire format as a Config (key aliases, defaults,
// format aliases, separators or custom formatter/parser). NewCodec turns that
// Config into a matched Serialize/Deserialize pair.
package operations

// Canonical operation keys.
const (
	KeyWidth   = "width"
	KeyHeight  = "height"
	KeyFormat  = "format"
	KeyQuality = "quality"
)

// Operations is the set of directives a caller wants applied to an image.
// The canonical fields are typed; provider-specific directives live in Extra.
type Operations struct {
	Width   Value
	Height  Value
	Format  string
	Quality Value
	Extra   Params
}

// IsCanonicalKey reports whether key names one of the canonical fields.
func IsCanonicalKey(key string) bool {
	switch key {
	case KeyWidth, KeyHeight, KeyFormat, KeyQuality:
		return true
	}
	return false
}

// Params flattens o into ordered pairs: width, height, format and quality
// first (when set), then Extra in its own order.
func (o Operations) Params() Params {
	p := make(Params, 0, 4+len(o.Extra))
	if o.Width.IsSet() {
		p = append(p, Param{Key: KeyWidth, Value: o.Width})
	}
	if o.Height.IsSet() {
		p = append(p, Param{Key: KeyHeight, Value: o.Height})
	}
	if o.Format != "" {
		p = append(p, Param{Key: KeyFormat, Value: String(o.Format)})
	}
	if o.Quality.IsSet() {
		p = append(p, Param{Key: KeyQuality, Value: o.Quality})
	}
	for _, param := range o.Extra {
		if IsCanonicalKey(param.Key) {
			continue
		}
		p = append(p, param)
	}
	return p
}

// FromParams splits p into canonical fields and extras.
func FromParams(p Params) Operations {
	var o Operations
	for _, param := range p {
		o.Set(param.Key, param.Value)
	}
	return o
}

// Get returns the value of key, canonical or extra.
func (o Operations) Get(key string) Value {
	switch key {
	case KeyWidth:
		return o.Width
	case KeyHeight:
		return o.Height
	case KeyFormat:
		if o.Format == "" {
			return Value{}
		}
		return String(o.Format)
	case KeyQuality:
		return o.Quality
	}
	return o.Extra.Get(key)
}

// Set stores v under key, routing canonical keys to their fields.
func (o *Operations) Set(key string, v Value) {
	switch key {
	case KeyWidth:
		o.Width = v
	case KeyHeight:
		o.Height = v
	case KeyFormat:
		o.Format = v.String()
	case KeyQuality:
		o.Quality = v
	default:
		o.Extra.Set(key, v)
	}
}

// Delete clears key.
func (o *Operations) Delete(key string) {
	switch key {
	case KeyWidth:
		o.Width = Value{}
	case KeyHeight:
		o.Height = Value{}
	case KeyFormat:
		o.Format = ""
	case KeyQuality:
		o.Quality = Value{}
	default:
		o.Extra.Delete(key)
	}
}

// IsZero reports whether no operation is set.
func (o Operations) IsZero() bool {
	return len(o.Params()) == 0
}

// Clone returns a deep copy of o.
func (o Operations) Clone() Operations {
	o.Extra = o.Extra.Clone()
	return o
}

// Merge returns o overlaid with over. Fields set in over win; fields left
// unset in over keep the value from o.
func (o Operations) Merge(over Operations) Operations {
	out := o.Clone()
	if over.Width.IsSet() {
		out.Width = over.Width
	}
	if over.Height.IsSet() {
		out.Height = over.Height
	}
	if over.Format != "" {
		out.Format = over.Format
	}
	if over.Quality.IsSet() {
		out.Quality = over.Quality
	}
	out.Extra = out.Extra.Merge(over.Extra)
	return out
}
