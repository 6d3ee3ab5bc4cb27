package transform

import "strconv"

// Options carries provider context that is not an image operation, such as a
// base host or an account identifier. Keys are provider-defined.
type Options map[string]string

// Get returns the option stored under key, or "".
func (o Options) Get(key string) string {
	return o[key]
}

// Bool reports whether the option under key parses as a true boolean.
func (o Options) Bool(key string) bool {
	b, err := strconv.ParseBool(o[key])
	return err == nil && b
}

// With returns a copy of o with key set to value.
func (o Options) With(key, value string) Options {
	out := o.Merge(nil)
	out[key] = value
	return out
}

// Merge returns a new Options with over applied on top of o. Empty values in
// over do not clear o.
func (o Options) Merge(over Options) Options {
	out := make(Options, len(o)+len(over))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range over {
		if v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
