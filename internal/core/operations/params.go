package operations

// Param is a single key/value pair.
type Param struct {
	Key   string
	Value Value
}

// Params is an ordered key/value mapping. Insertion order is kept so that
// path-segment encodings serialize deterministically.
type Params []Param

// Get returns the value stored under key, or an unset Value.
func (p Params) Get(key string) Value {
	v, _ := p.Lookup(key)
	return v
}

// Lookup returns the value stored under key and whether the key is present.
func (p Params) Lookup(key string) (Value, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether key is present, even with an unset value.
func (p Params) Has(key string) bool {
	_, ok := p.Lookup(key)
	return ok
}

// Set stores v under key. An existing key keeps its position; a new key is
// appended. The receiver never shares its backing array with the previous value.
func (p *Params) Set(key string, v Value) {
	for i := range *p {
		if (*p)[i].Key == key {
			out := p.Clone()
			out[i].Value = v
			*p = out
			return
		}
	}
	*p = append(p.Clone(), Param{Key: key, Value: v})
}

// Rename moves the value of from to the key to, keeping from's position. If
// to is already present elsewhere it is overwritten and its old slot removed.
func (p *Params) Rename(from, to string) {
	if from == to {
		return
	}
	idx := -1
	for i := range *p {
		if (*p)[i].Key == from {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	p.Delete(to)
	for i := range *p {
		if (*p)[i].Key == from {
			out := p.Clone()
			out[i].Key = to
			*p = out
			return
		}
	}
}

// Delete removes every pair stored under key.
func (p *Params) Delete(key string) {
	out := make(Params, 0, len(*p))
	for _, param := range *p {
		if param.Key != key {
			out = append(out, param)
		}
	}
	*p = out
}

// Clone returns a copy that shares no backing array with p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	return append(Params(nil), p...)
}

// Keys returns the keys in order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, param := range p {
		keys = append(keys, param.Key)
	}
	return keys
}

// Merge returns p overlaid with over: keys in over win, keys only in p keep
// their value and position. Unset values in over do not clear p.
func (p Params) Merge(over Params) Params {
	out := p.Clone()
	for _, param := range over {
		if !param.Value.IsSet() {
			continue
		}
		out.Set(param.Key, param.Value)
	}
	return out
}
