package operations

// KeyMap aliases canonical keys to provider keys. A key mapped to Drop is a
// directive the provider has no concept of: it is removed in both directions.
type KeyMap map[string]string

// Drop marks a KeyMap entry as unsupported by the provider.
const Drop = ""

// Config describes a provider's operation encoding. Configs are built once at
// package init and never mutated afterwards.
type Config struct {
	// KeyMap aliases canonical keys to provider keys.
	KeyMap KeyMap
	// Defaults are injected on serialize when the (aliased) key is absent.
	// Keys may be canonical or provider keys.
	Defaults Params
	// FormatMap aliases canonical format tokens to provider tokens.
	FormatMap map[string]string
	// BoolKeys lists provider keys carried on the wire as "1"/"0".
	BoolKeys []string

	// KVSeparator and ParamSeparator drive the standard formatter and parser.
	// They default to "=" and "&".
	KVSeparator    string
	ParamSeparator string

	// Formatter and Parser replace the standard ones when set.
	Formatter Formatter
	Parser    Parser
}

// Normalize maps canonical params to the provider's vocabulary: format
// aliasing, dimension rounding, key aliasing, default injection and boolean
// tokens, in that order. Defaults are injected only when the key is absent;
// an explicit zero, empty string or false counts as present.
func Normalize(cfg Config, params Params) Params {
	out := params.Clone()
	if f := out.Get(KeyFormat); f.IsSet() {
		if mapped, ok := cfg.FormatMap[f.String()]; ok {
			out.Set(KeyFormat, String(mapped))
		}
	}
	out = roundDimensions(out)
	out = applyKeyMap(cfg.KeyMap, out)

	for _, d := range cfg.Defaults {
		if !d.Value.IsSet() {
			continue
		}
		resolved := d.Key
		if alias, ok := cfg.KeyMap[d.Key]; ok {
			if alias == Drop {
				continue
			}
			resolved = alias
		}
		if out.Get(resolved).IsSet() || out.Get(d.Key).IsSet() {
			continue
		}
		out.Set(resolved, d.Value)
	}

	for _, key := range cfg.BoolKeys {
		if v, ok := out.Lookup(key); ok {
			out.Set(key, BoolToken(v))
		}
	}
	return out
}

// Denormalize is the inverse of Normalize: provider keys and format tokens are
// mapped back to canonical ones, dimensions are rounded, a numeric quality
// becomes a number and boolean tokens become booleans. Defaults are never
// injected: absence means "not specified".
func Denormalize(cfg Config, params Params) Params {
	return denormalize(invertKeyMap(cfg.KeyMap), invertMap(cfg.FormatMap), cfg.BoolKeys, params)
}

func denormalize(keyMap KeyMap, formatMap map[string]string, boolKeys []string, params Params) Params {
	out := params.Clone()
	for _, key := range boolKeys {
		if v, ok := out.Lookup(key); ok {
			out.Set(key, ParseBoolToken(v))
		}
	}
	out = applyKeyMap(keyMap, out)
	if f := out.Get(KeyFormat); f.IsSet() {
		if mapped, ok := formatMap[f.String()]; ok {
			out.Set(KeyFormat, String(mapped))
		}
	}
	out = roundDimensions(out)
	if q, ok := out.Lookup(KeyQuality); ok {
		if n, numeric := q.Number(); numeric {
			out.Set(KeyQuality, Float(n))
		}
	}
	return out
}

func roundDimensions(params Params) Params {
	for _, key := range []string{KeyWidth, KeyHeight} {
		if v, ok := params.Lookup(key); ok {
			params.Set(key, RoundIfNumeric(v))
		}
	}
	return params
}

// applyKeyMap renames keys in place. When both a canonical key and its alias
// are present, the canonical value wins.
func applyKeyMap(keyMap KeyMap, params Params) Params {
	if len(keyMap) == 0 {
		return params
	}
	var out Params
	mapped := make(map[string]bool)
	for _, param := range params {
		key := param.Key
		if alias, ok := keyMap[key]; ok {
			if alias == Drop {
				continue
			}
			out.Set(alias, param.Value)
			mapped[alias] = true
			continue
		}
		if mapped[key] {
			continue
		}
		out.Set(key, param.Value)
	}
	return out
}

func invertKeyMap(keyMap KeyMap) KeyMap {
	inverted := make(KeyMap, len(keyMap))
	for canonical, alias := range keyMap {
		if alias == Drop {
			inverted[canonical] = Drop
			continue
		}
		inverted[alias] = canonical
	}
	return inverted
}

func invertMap(m map[string]string) map[string]string {
	inverted := make(map[string]string, len(m))
	for k, v := range m {
		inverted[v] = k
	}
	return inverted
}

// Codec is a matched serializer/deserializer for one provider Config.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	config         Config
	inverseKeyMap  KeyMap
	inverseFormats map[string]string
	format         Formatter
	parse          Parser
}

// NewCodec builds the codec for cfg.
func NewCodec(cfg Config) *Codec {
	kv, sep := cfg.KVSeparator, cfg.ParamSeparator
	if kv == "" {
		kv = DefaultKVSeparator
	}
	if sep == "" {
		sep = DefaultParamSeparator
	}
	format := cfg.Formatter
	if format == nil {
		format = NewFormatter(kv, sep)
	}
	parse := cfg.Parser
	if parse == nil {
		parse = NewParser(kv, sep)
	}
	return &Codec{
		config:         cfg,
		inverseKeyMap:  invertKeyMap(cfg.KeyMap),
		inverseFormats: invertMap(cfg.FormatMap),
		format:         format,
		parse:          parse,
	}
}

// Config returns the configuration the codec was built from.
func (c *Codec) Config() Config {
	return c.config
}

// Normalize applies the serialize-direction mapping without formatting.
func (c *Codec) Normalize(params Params) Params {
	return Normalize(c.config, params)
}

// Denormalize applies the deserialize-direction mapping to parsed params.
func (c *Codec) Denormalize(params Params) Params {
	return denormalize(c.inverseKeyMap, c.inverseFormats, c.config.BoolKeys, params)
}

// Format writes already-normalized params with the codec's formatter.
func (c *Codec) Format(params Params) string {
	return c.format(params)
}

// Parse reads a wire string into provider-keyed params.
func (c *Codec) Parse(s string) Params {
	return c.parse(s)
}

// Serialize normalizes and formats ops.
func (c *Codec) Serialize(ops Operations) string {
	return c.SerializeParams(ops.Params())
}

// SerializeParams normalizes and formats canonical-keyed params.
func (c *Codec) SerializeParams(params Params) string {
	return c.format(c.Normalize(params))
}

// Deserialize parses s into canonical operations.
func (c *Codec) Deserialize(s string) Operations {
	return FromParams(c.DeserializeParams(s))
}

// DeserializeParams parses s into canonical-keyed params.
func (c *Codec) DeserializeParams(s string) Params {
	return c.Denormalize(c.parse(s))
}
