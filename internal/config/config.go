package config

// Config is the workflow's process-wide string-keyed configuration map. It
// is immutable once constructed; node kinds only ever read from it.
type Config struct {
	values map[string]string
}

// New copies m into an immutable Config. A nil map yields an empty Config.
func New(m map[string]string) Config {
	values := make(map[string]string, len(m))
	for k, v := range m {
		values[k] = v
	}
	return Config{values: values}
}

// Get returns the value for key and whether it was present.
func (c Config) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Require returns the value for key, or ok=false if it is absent or empty.
// Node kinds use this for the required-config-key check described in
// spec.md §4.3 step 6.
func (c Config) Require(key string) (string, bool) {
	v, ok := c.values[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Has reports whether key is present, matching spec.md §4.3 step 6's
// "presence of required config keys" validation.
func (c Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// WithOverrides returns a new Config with overrides layered on top of c,
// taking precedence over any matching key already present. Used by
// internal/app to inject CLI-derived keys (e.g. output_dir) over the workflow's own
// `config:` section.
func (c Config) WithOverrides(overrides map[string]string) Config {
	values := make(map[string]string, len(c.values)+len(overrides))
	for k, v := range c.values {
		values[k] = v
	}
	for k, v := range overrides {
		values[k] = v
	}
	return Config{values: values}
}
