package mapping

import (
	"fmt"

	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

// Entry is one target -> source assignment.
type Entry struct {
	Target string
	// Source is the sample key feeding Target. Empty when unresolved.
	Source   string
	Resolved bool
}

// Config maps target property names to source keys, in insertion order.
// An unresolved target is encoded as JSON null.
type Config struct {
	entries []Entry
	index   map[string]int
}

// NewConfig returns an empty mapping.
func NewConfig() *Config {
	return &Config{index: make(map[string]int)}
}

// Set assigns source to target.
func (c *Config) Set(target, source string) {
	c.put(Entry{Target: target, Source: source, Resolved: true})
}

// SetUnresolved records target without a source.
func (c *Config) SetUnresolved(target string) {
	c.put(Entry{Target: target})
}

func (c *Config) put(e Entry) {
	if i, ok := c.index[e.Target]; ok {
		c.entries[i] = e
		return
	}

	c.index[e.Target] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Lookup returns the source for target, whether it is resolved, and whether
// target is part of the mapping at all.
func (c *Config) Lookup(target string) (source string, resolved, ok bool) {
	if c == nil {
		return "", false, false
	}

	i, ok := c.index[target]
	if !ok {
		return "", false, false
	}

	e := c.entries[i]

	return e.Source, e.Resolved, true
}

// Targets returns the target names in order.
func (c *Config) Targets() []string {
	if c == nil {
		return []string{}
	}

	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Target
	}

	return out
}

// Entries returns a copy of the entries in order.
func (c *Config) Entries() []Entry {
	if c == nil {
		return nil
	}

	out := make([]Entry, len(c.entries))
	copy(out, c.entries)

	return out
}

// Len returns the number of targets.
func (c *Config) Len() int {
	if c == nil {
		return 0
	}

	return len(c.entries)
}

// Value renders the mapping as an ordered object of string-or-null members.
func (c *Config) Value() payload.Value {
	obj := payload.NewObject()

	if c != nil {
		for _, e := range c.entries {
			if e.Resolved {
				obj.Set(e.Target, payload.String(e.Source))
			} else {
				obj.Set(e.Target, payload.Null())
			}
		}
	}

	return payload.ObjectOf(obj)
}

// MarshalJSON encodes the mapping as {"target": "source" | null, ...}.
func (c *Config) MarshalJSON() ([]byte, error) {
	return c.Value().MarshalJSON()
}

// MarshalYAML encodes the mapping as an ordered YAML mapping.
func (c *Config) MarshalYAML() (any, error) {
	return c.Value().MarshalYAML()
}

// UnmarshalJSON decodes {"target": "source" | null, ...}.
func (c *Config) UnmarshalJSON(data []byte) error {
	v, err := payload.Parse(data)
	if err != nil {
		return err
	}

	parsed, err := FromValue(v)
	if err != nil {
		return err
	}

	*c = *parsed

	return nil
}

// FromValue converts a decoded mapping document. Every member must be a
// string (source key) or null (unresolved).
func FromValue(v payload.Value) (*Config, error) {
	obj, ok := v.AsObject()
	if !ok {
		return nil, fmt.Errorf("mapping: expected object, got %s", v.Kind())
	}

	cfg := NewConfig()

	for _, target := range obj.Keys() {
		member, _ := obj.Get(target)

		switch member.Kind() {
		case payload.KindNull:
			cfg.SetUnresolved(target)
		case payload.KindString:
			source, _ := member.AsString()
			cfg.Set(target, source)
		default:
			return nil, fmt.Errorf("mapping: target %q: source must be a string or null, got %s",
				target, member.Kind())
		}
	}

	return cfg, nil
}
