package mapping

import (
	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

// Apply builds the target-shaped object for raw according to cfg.
//
// For every target in cfg order the member is raw[source], unchanged. When
// the target is unresolved or raw has no such key the member is the absent
// marker. A raw null is kept as null; it is a value, not an absence.
//
// Apply never mutates raw or cfg.
func Apply(raw *payload.Object, cfg *Config) *payload.Object {
	out := payload.NewObject()

	for _, e := range cfg.Entries() {
		if !e.Resolved {
			out.Set(e.Target, payload.Absent())
			continue
		}

		v, ok := raw.Get(e.Source)
		if !ok {
			out.Set(e.Target, payload.Absent())
			continue
		}

		out.Set(e.Target, v)
	}

	return out
}

// Absent returns the members of obj holding the absent marker, in order.
func Absent(obj *payload.Object) []string {
	out := []string{}

	for _, k := range obj.Keys() {
		if v, _ := obj.Get(k); v.IsAbsent() {
			out = append(out, k)
		}
	}

	return out
}
