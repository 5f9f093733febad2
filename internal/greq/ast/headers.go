package ast

import "strings"

// HeaderList is a case-insensitive, order-preserving multi-map. Lookups
// lowercase the name; emission walks entries in insertion order and
// preserves each entry's original casing, matching §9's requirement that
// header duplicates survive in order.
type HeaderList struct {
	entries []headerEntry
}

type headerEntry struct {
	name  string // as written
	value string
}

// Set replaces every existing entry whose name matches case-insensitively
// with a single new entry carrying name's casing. Used by the merge engine,
// where extending headers must override "per header, not per value" (§4.6).
func (h *HeaderList) Set(name, value string) {
	lower := strings.ToLower(name)
	out := h.entries[:0:0]
	replaced := false
	for _, e := range h.entries {
		if strings.ToLower(e.name) == lower {
			if !replaced {
				out = append(out, headerEntry{name: name, value: value})
				replaced = true
			}
			continue
		}
		out = append(out, e)
	}
	if !replaced {
		out = append(out, headerEntry{name: name, value: value})
	}
	h.entries = out
}

// Add appends a new entry without removing any existing entry of the same
// name, preserving duplicates as the content parser requires.
func (h *HeaderList) Add(name, value string) {
	h.entries = append(h.entries, headerEntry{name: name, value: value})
}

// Get returns the first value for name (case-insensitive) and whether it
// was found.
func (h *HeaderList) Get(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, e := range h.entries {
		if strings.ToLower(e.name) == lower {
			return e.value, true
		}
	}
	return "", false
}

// Values returns every value for name in insertion order.
func (h *HeaderList) Values(name string) []string {
	lower := strings.ToLower(name)
	var out []string
	for _, e := range h.entries {
		if strings.ToLower(e.name) == lower {
			out = append(out, e.value)
		}
	}
	return out
}

// Has reports whether any entry matches name case-insensitively.
func (h *HeaderList) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Each calls fn for every entry in insertion order with original casing.
func (h *HeaderList) Each(fn func(name, value string)) {
	for _, e := range h.entries {
		fn(e.name, e.value)
	}
}

// Len reports the number of entries, counting duplicates.
func (h *HeaderList) Len() int { return len(h.entries) }

// Clone returns a deep copy so merge/substitution never mutate a shared
// base Test's headers in place.
func (h *HeaderList) Clone() *HeaderList {
	if h == nil {
		return &HeaderList{}
	}
	out := &HeaderList{entries: make([]headerEntry, len(h.entries))}
	copy(out.entries, h.entries)
	return out
}

// MapString renders the multi-map as a JSON-ish string for the `headers`
// footer target and the `$(dependency.headers)` placeholder, matching the
// `headers` → "serialized JSON of the multi-map" rule in §4.10.
func (h *HeaderList) MapString() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range h.entries {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(escapeJSON(e.name))
		b.WriteString(`":"`)
		b.WriteString(escapeJSON(e.value))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

func escapeJSON(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}
