package http

import "strings"

// Headers maps header names to their values. Names are stored exactly as they
// were received or set, so the map itself is case-sensitive.
type Headers map[string]string

// Get returns the value stored under exactly the same key.
func (h Headers) Get(key string) (string, bool) {
	value, ok := h[key]
	return value, ok
}

// Lookup searches for the key case-insensitively. The first match in the map
// iteration order wins, so it's unspecified which one is returned if the same
// name is present in different cases.
func (h Headers) Lookup(key string) (string, bool) {
	if value, ok := h[key]; ok {
		return value, ok
	}

	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}

	return "", false
}

// Clone returns a copy of the headers, so the original can't be affected by
// modifications. Nil headers produce an empty, non-nil map.
func (h Headers) Clone() Headers {
	clone := make(Headers, len(h)+1)
	for k, v := range h {
		clone[k] = v
	}

	return clone
}
