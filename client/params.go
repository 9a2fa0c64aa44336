package client

import (
	"maps"
	"slices"
)

// Params is the parameter set of one API call. Iteration order of the
// underlying map is never relied upon: signing and serialization walk Keys.
type Params map[string]Value

// Keys returns the parameter names in ascending lexicographic order.
func (p Params) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Set stores v under key and returns p for chaining.
func (p Params) Set(key string, v Value) Params {
	p[key] = v
	return p
}

// SetIf stores v under key only when ok is true.
func (p Params) SetIf(ok bool, key string, v Value) Params {
	if ok {
		p[key] = v
	}
	return p
}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	return maps.Clone(p)
}

// Binary returns the keys of binary values in ascending order.
func (p Params) Binary() []string {
	var keys []string
	for _, k := range p.Keys() {
		if p[k].IsBinary() {
			keys = append(keys, k)
		}
	}
	return keys
}
