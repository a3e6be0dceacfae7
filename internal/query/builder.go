// Package query builds server-safe query parameter sets from optional filter values.
package query

import (
	"net/url"
	"strconv"
)

// FlagValue is the wire form of a boolean option that is switched on.
const FlagValue = "1"

// Builder accumulates query parameters, dropping every value that is not truthy so the
// remote service can tell "no filter" apart from an empty or zero filter.
type Builder struct {
	values url.Values
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{values: url.Values{}}
}

// String adds key when v is non-empty.
func (b *Builder) String(key, v string) *Builder {
	if v != "" {
		b.values.Set(key, v)
	}
	return b
}

// Int adds key when v is non-zero. Bounds are left to the server.
func (b *Builder) Int(key string, v int) *Builder {
	if v != 0 {
		b.values.Set(key, strconv.Itoa(v))
	}
	return b
}

// Flag adds key=1 when v is true.
func (b *Builder) Flag(key string, v bool) *Builder {
	if v {
		b.values.Set(key, FlagValue)
	}
	return b
}

// Values returns a copy of the accumulated parameters.
func (b *Builder) Values() url.Values {
	out := make(url.Values, len(b.values))
	for k, v := range b.values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
