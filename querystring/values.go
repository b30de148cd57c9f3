// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package querystring

import (
	"net/url"
	"slices"
	"strings"
)

// Values is an insertion-ordered multi-map of query parameter names to values.
// The zero value is not usable; create one with New or Decode.
type Values struct {
	keys []string
	vals map[string][]string
}

// New returns an empty Values.
func New() *Values {
	return &Values{vals: make(map[string][]string)}
}

// Add appends value to the list for key, registering key on first use.
func (v *Values) Add(key, value string) {
	if _, ok := v.vals[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.vals[key] = append(v.vals[key], value)
}

// Set replaces the values for key. The key keeps its original position if it
// was already present.
func (v *Values) Set(key string, values ...string) {
	if _, ok := v.vals[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.vals[key] = slices.Clone(values)
}

// Get returns the first value for key, or "" if there is none.
func (v *Values) Get(key string) string {
	if v == nil {
		return ""
	}
	if vs := v.vals[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// All returns a copy of every value stored for key.
func (v *Values) All(key string) []string {
	if v == nil {
		return nil
	}
	return slices.Clone(v.vals[key])
}

// Has reports whether key is present, even with only blank values.
func (v *Values) Has(key string) bool {
	if v == nil {
		return false
	}
	_, ok := v.vals[key]
	return ok
}

// Del removes key and its values.
func (v *Values) Del(key string) {
	if _, ok := v.vals[key]; !ok {
		return
	}
	delete(v.vals, key)
	v.keys = slices.DeleteFunc(v.keys, func(k string) bool { return k == key })
}

// Keys returns the parameter names in first-seen order.
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	return slices.Clone(v.keys)
}

// Len returns the number of distinct names.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}

// Encode renders the map as "name=value" pairs joined by "&", one pair per
// value, in key order. Names and values are form-escaped.
func (v *Values) Encode() string {
	if v == nil || len(v.keys) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range v.keys {
		ek := url.QueryEscape(k)
		for _, val := range v.vals[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(ek)
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(val))
		}
	}
	return b.String()
}

// String is Encode.
func (v *Values) String() string {
	return v.Encode()
}

// Clone returns a deep copy.
func (v *Values) Clone() *Values {
	out := New()
	if v == nil {
		return out
	}
	out.keys = slices.Clone(v.keys)
	for k, vs := range v.vals {
		out.vals[k] = slices.Clone(vs)
	}
	return out
}

// Equal reports whether both maps hold the same names in the same order with
// the same value lists.
func (v *Values) Equal(o *Values) bool {
	if v.Len() != o.Len() {
		return false
	}
	if v.Len() == 0 {
		return true
	}
	if !slices.Equal(v.keys, o.keys) {
		return false
	}
	for _, k := range v.keys {
		if !slices.Equal(v.vals[k], o.vals[k]) {
			return false
		}
	}
	return true
}
