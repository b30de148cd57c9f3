// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package querystring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedQuery indicates a query string that could not be decoded.
var ErrMalformedQuery = errors.New("malformed query string")

// Decode parses raw, tolerating malformed input by returning an empty map.
func Decode(raw string) *Values {
	v, _ := Parse(raw, true)
	return v
}

// DecodeStrict parses raw and reports malformed input as ErrMalformedQuery.
func DecodeStrict(raw string) (*Values, error) {
	return Parse(raw, false)
}

// DecodeLoose parses raw keeping invalid escapes such as a bare "%" as
// literal text. It never fails and never drops pairs.
func DecodeLoose(raw string) *Values {
	out := New()
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		out.Add(unquote(name, true), unquote(value, true))
	}
	return out
}

// Parse splits raw on "&" into name=value pairs, plus/percent-decoding both
// halves. Empty pairs are skipped and a pair with no "=" keeps its name with
// a blank value. When ignoreErrors is true a malformed query yields an empty
// map and a nil error.
func Parse(raw string, ignoreErrors bool) (*Values, error) {
	out := New()
	if raw == "" {
		return out, nil
	}

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")

		k, err := unescape(name, true)
		if err == nil {
			var val string
			val, err = unescape(value, true)
			if err == nil {
				out.Add(k, val)
				continue
			}
		}

		if ignoreErrors {
			return New(), nil
		}
		return nil, fmt.Errorf("%w: %q: %w", ErrMalformedQuery, raw, err)
	}

	return out, nil
}

// Encode renders v; see Values.Encode.
func Encode(v *Values) string {
	return v.Encode()
}

// Unquote percent-decodes s. Invalid escapes are kept literally, so the
// function never fails.
func Unquote(s string) string {
	return unquote(s, false)
}

// UnquotePlus is Unquote with "+" decoded as a space.
func UnquotePlus(s string) string {
	return unquote(s, true)
}

func unquote(s string, plus bool) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		case c == '+' && plus:
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// unescape is the strict counterpart of unquote.
func unescape(s string, plus bool) (string, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
			end := min(i+3, len(s))
			return "", fmt.Errorf("invalid escape %q", s[i:end])
		}
	}
	return unquote(s, plus), nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
