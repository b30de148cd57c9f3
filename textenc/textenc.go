// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package textenc

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used when a document declares no charset or an unknown one.
const DefaultEncoding = "utf-8"

var (
	// ErrUnencodable is returned when text contains runes the charset cannot represent.
	ErrUnencodable = errors.New("text not representable in charset")
	// ErrUnknownEncoding is returned for charset labels with no known encoding.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// Codec encodes and decodes text in a single charset.
type Codec struct {
	name string
	enc  encoding.Encoding
}

// Lookup returns the codec for a charset label such as "UTF-8" or "latin1".
func Lookup(label string) (*Codec, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, fmt.Errorf("%w: empty label", ErrUnknownEncoding)
	}

	_, name := charset.Lookup(label)
	if name == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	if name == DefaultEncoding {
		return utf8Codec, nil
	}

	// charset.Lookup wraps encoders so they emit HTML entities for unsupported
	// runes; the raw encoding from the index reports them as errors instead.
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnknownEncoding, label, err)
	}
	return &Codec{name: name, enc: enc}, nil
}

// LookupOrDefault returns the codec for label, or the utf-8 codec when the
// label is empty or unknown.
func LookupOrDefault(label string) *Codec {
	c, err := Lookup(label)
	if err != nil {
		return utf8Codec
	}
	return c
}

var utf8Codec = &Codec{name: DefaultEncoding, enc: unicode.UTF8}

// Name returns the canonical charset name.
func (c *Codec) Name() string {
	return c.name
}

// Encoding returns the underlying x/text encoding.
func (c *Codec) Encoding() encoding.Encoding {
	return c.enc
}

// IsUTF8 reports whether the codec is utf-8.
func (c *Codec) IsUTF8() bool {
	return c.name == DefaultEncoding
}

// Encode converts s to bytes in the codec's charset.
func (c *Codec) Encode(s string) ([]byte, error) {
	if c.IsUTF8() {
		return []byte(s), nil
	}
	b, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnencodable, c.name, err)
	}
	return b, nil
}

// Decode converts b to a string, dropping byte sequences that are invalid in
// the codec's charset.
func (c *Codec) Decode(b []byte) string {
	if c.IsUTF8() {
		return strings.ToValidUTF8(string(b), "")
	}
	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "")
	}
	return strings.Map(func(r rune) rune {
		if r == utf8.RuneError {
			return -1
		}
		return r
	}, string(out))
}
