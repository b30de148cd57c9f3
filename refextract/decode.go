package refextract

import (
	"fmt"
	"strings"

	"github.com/jongio/crawlref/querystring"
	"github.com/jongio/crawlref/textenc"
)

// DefaultUnsafeChars are re-escaped after percent-decoding so that a decoded
// URL cannot be truncated by code that treats them as terminators.
var DefaultUnsafeChars = []string{"\x00"}

// Decoder percent-decodes URLs found in documents.
type Decoder struct {
	unsafe   []string
	replacer *strings.Replacer
}

// NewDecoder returns a Decoder that re-escapes each of unsafe after decoding.
// With no arguments DefaultUnsafeChars is used.
func NewDecoder(unsafe ...string) *Decoder {
	if len(unsafe) == 0 {
		unsafe = DefaultUnsafeChars
	}
	kept := make([]string, 0, len(unsafe))
	pairs := make([]string, 0, 2*len(unsafe))
	for _, s := range unsafe {
		if s == "" {
			continue
		}
		kept = append(kept, s)
		pairs = append(pairs, s, percentEncode(s))
	}
	return &Decoder{unsafe: kept, replacer: strings.NewReplacer(pairs...)}
}

var defaultDecoder = NewDecoder()

// DecodeURL percent-decodes text as the document charset would have encoded
// it, using the default unsafe characters:
//
//	DecodeURL("http://w3af.com/ind%E9x.html", "latin1") // "http://w3af.com/indéx.html"
//
// Byte sequences that are invalid in the charset are dropped. It fails with
// textenc.ErrUnencodable when text itself cannot be represented in the
// charset.
func DecodeURL(text, encoding string) (string, error) {
	return defaultDecoder.Decode(text, encoding)
}

// Decode percent-decodes text in encoding. See DecodeURL.
func (d *Decoder) Decode(text, encoding string) (string, error) {
	codec := textenc.LookupOrDefault(encoding)

	raw, err := codec.Encode(text)
	if err != nil {
		return "", fmt.Errorf("decoding %q: %w", text, err)
	}

	unescaped := d.replacer.Replace(querystring.Unquote(string(raw)))
	return codec.Decode([]byte(unescaped)), nil
}

func percentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		b.WriteByte('%')
		b.WriteByte(hex[s[i]>>4])
		b.WriteByte(hex[s[i]&0x0f])
	}
	return b.String()
}
