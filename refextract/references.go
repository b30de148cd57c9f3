package refextract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jongio/crawlref/textenc"
	"github.com/jongio/crawlref/urlutil"
)

// References is everything found in one document.
type References struct {
	// Structural holds URLs reported by a tag-aware Producer.
	Structural *urlutil.Set
	// Regex holds URLs found by pattern matching.
	Regex *urlutil.Set
	// Emails holds unique addresses in the order they were first seen.
	Emails []string
	// Encoding is the charset the document was decoded with.
	Encoding string
}

// NewReferences returns an empty result for a document in encoding.
func NewReferences(encoding string) *References {
	if encoding == "" {
		encoding = textenc.DefaultEncoding
	}
	return &References{
		Structural: urlutil.NewSet(),
		Regex:      urlutil.NewSet(),
		Emails:     []string{},
		Encoding:   encoding,
	}
}

// URLs returns structural URLs followed by regex URLs, without duplicates.
func (r *References) URLs() *urlutil.Set {
	all := urlutil.NewSet()
	all.AddAll(r.Structural)
	all.AddAll(r.Regex)
	return all
}

// EmailsFor returns the addresses whose domain is exactly domain.
// An empty domain returns every address.
func (r *References) EmailsFor(domain string) []string {
	if domain == "" {
		return append([]string{}, r.Emails...)
	}
	out := []string{}
	for _, e := range r.Emails {
		if _, d, ok := strings.Cut(e, "@"); ok && d == domain {
			out = append(out, e)
		}
	}
	return out
}

// Empty reports whether nothing was found.
func (r *References) Empty() bool {
	return r.Structural.Len() == 0 && r.Regex.Len() == 0 && len(r.Emails) == 0
}

type referencesJSON struct {
	Structural []string `json:"structural"`
	Regex      []string `json:"regex"`
	Emails     []string `json:"emails"`
	Encoding   string   `json:"encoding"`
}

// MarshalJSON encodes URLs as their serialized strings.
func (r *References) MarshalJSON() ([]byte, error) {
	return json.Marshal(referencesJSON{
		Structural: r.Structural.Strings(),
		Regex:      r.Regex.Strings(),
		Emails:     r.EmailsFor(""),
		Encoding:   r.Encoding,
	})
}

// UnmarshalJSON restores References written by MarshalJSON.
func (r *References) UnmarshalJSON(data []byte) error {
	var raw referencesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := NewReferences(raw.Encoding)
	for _, pair := range []struct {
		src []string
		dst *urlutil.Set
	}{{raw.Structural, out.Structural}, {raw.Regex, out.Regex}} {
		for _, s := range pair.src {
			u, err := urlutil.Parse(s, out.Encoding)
			if err != nil {
				return fmt.Errorf("decoding references: %w", err)
			}
			pair.dst.Add(u)
		}
	}
	out.Emails = append(out.Emails, raw.Emails...)

	*r = *out
	return nil
}
