package urlutil

import (
	"fmt"
	"strings"
)

const (
	// MaxURLLength is the RFC 2616 practical limit for URL length
	MaxURLLength = 2048
)

// Validate checks that rawURL is usable as a crawl base:
//   - Is not empty or only whitespace
//   - Does not exceed MaxURLLength (2048 characters)
//   - Has an authority
//   - Uses http:// or https://
func Validate(rawURL string) error {
	_, err := ParseBase(rawURL, "")
	return err
}

// ParseBase trims and validates rawURL, then parses it. Base URLs for
// extraction come through here so that bare hosts such as "example.com"
// resolve to "http://example.com".
func ParseBase(rawURL, encoding string) (*URL, error) {
	rawURL = strings.TrimSpace(rawURL)

	if rawURL == "" {
		return nil, fmt.Errorf("%w: url cannot be empty", ErrInvalidURL)
	}

	if len(rawURL) > MaxURLLength {
		return nil, fmt.Errorf("%w: url exceeds maximum length of %d characters", ErrInvalidURL, MaxURLLength)
	}

	u, err := Parse(rawURL, encoding)
	if err != nil {
		return nil, err
	}

	if u.scheme != "http" && u.scheme != "https" {
		return nil, fmt.Errorf("%w: url must use http:// or https://, got: %s", ErrInvalidURL, u.scheme)
	}

	return u, nil
}

// NormalizeScheme ensures the URL has an http:// or https:// prefix,
// prepending defaultScheme otherwise.
//
//	urlutil.NormalizeScheme("example.com", "https") // "https://example.com"
func NormalizeScheme(rawURL, defaultScheme string) string {
	rawURL = strings.TrimSpace(rawURL)

	p, err := splitURI(rawURL, "")
	if err == nil && (p.scheme == "http" || p.scheme == "https") {
		return rawURL
	}

	return defaultScheme + "://" + rawURL
}
