// Package urlutil provides the URL value used throughout crawling: parsing,
// joining, normalization and directory walking.
//
// A URL is immutable. Methods named With* return a modified copy:
//
//	u, err := urlutil.Parse("http://w3af.com:80/def/jkl/", "utf-8")
//	if err != nil {
//		return err
//	}
//	u = u.Normalize()                 // http://w3af.com/def/jkl/
//	page, err := u.Join("abc.html")   // http://w3af.com/def/jkl/abc.html
//	pdf := page.WithFilename("a.pdf") // http://w3af.com/def/jkl/a.pdf
//
// # Resolution rules
//
// Joining follows the browser behaviour crawled sites are written against
// rather than strict RFC 3986:
//   - A text such as "www.example.com" with no scheme is an http authority
//   - "host:80" is a host and port, not a scheme
//   - ";params" on the last path segment are kept apart from the path
//   - Absolute-path references are not dot-resolved by Join itself, but
//     Normalize strips leading "../" segments and default ports
//
// Validate and ParseBase check that a base URL is usable for crawling
// (http or https with an authority, at most MaxURLLength characters).
//
// Set collects URLs in discovery order without duplicates.
package urlutil
