package urlutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jongio/crawlref/domainutil"
	"github.com/jongio/crawlref/querystring"
	"github.com/jongio/crawlref/textenc"
)

var (
	// ErrInvalidURL is returned when a URL has no authority or cannot be split.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrInvalidDomain is returned by WithDomain for malformed host names.
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrNoExistingExtension is returned by WithExtension when the filename has no extension.
	ErrNoExistingExtension = errors.New("URL has no extension to replace")
)

var domainPattern = regexp.MustCompile(`^[a-z0-9-]+(\.[a-z0-9-]+)*$`)

// alwaysSafe are the bytes URLEncode leaves untouched besides letters,
// digits and "_.-".
const alwaysSafe = "%/:=&?~#+!$,;'@()*[]|"

// URL is an immutable six-part URL:
//
//	scheme://authority/path;params?query#fragment
//
// The query is kept raw. Every With* method returns a new URL and leaves the
// receiver untouched, so a URL can be shared between goroutines freely.
type URL struct {
	scheme    string
	authority string
	path      string
	params    string
	query     string
	fragment  string
	encoding  string

	serialized string
}

// Parse splits text into a URL. Text without a scheme or authority, such
// as "www.example.com", is read as an http authority. It fails with
// ErrInvalidURL when no authority remains.
func Parse(text, encoding string) (*URL, error) {
	p, err := parseURI(text, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidURL, text, err)
	}
	if p.scheme == "" && p.netloc == "" && p.path != "" {
		p.scheme = "http"
		p.netloc = p.path
		p.path = ""
	}
	if p.netloc == "" {
		return nil, fmt.Errorf("%w: %q has no authority", ErrInvalidURL, text)
	}
	return newURL(p, encoding), nil
}

// MustParse is like Parse but panics on error. It is meant for literals in
// tests and package-level variables.
func MustParse(text string) *URL {
	u, err := Parse(text, textenc.DefaultEncoding)
	if err != nil {
		panic(err)
	}
	return u
}

// FromParts builds a URL from its components as given. It never fails.
func FromParts(scheme, authority, path, params, query, fragment, encoding string) *URL {
	return newURL(uriParts{
		scheme:   scheme,
		netloc:   authority,
		path:     path,
		params:   params,
		query:    query,
		fragment: fragment,
	}, encoding)
}

func newURL(p uriParts, encoding string) *URL {
	if encoding == "" {
		encoding = textenc.DefaultEncoding
	}
	return &URL{
		scheme:     p.scheme,
		authority:  p.netloc,
		path:       p.path,
		params:     p.params,
		query:      p.query,
		fragment:   p.fragment,
		encoding:   encoding,
		serialized: p.String(),
	}
}

func (u *URL) parts() uriParts {
	return uriParts{
		scheme:   u.scheme,
		netloc:   u.authority,
		path:     u.path,
		params:   u.params,
		query:    u.query,
		fragment: u.fragment,
	}
}

func (u *URL) with(fn func(p *uriParts)) *URL {
	p := u.parts()
	fn(&p)
	return newURL(p, u.encoding)
}

// String returns the serialized URL.
func (u *URL) String() string {
	return u.serialized
}

// Key returns a value suitable as a map key. Equal URLs have equal keys.
func (u *URL) Key() string {
	return u.serialized
}

// Equal reports whether u and other serialize identically.
func (u *URL) Equal(other *URL) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.serialized == other.serialized
}

// Clone returns a copy of u.
func (u *URL) Clone() *URL {
	c := *u
	return &c
}

// Contains reports whether s occurs in the serialized URL.
func (u *URL) Contains(s string) bool {
	return strings.Contains(u.serialized, s)
}

// Scheme returns the lowercase scheme, e.g. "http".
func (u *URL) Scheme() string { return u.scheme }

// Protocol is an alias for Scheme.
func (u *URL) Protocol() string { return u.scheme }

// Authority returns the raw authority, including userinfo and port.
func (u *URL) Authority() string { return u.authority }

// Path returns the path without params.
func (u *URL) Path() string { return u.path }

// Params returns the ";params" segment without the semicolon.
func (u *URL) Params() string { return u.params }

// Query returns the raw query string.
func (u *URL) Query() string { return u.query }

// Fragment returns the fragment without '#'.
func (u *URL) Fragment() string { return u.fragment }

// Encoding returns the charset the URL text came from.
func (u *URL) Encoding() string { return u.encoding }

// HasQuery reports whether the URL carries a query string.
func (u *URL) HasQuery() bool { return u.query != "" }

// HasParams reports whether the URL carries path params.
func (u *URL) HasParams() bool { return u.params != "" }

// Domain returns the host without userinfo or port.
func (u *URL) Domain() string {
	_, host, _ := splitAuthority(u.authority)
	return host
}

// Port returns the explicit port, or the scheme default (443 for https, 80
// otherwise).
func (u *URL) Port() int {
	_, _, port := splitAuthority(u.authority)
	if n, err := strconv.Atoi(port); err == nil {
		return n
	}
	if strings.EqualFold(u.scheme, "https") {
		return 443
	}
	return 80
}

// RootDomain returns the registrable domain of the host.
func (u *URL) RootDomain() string {
	return domainutil.RootDomain(u.Domain())
}

// IsValidDomain reports whether the authority is a lowercase host name or
// IPv4 address with an optional numeric port.
func (u *URL) IsValidDomain() bool {
	return domainutil.IsValidDomain(u.authority)
}

// PathAndQuery returns path, ";params" and "?query".
func (u *URL) PathAndQuery() string {
	return u.parts().pathAndQuery()
}

// Filename returns the last path segment.
func (u *URL) Filename() string {
	return u.path[strings.LastIndexByte(u.path, '/')+1:]
}

// Extension returns the text after the last '.' of the filename, or "".
func (u *URL) Extension() string {
	name := u.Filename()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

// PathWithoutFile returns the path up to and including its last '/'.
func (u *URL) PathWithoutFile() string {
	return u.path[:strings.LastIndexByte(u.path, '/')+1]
}

// AllButScheme returns the authority followed by the directory part of the path.
func (u *URL) AllButScheme() string {
	return u.authority + u.PathWithoutFile()
}

// QueryValues decodes the query string. Malformed queries yield an empty set.
func (u *URL) QueryValues() *querystring.Values {
	return querystring.Decode(u.query)
}

// ParamsValues decodes the path params as if they were a query string.
func (u *URL) ParamsValues() *querystring.Values {
	return querystring.Decode(u.params)
}

// WithDomain replaces the host, keeping userinfo and any explicit port.
func (u *URL) WithDomain(domain string) (*URL, error) {
	if !domainPattern.MatchString(domain) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}
	userinfo, _, port := splitAuthority(u.authority)
	netloc := userinfo + domain
	if port != "" {
		netloc += ":" + port
	}
	return u.with(func(p *uriParts) { p.netloc = netloc }), nil
}

// WithProtocol replaces the scheme.
func (u *URL) WithProtocol(scheme string) *URL {
	return u.with(func(p *uriParts) { p.scheme = scheme })
}

// WithPath replaces the path, keeping params, query and fragment.
func (u *URL) WithPath(path string) *URL {
	return u.with(func(p *uriParts) { p.path = path })
}

// WithFilename replaces the last path segment.
func (u *URL) WithFilename(name string) *URL {
	var path string
	if u.path == "/" {
		path = "/" + name
	} else {
		path = u.PathWithoutFile() + name
	}
	return u.WithPath(path)
}

// WithExtension replaces the filename extension. It fails with
// ErrNoExistingExtension when the filename has none.
func (u *URL) WithExtension(ext string) (*URL, error) {
	if u.Extension() == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoExistingExtension, u)
	}
	name := u.Filename()
	name = name[:strings.LastIndexByte(name, '.')+1] + ext
	return u.WithFilename(name), nil
}

// WithQuery replaces the raw query string.
func (u *URL) WithQuery(query string) *URL {
	return u.with(func(p *uriParts) { p.query = query })
}

// WithQueryValues replaces the query with the encoded form of v.
func (u *URL) WithQueryValues(v *querystring.Values) *URL {
	return u.WithQuery(v.Encode())
}

// WithParams replaces the path params.
func (u *URL) WithParams(params string) *URL {
	return u.with(func(p *uriParts) { p.params = params })
}

// WithoutParams drops the path params.
func (u *URL) WithoutParams() *URL {
	return u.WithParams("")
}

// RemoveFragment drops the fragment.
func (u *URL) RemoveFragment() *URL {
	return u.with(func(p *uriParts) { p.fragment = "" })
}

// WithoutQuery returns scheme, authority and path only.
func (u *URL) WithoutQuery() *URL {
	return FromParts(u.scheme, u.authority, u.path, "", "", "", u.encoding)
}

// BaseURL returns scheme and authority only, e.g. "http://example.com".
func (u *URL) BaseURL() *URL {
	return FromParts(u.scheme, u.authority, "", "", "", "", u.encoding)
}

// DomainPath returns the URL of the directory holding the current file.
func (u *URL) DomainPath() *URL {
	dir := "/"
	if u.path != "" {
		dir = u.PathWithoutFile()
	}
	return FromParts(u.scheme, u.authority, dir, "", "", "", u.encoding)
}

// URLDecode returns u with plus and percent escapes decoded in its charset.
func (u *URL) URLDecode() (*URL, error) {
	raw := querystring.UnquotePlus(u.serialized)
	return Parse(textenc.LookupOrDefault(u.encoding).Decode([]byte(raw)), u.encoding)
}

// URLEncode percent-encodes everything before the query outside the safe
// set and re-encodes the query through the query codec. Invalid escapes in
// the query are kept as literal text and encoded, so "q=100%" becomes
// "q=100%25".
func (u *URL) URLEncode() string {
	s := u.serialized
	var qs string
	if i := strings.IndexByte(s, '?'); i >= 0 {
		v, err := querystring.DecodeStrict(u.query)
		if err != nil {
			v = querystring.DecodeLoose(u.query)
		}
		qs = "?" + v.Encode()
		s = s[:i]
	}

	b, err := textenc.LookupOrDefault(u.encoding).Encode(s)
	if err != nil {
		b = []byte(s)
	}
	return quote(b) + qs
}

func quote(b []byte) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for _, c := range b {
		if isUnreserved(c) || strings.IndexByte(alwaysSafe, c) >= 0 {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}

func isUnreserved(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '_' || c == '.' || c == '-'
}

// splitAuthority returns "user:pass@" (with the '@'), the host and the port.
// Bracketed IPv6 hosts keep their brackets; a bare IPv6 address has no port.
func splitAuthority(authority string) (userinfo, host, port string) {
	host = authority
	if i := strings.LastIndexByte(host, '@'); i >= 0 {
		userinfo, host = host[:i+1], host[i+1:]
	}

	if strings.HasPrefix(host, "[") {
		end := strings.IndexByte(host, ']')
		if end < 0 {
			return userinfo, host, ""
		}
		if rest := host[end+1:]; strings.HasPrefix(rest, ":") {
			port = rest[1:]
		}
		return userinfo, host[:end+1], port
	}

	if strings.Count(host, ":") == 1 {
		i := strings.IndexByte(host, ':')
		return userinfo, host[:i], host[i+1:]
	}
	return userinfo, host, ""
}
