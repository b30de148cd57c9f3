package urlutil

import (
	"fmt"
	"strings"
)

// maxDirectoryDepth bounds Directories for paths whose parent never
// shortens, such as "/a//../".
const maxDirectoryDepth = 256

// Normalize returns u with default ports stripped and leading "../"
// segments removed, the way browsers request such links:
//
//	http://host.tld:80/foo/bar     -> http://host.tld/foo/bar
//	http://w3af.com/../../f00.b4r  -> http://w3af.com/f00.b4r
//
// Only leading ".." segments are removed; interior ones are left to
// reference resolution. The fragment is dropped.
func Normalize(u *URL) *URL {
	base := u.scheme + "://" + normalizeAuthority(u.scheme, u.authority) + "/"

	p, err := resolveParts(base, u.PathAndQuery())
	if err != nil {
		return u.RemoveFragment()
	}

	path := p.pathAndQuery()
	for {
		if strings.HasPrefix(path, "../") {
			path = path[2:]
		} else if strings.HasPrefix(path, "/../") {
			path = path[3:]
		} else {
			break
		}
	}

	p, err = resolveParts(base, path)
	if err != nil {
		return u.RemoveFragment()
	}
	p.fragment = ""
	return newURL(p, u.encoding)
}

// Normalize is shorthand for Normalize(u).
func (u *URL) Normalize() *URL {
	return Normalize(u)
}

func resolveParts(base, ref string) (uriParts, error) {
	joined, err := resolve(base, ref)
	if err != nil {
		return uriParts{}, err
	}
	return parseURI(joined, "")
}

// normalizeAuthority drops a port that equals the scheme default. A
// non-numeric port counts as the default.
func normalizeAuthority(scheme, authority string) string {
	colon := strings.LastIndexByte(authority, ':')
	if colon <= strings.LastIndexByte(authority, '@') || colon < strings.LastIndexByte(authority, ']') {
		return authority
	}

	host, port := authority[:colon], authority[colon+1:]
	if !isDigits(port) {
		port = "80"
		if scheme == "https" {
			port = "443"
		}
	}
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		return host
	}
	return host + ":" + port
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Join resolves ref against u and normalizes the result. References with
// their own scheme or authority ignore u.
func (u *URL) Join(ref string) (*URL, error) {
	joined, err := resolve(u.serialized, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: joining %q to %s: %w", ErrInvalidURL, ref, u, err)
	}
	j, err := Parse(joined, u.encoding)
	if err != nil {
		return nil, err
	}
	return Normalize(j), nil
}

// Directories returns the directory of u followed by each parent directory
// up to the root:
//
//	http://w3af.com/xyz/def/a.html -> http://w3af.com/xyz/def/, http://w3af.com/xyz/, http://w3af.com/
func (u *URL) Directories() []*URL {
	dirs := []*URL{u.DomainPath()}

	current := u
	for i := 0; i < maxDirectoryDepth && strings.Count(current.path, "/") != 1; i++ {
		parent, err := current.Join("../")
		if err != nil || strings.Count(parent.path, "/") >= strings.Count(current.path, "/") {
			break
		}
		dirs = append(dirs, parent)
		current = parent
	}
	return dirs
}
