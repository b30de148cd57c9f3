package urlutil

import (
	"errors"
	"slices"
	"strings"
)

var errUnbalancedBrackets = errors.New("unbalanced IPv6 brackets in authority")

const schemeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+-."

var (
	// usesRelative lists schemes whose references resolve against a base.
	usesRelative = schemeSet("ftp", "http", "gopher", "nntp", "imap", "wais", "file",
		"https", "shttp", "mms", "prospero", "rtsp", "rtspu", "", "sftp", "svn", "svn+ssh")

	// usesNetloc lists schemes that carry a "//authority" component.
	usesNetloc = schemeSet("ftp", "http", "gopher", "nntp", "telnet", "imap", "wais",
		"file", "mms", "https", "shttp", "snews", "prospero", "rtsp", "rtspu", "rsync",
		"", "svn", "svn+ssh", "sftp", "nfs", "git", "git+ssh")

	// usesParams lists schemes whose last path segment may carry ";params".
	usesParams = schemeSet("ftp", "hdl", "prospero", "http", "imap", "https", "shttp",
		"rtsp", "rtspu", "sip", "sips", "mms", "", "sftp", "tel")
)

func schemeSet(schemes ...string) map[string]bool {
	m := make(map[string]bool, len(schemes))
	for _, s := range schemes {
		m[s] = true
	}
	return m
}

// uriParts is the six-part split of a URI reference:
// scheme://netloc/path;params?query#fragment
type uriParts struct {
	scheme   string
	netloc   string
	path     string
	params   string
	query    string
	fragment string
}

// splitURI splits raw into five parts, leaving params inside path.
// defaultScheme is used when raw carries no scheme of its own.
//
// A "name:" prefix only counts as a scheme when the text after the colon is
// empty or not all digits, so "host:80" stays a path.
func splitURI(raw, defaultScheme string) (uriParts, error) {
	p := uriParts{scheme: defaultScheme}
	rest := raw

	if i := strings.IndexByte(rest, ':'); i > 0 {
		switch {
		case rest[:i] == "http":
			p.scheme = "http"
			rest = rest[i+1:]
		case isSchemeToken(rest[:i]):
			after := rest[i+1:]
			if after == "" || strings.TrimLeft(after, "0123456789") != "" {
				p.scheme = strings.ToLower(rest[:i])
				rest = after
			}
		}
	}

	if strings.HasPrefix(rest, "//") {
		p.netloc, rest = splitNetloc(rest)
		if strings.Contains(p.netloc, "[") != strings.Contains(p.netloc, "]") {
			return uriParts{}, errUnbalancedBrackets
		}
	}

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest, p.fragment = rest[:i], rest[i+1:]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest, p.query = rest[:i], rest[i+1:]
	}
	p.path = rest
	return p, nil
}

// parseURI is splitURI plus the ";params" split for schemes that use it.
func parseURI(raw, defaultScheme string) (uriParts, error) {
	p, err := splitURI(raw, defaultScheme)
	if err != nil {
		return p, err
	}
	if usesParams[p.scheme] && strings.Contains(p.path, ";") {
		p.path, p.params = splitParams(p.path)
	}
	return p, nil
}

func isSchemeToken(s string) bool {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(schemeChars, s[i]) < 0 {
			return false
		}
	}
	return true
}

// splitNetloc splits "//netloc/rest" at the first '/', '?' or '#'.
func splitNetloc(s string) (netloc, rest string) {
	end := len(s)
	if i := strings.IndexAny(s[2:], "/?#"); i >= 0 {
		end = i + 2
	}
	return s[2:end], s[end:]
}

// splitParams separates ";params" from the last path segment.
func splitParams(path string) (string, string) {
	var i int
	if slash := strings.LastIndexByte(path, '/'); slash >= 0 {
		i = strings.IndexByte(path[slash:], ';')
		if i < 0 {
			return path, ""
		}
		i += slash
	} else {
		i = strings.IndexByte(path, ';')
	}
	return path[:i], path[i+1:]
}

// String reassembles the parts. A path is given a leading slash when an
// authority precedes it.
func (p uriParts) String() string {
	path := p.path
	if p.params != "" {
		path += ";" + p.params
	}

	var b strings.Builder
	if p.scheme != "" {
		b.WriteString(p.scheme)
		b.WriteByte(':')
	}
	if p.netloc != "" || (p.scheme != "" && usesNetloc[p.scheme] && !strings.HasPrefix(path, "//")) {
		if path != "" && path[0] != '/' {
			path = "/" + path
		}
		b.WriteString("//")
		b.WriteString(p.netloc)
	}
	b.WriteString(path)
	if p.query != "" {
		b.WriteByte('?')
		b.WriteString(p.query)
	}
	if p.fragment != "" {
		b.WriteByte('#')
		b.WriteString(p.fragment)
	}
	return b.String()
}

// pathAndQuery returns path, ";params" and "?query" joined.
func (p uriParts) pathAndQuery() string {
	s := p.path
	if p.params != "" {
		s += ";" + p.params
	}
	if p.query != "" {
		s += "?" + p.query
	}
	return s
}

// resolve joins ref against base the way browsers of the RFC 1808 era did.
// Absolute-path references are not dot-resolved, and ".." segments that
// would climb above the root are kept.
func resolve(base, ref string) (string, error) {
	if base == "" {
		return ref, nil
	}
	if ref == "" {
		return base, nil
	}

	b, err := parseURI(base, "")
	if err != nil {
		return "", err
	}
	r, err := parseURI(ref, b.scheme)
	if err != nil {
		return "", err
	}

	if r.scheme != b.scheme || !usesRelative[r.scheme] {
		return ref, nil
	}
	if usesNetloc[r.scheme] {
		if r.netloc != "" {
			return r.String(), nil
		}
		r.netloc = b.netloc
	}
	if strings.HasPrefix(r.path, "/") {
		return r.String(), nil
	}
	if r.path == "" && r.params == "" {
		r.path, r.params = b.path, b.params
		if r.query == "" {
			r.query = b.query
		}
		return r.String(), nil
	}

	baseSegs := strings.Split(b.path, "/")
	segs := append(baseSegs[:len(baseSegs)-1:len(baseSegs)-1], strings.Split(r.path, "/")...)
	if segs[len(segs)-1] == "." {
		segs[len(segs)-1] = ""
	}
	segs = slices.DeleteFunc(segs, func(s string) bool { return s == "." })

	for collapsed := true; collapsed; {
		collapsed = false
		for i := 1; i < len(segs)-1; i++ {
			if segs[i] == ".." && segs[i-1] != "" && segs[i-1] != ".." {
				segs = slices.Delete(segs, i-1, i+1)
				collapsed = true
				break
			}
		}
	}

	switch n := len(segs); {
	case n == 2 && segs[0] == "" && segs[1] == "..":
		segs[1] = ""
	case n >= 2 && segs[n-1] == "..":
		segs = append(segs[:n-2], "")
	}

	r.path = strings.Join(segs, "/")
	return r.String(), nil
}
