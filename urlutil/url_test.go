package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/crawlref/querystring"
)

func TestParse(t *testing.T) {
	u, err := Parse("http://www.google.com/foo/bar.txt", "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "/foo/bar.txt", u.Path())
	assert.Equal(t, "http", u.Scheme())
	assert.Equal(t, "bar.txt", u.Filename())
	assert.Equal(t, "txt", u.Extension())

	u, err = Parse("www.google.com", "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "www.google.com", u.Domain())
	assert.Equal(t, "http", u.Protocol())

	_, err = Parse("http://", "utf-8")
	require.ErrorIs(t, err, ErrInvalidURL)

	_, err = Parse("", "utf-8")
	require.ErrorIs(t, err, ErrInvalidURL)
}

func TestParse_Parts(t *testing.T) {
	u := MustParse("HTTPS://user:pw@host.tld:8443/a/b.php;sid=1?x=1&y=2#top")
	assert.Equal(t, "https", u.Scheme())
	assert.Equal(t, "user:pw@host.tld:8443", u.Authority())
	assert.Equal(t, "host.tld", u.Domain())
	assert.Equal(t, 8443, u.Port())
	assert.Equal(t, "/a/b.php", u.Path())
	assert.Equal(t, "sid=1", u.Params())
	assert.Equal(t, "x=1&y=2", u.Query())
	assert.Equal(t, "top", u.Fragment())
	assert.Equal(t, "/a/b.php;sid=1?x=1&y=2", u.PathAndQuery())
	assert.Equal(t, "https://user:pw@host.tld:8443/a/b.php;sid=1?x=1&y=2#top", u.String())
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		scheme, authority, path, params, query, fragment string
	}{
		{"http", "w3af.com", "/", "", "", ""},
		{"https", "w3af.com:8443", "/a/b/c.html", "", "id=1&id=2", "frag"},
		{"http", "user:pw@1.2.3.4", "/x.php", "jsessionid=9", "q=a+b", ""},
		{"http", "[::1]:8080", "/index", "", "", "s"},
		{"http", "w3af.com", "/foo%20bar/x.txt", "", "a=%26", ""},
	}
	for _, tt := range tests {
		orig := FromParts(tt.scheme, tt.authority, tt.path, tt.params, tt.query, tt.fragment, "")
		t.Run(orig.String(), func(t *testing.T) {
			parsed, err := Parse(orig.String(), "")
			require.NoError(t, err)
			assert.True(t, parsed.Equal(orig))
			assert.Equal(t, orig.Key(), parsed.Key())
			assert.Equal(t, tt.path, parsed.Path())
			assert.Equal(t, tt.params, parsed.Params())
			assert.Equal(t, tt.query, parsed.Query())
		})
	}
}

func TestFromParts(t *testing.T) {
	u := FromParts("http", "www.google.com", "/foo/bar.txt", "", "a=b", "frag", "")
	assert.Equal(t, "http://www.google.com/foo/bar.txt?a=b#frag", u.String())
	assert.Equal(t, "utf-8", u.Encoding())

	// Stored as given, even without an authority.
	u = FromParts("http", "", "", "", "", "", "latin1")
	assert.Equal(t, "http://", u.String())
	assert.Equal(t, "latin1", u.Encoding())
}

func TestStringStable(t *testing.T) {
	u := MustParse("http://www.google.com/foo%20bar/bar.txt?id=1")
	assert.Equal(t, "http://www.google.com/foo%20bar/bar.txt?id=1", u.String())
	assert.Equal(t, u.String(), u.String())
}

func TestEqualAndKey(t *testing.T) {
	a := MustParse("http://w3af.com/")
	b := MustParse("http://w3af.com/")
	c := MustParse("http://w3af.com/def.htm")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.False(t, MustParse("http://W3AF.com/").Equal(a))

	seen := map[string]struct{}{a.Key(): {}, b.Key(): {}, c.Key(): {}}
	assert.Len(t, seen, 2)
}

func TestPort(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"http://w3af.com/f00.b4r", 80},
		{"http://w3af.com:80/f00.b4r", 80},
		{"http://w3af.com:443/f00.b4r", 443},
		{"https://w3af.com/f00.b4r", 443},
		{"https://w3af.com:80/f00.b4r", 80},
		{"ftp://w3af.com/", 80},
		{"http://[::1]:8080/", 8080},
		{"http://w3af.com:/", 80},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParse(tt.url).Port())
		})
	}
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "w3af.com", MustParse("http://w3af.com/def/jkl/").Domain())
	assert.Equal(t, "1.2.3.4", MustParse("http://1.2.3.4/def/jkl/").Domain())
	assert.Equal(t, "555555", MustParse("http://555555/def/jkl/").Domain())
	assert.Equal(t, "host", MustParse("http://u:p@host:81/").Domain())
	assert.Equal(t, "[::1]", MustParse("http://[::1]:81/").Domain())
}

func TestRootDomain(t *testing.T) {
	tests := map[string]string{
		"http://1.2.3.4":                      "1.2.3.4",
		"https://aaa.com:80":                  "aaa.com",
		"http://www.aaa.com":                  "aaa.com",
		"http://foo.bar.spam.eggs.aaa.com":    "aaa.com",
		"http://foo.bar.spam.eggs.aaa.com.ar": "aaa.com.ar",
		"http://foo.aaa.edu.sz":               "aaa.edu.sz",
	}
	for raw, want := range tests {
		assert.Equal(t, want, MustParse(raw).RootDomain(), raw)
	}
}

func TestIsValidDomain(t *testing.T) {
	assert.True(t, MustParse("http://1.2.3.4").IsValidDomain())
	assert.True(t, MustParse("http://aa-bb").IsValidDomain())
	assert.True(t, MustParse("http://w3af.com:3932").IsValidDomain())
	assert.True(t, MustParse("http://f.o.o.b.a.r.s.p.a.m.e.g.g.s").IsValidDomain())
	assert.False(t, MustParse("http://aaa.").IsValidDomain())
	assert.False(t, MustParse("http://aaa*a").IsValidDomain())
	assert.False(t, MustParse("http://w3af.com:").IsValidDomain())
	assert.False(t, MustParse("http://abc:3932322").IsValidDomain())
}

func TestWithDomain(t *testing.T) {
	u := MustParse("http://w3af.com/def/jkl/")

	v, err := u.WithDomain("host.tld")
	require.NoError(t, err)
	assert.Equal(t, "host.tld", v.Domain())
	assert.Equal(t, "http://host.tld/def/jkl/", v.String())
	assert.Equal(t, "w3af.com", u.Domain(), "receiver must not change")

	v, err = MustParse("http://u:p@w3af.com:443/def/").WithDomain("foobar")
	require.NoError(t, err)
	assert.Equal(t, "u:p@foobar:443", v.Authority())

	for _, bad := range []string{"foobar:443", "foo*bar", "", "Foo.com", "foobar."} {
		_, err := u.WithDomain(bad)
		assert.ErrorIs(t, err, ErrInvalidDomain, bad)
	}
}

func TestWithProtocolAndPath(t *testing.T) {
	u := MustParse("http://1.2.3.4/a?x=1")
	assert.Equal(t, "https://1.2.3.4/a?x=1", u.WithProtocol("https").String())
	assert.Equal(t, "http://1.2.3.4/b/c?x=1", u.WithPath("/b/c").String())
	assert.Equal(t, "http://1.2.3.4/a?x=1", u.String())
}

func TestWithFilename(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://w3af.com:443/xyz/def.html", "https://w3af.com:443/xyz/abc.pdf"},
		{"https://w3af.com:443/xyz/def.html?id=1", "https://w3af.com:443/xyz/abc.pdf?id=1"},
		{"https://w3af.com:443/xyz/def.html?file=/etc/passwd", "https://w3af.com:443/xyz/abc.pdf?file=/etc/passwd"},
		{"https://w3af.com/", "https://w3af.com/abc.pdf"},
		{"http://w3af.com/x/y.php;jsessionid=1?a=b", "http://w3af.com/x/abc.pdf;jsessionid=1?a=b"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := MustParse(tt.url).WithFilename("abc.pdf")
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, "abc.pdf", got.Filename())
		})
	}
}

func TestFilenameAndExtension(t *testing.T) {
	assert.Equal(t, "def.html", MustParse("https://w3af.com:443/xyz/def.html").Filename())
	assert.Equal(t, "", MustParse("https://w3af.com:443/xyz/").Filename())
	assert.Equal(t, "d", MustParse("https://w3af.com:443/xyz/d").Filename())

	assert.Equal(t, "", MustParse("https://w3af.com:443/xyz/d").Extension())
	assert.Equal(t, "html", MustParse("https://w3af.com:443/xyz/d.html").Extension())
	assert.Equal(t, "", MustParse("https://w3af.com:443/xyz/").Extension())
}

func TestWithExtension(t *testing.T) {
	_, err := MustParse("https://www.w3af.com/xyz/foo").WithExtension("xml")
	require.ErrorIs(t, err, ErrNoExistingExtension)

	u, err := MustParse("https://w3af.com:443/xyz/d.html?id=3").WithExtension("xml")
	require.NoError(t, err)
	assert.Equal(t, "xml", u.Extension())

	u, err = MustParse("https://w3af.com:443/xyz/d.html.foo?id=3").WithExtension("xml")
	require.NoError(t, err)
	assert.Equal(t, "https://w3af.com:443/xyz/d.html.xml?id=3", u.String())
}

func TestQueryAccessors(t *testing.T) {
	u := MustParse("http://www.google.com/foo/bar.txt?id=3&ff=4&id=5")
	assert.True(t, u.HasQuery())
	assert.Equal(t, []string{"3", "5"}, u.QueryValues().All("id"))
	assert.Equal(t, []string{"id", "ff"}, u.QueryValues().Keys())

	assert.False(t, MustParse("http://www.google.com/foo/bar.txt").HasQuery())
	assert.False(t, MustParse("http://www.google.com/foo/bar.txt;par=3").HasQuery())

	v := querystring.New()
	v.Add("a", "1 2")
	v.Add("b", "&")
	assert.Equal(t, "http://www.google.com/foo/bar.txt?a=1+2&b=%26", u.WithQueryValues(v).String())
	assert.Equal(t, "http://www.google.com/foo/bar.txt?raw", u.WithQuery("raw").String())
	assert.Equal(t, "http://www.google.com/foo/bar.txt", u.WithQuery("").String())
}

func TestParams(t *testing.T) {
	tests := []struct {
		url       string
		hasParams bool
		params    string
	}{
		{"http://w3af.com/", false, ""},
		{"http://w3af.com/;id=1", true, "id=1"},
		{"http://w3af.com/?id=3;id=1", false, ""},
		{"http://w3af.com/;id=1?id=3", true, "id=1"},
		{"http://w3af.com/foobar.html;id=1?id=3", true, "id=1"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			u := MustParse(tt.url)
			assert.Equal(t, tt.hasParams, u.HasParams())
			assert.Equal(t, tt.params, u.Params())
		})
	}

	u := MustParse("http://w3af.com/xyz.txt;id=1&file=2?spam=2")
	pv := u.ParamsValues()
	assert.Equal(t, "1", pv.Get("id"))
	assert.Equal(t, "2", pv.Get("file"))

	u = MustParse("http://w3af.com/xyz.txt;id=1?file=2").WithParams("file=3")
	assert.Equal(t, "/xyz.txt;file=3?file=2", u.PathAndQuery())

	assert.Equal(t, "http://w3af.com/xyz.txt?file=2", MustParse("http://w3af.com/xyz.txt;id=1?file=2").WithoutParams().String())
	assert.Equal(t, "http://w3af.com/", MustParse("http://w3af.com/;id=1&file=2").WithoutParams().String())
}

func TestDerivedURLs(t *testing.T) {
	u := MustParse("http://www.w3af.com/foo/bar.txt;p=1?id=3#foobar")
	assert.Equal(t, "http://www.w3af.com/foo/bar.txt;p=1?id=3", u.RemoveFragment().String())
	assert.Equal(t, "http://www.w3af.com/foo/bar.txt", u.WithoutQuery().String())
	assert.Equal(t, "http://www.w3af.com", u.BaseURL().String())

	assert.Equal(t, "http://w3af.com/def/jkl/", MustParse("http://w3af.com/def/jkl/").DomainPath().String())
	assert.Equal(t, "http://w3af.com/", MustParse("http://w3af.com/def.html").DomainPath().String())
	assert.Equal(t, "http://w3af.com:80/xyz/", MustParse("http://w3af.com:80/xyz/def.html").DomainPath().String())
	assert.Equal(t, "http://w3af.com/", MustParse("http://w3af.com").DomainPath().String())

	assert.Equal(t, "w3af.com:443/xyz/", MustParse("https://w3af.com:443/xyz/file.asp").AllButScheme())
	assert.Equal(t, "/xyz/", MustParse("https://w3af.com:443/xyz/file.asp").PathWithoutFile())
	assert.Equal(t, "/xyz/123/456/789/", MustParse("https://w3af.com:443/xyz/123/456/789/").PathWithoutFile())
}

func TestURLDecode(t *testing.T) {
	tests := map[string]string{
		"https://w3af.com:443/xyz/file.asp?id=1":   "https://w3af.com:443/xyz/file.asp?id=1",
		"https://w3af.com:443/xyz/file.asp?id=1%202": "https://w3af.com:443/xyz/file.asp?id=1 2",
		"https://w3af.com:443/xyz/file.asp?id=1+2":   "https://w3af.com:443/xyz/file.asp?id=1 2",
	}
	for raw, want := range tests {
		got, err := MustParse(raw).URLDecode()
		require.NoError(t, err)
		assert.Equal(t, want, got.String())
	}
}

func TestURLEncode(t *testing.T) {
	assert.Equal(t, "http://w3af.com/x.py?ec=x%2Ay%2F2%3D%3D3", MustParse("http://w3af.com/x.py?ec=x*y/2==3").URLEncode())
	assert.Equal(t, "http://w3af.com/x.py;id=1?y=3", MustParse("http://w3af.com/x.py;id=1?y=3").URLEncode())
	assert.Equal(t, "http://w3af.com", MustParse("http://w3af.com").URLEncode())
	assert.Equal(t, "http://w3af.com/a%20b/%C3%A9", MustParse("http://w3af.com/a b/é").URLEncode())

	latin, err := Parse("http://w3af.com/é", "latin1")
	require.NoError(t, err)
	assert.Equal(t, "http://w3af.com/%E9", latin.URLEncode())
}

func TestURLEncode_StrayPercentKept(t *testing.T) {
	u := MustParse("http://w3af.com/a?q=100%&b=2")
	assert.Equal(t, "http://w3af.com/a?q=100%25&b=2", u.URLEncode())
	assert.Equal(t, "http://w3af.com/a?q=50%25+off", MustParse("http://w3af.com/a?q=50%+off").URLEncode())

	// QueryValues stays tolerant: a malformed query decodes to an empty set.
	assert.Equal(t, 0, u.QueryValues().Len())
}

func TestContainsAndClone(t *testing.T) {
	u := MustParse("http://w3af.com/xyz.txt;id=1?file=2")
	assert.True(t, u.Contains("1"))
	assert.True(t, u.Contains("file=2"))
	assert.False(t, u.Contains("hello!"))

	c := u.Clone()
	assert.True(t, c.Equal(u))
	assert.NotSame(t, u, c)
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("http://") })
}
