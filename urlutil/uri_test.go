package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		raw  string
		want uriParts
	}{
		{"http://a/b/c/d;p?q#f", uriParts{"http", "a", "/b/c/d", "p", "q", "f"}},
		{"host:80", uriParts{"", "", "host:80", "", "", ""}},
		{"host:80/x", uriParts{"host", "", "80/x", "", "", ""}},
		{"http:80", uriParts{"http", "", "80", "", "", ""}},
		{"javascript:alert(1)", uriParts{"javascript", "", "alert(1)", "", "", ""}},
		{"mailto:a@b.com", uriParts{"mailto", "", "a@b.com", "", "", ""}},
		{"//cdn.example.com/x.js", uriParts{"", "cdn.example.com", "/x.js", "", "", ""}},
		{"/a;b/c;d?x=1;y", uriParts{"", "", "/a;b/c", "d", "x=1;y", ""}},
		{"FTP://h/x", uriParts{"ftp", "h", "/x", "", "", ""}},
		{"http://h?q", uriParts{"http", "h", "", "", "q", ""}},
		{"http://[::1]:80/", uriParts{"http", "[::1]:80", "/", "", "", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseURI(tt.raw, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseURI("http://[::1/", "")
	assert.ErrorIs(t, err, errUnbalancedBrackets)
	_, err = parseURI("http://::1]/", "")
	assert.ErrorIs(t, err, errUnbalancedBrackets)
}

func TestUriPartsString(t *testing.T) {
	assert.Equal(t, "http://h/x", uriParts{scheme: "http", netloc: "h", path: "x"}.String())
	assert.Equal(t, "http:///x", uriParts{scheme: "http", path: "/x"}.String())
	assert.Equal(t, "mailto:a@b.com", uriParts{scheme: "mailto", path: "a@b.com"}.String())
	assert.Equal(t, "/p;q?r#s", uriParts{path: "/p", params: "q", query: "r", fragment: "s"}.String())
}

// Resolution of the RFC 1808 examples against http://a/b/c/d;p?q#f.
func TestResolve(t *testing.T) {
	const base = "http://a/b/c/d;p?q#f"
	tests := map[string]string{
		"g:h":        "g:h",
		"g":          "http://a/b/c/g",
		"./g":        "http://a/b/c/g",
		"g/":         "http://a/b/c/g/",
		"/g":         "http://a/g",
		"//g":        "http://g",
		"?y":         "http://a/b/c/d;p?y",
		"g?y":        "http://a/b/c/g?y",
		"#s":         "http://a/b/c/d;p?q#s",
		"g#s":        "http://a/b/c/g#s",
		";x":         "http://a/b/c/;x",
		"g;x":        "http://a/b/c/g;x",
		"":           base,
		".":          "http://a/b/c/",
		"./":         "http://a/b/c/",
		"..":         "http://a/b/",
		"../":        "http://a/b/",
		"../g":       "http://a/b/g",
		"../..":      "http://a/",
		"../../":     "http://a/",
		"../../g":    "http://a/g",
		"../../../g": "http://a/../g",
		"/./g":       "http://a/./g",
		"g.":         "http://a/b/c/g.",
		"g/../h":     "http://a/b/c/h",
		"https://x/": "https://x/",
	}
	for ref, want := range tests {
		t.Run(ref, func(t *testing.T) {
			got, err := resolve(base, ref)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	got, err := resolve("", "g")
	require.NoError(t, err)
	assert.Equal(t, "g", got)
}
