package refextract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/crawlref/urlutil"
)

func TestExtract_RegexURLs(t *testing.T) {
	base := urlutil.MustParse("http://www.w3af.com/")

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "empty body",
			body: "",
			want: []string{},
		},
		{
			name: "full URL",
			body: "header http://www.w3af.com/foo/bar/index.html footer",
			want: []string{"http://www.w3af.com/foo/bar/index.html"},
		},
		{
			name: "relative URL",
			body: "header /foo/bar/index.html footer",
			want: []string{"http://www.w3af.com/foo/bar/index.html"},
		},
		{
			name: "relative inside href",
			body: `header <a href="/foo/bar/index.html">foo</a> footer`,
			want: []string{"http://www.w3af.com/foo/bar/index.html"},
		},
		{
			name: "bare index is not a reference",
			body: `header <a href="index">foo</a> footer`,
			want: []string{},
		},
		{
			name: "relative with query",
			body: `go to /search.php?q=abc&page=2 now`,
			want: []string{"http://www.w3af.com/search.php?q=abc&page=2"},
		},
		{
			name: "default port normalized",
			body: `<img src='http://www.w3af.com:80/a/../img.png'>`,
			want: []string{"http://www.w3af.com/a/../img.png"},
		},
		{
			name: "duplicates collapse",
			body: "http://www.w3af.com/x.html http://www.w3af.com/x.html http://www.w3af.com:80/x.html",
			want: []string{"http://www.w3af.com/x.html"},
		},
		{
			name: "version banners filtered",
			body: "Powered by lib/1.2.3.min.js and /app/main.js",
			want: []string{"http://www.w3af.com/app/main.js"},
		},
		{
			name: "protocol relative filtered",
			body: "//cdn.example.com/lib.js",
			want: []string{},
		},
		{
			name: "percent decoded",
			body: "http://www.w3af.com/a%20b.html",
			want: []string{"http://www.w3af.com/a b.html"},
		},
		{
			name: "nul re-escaped",
			body: "http://www.w3af.com/a%00b.html",
			want: []string{"http://www.w3af.com/a%00b.html"},
		},
		{
			name: "scheme only is dropped",
			body: "see http:// for details",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := New().Extract(tt.body, base, "utf-8")
			assert.Equal(t, tt.want, refs.Regex.Strings())
			assert.Equal(t, 0, refs.Structural.Len())
		})
	}
}

func TestExtract_HostExample(t *testing.T) {
	refs := Extract("header http://host/foo/bar.html footer", urlutil.MustParse("http://host/"), "")
	assert.Equal(t, []string{"http://host/foo/bar.html"}, refs.Regex.Strings())
	assert.Equal(t, "utf-8", refs.Encoding)
}

func TestExtract_Emails(t *testing.T) {
	base := urlutil.MustParse("http://www.w3af.com/")

	refs := Extract(`<a href="mailto:abc@x.com">abc@x.com</a>`, base, "utf-8")
	assert.Equal(t, []string{"abc@x.com"}, refs.Emails)

	refs = Extract("no addresses here", base, "utf-8")
	assert.NotNil(t, refs.Emails)
	assert.Empty(t, refs.Emails)
	assert.True(t, refs.Empty())
}

func TestExtract_LatinDocument(t *testing.T) {
	base := urlutil.MustParse("http://w3af.com/")
	body := "http://w3af.com/ind%E9x.html http://w3af.com/中.html http://w3af.com/ok.html"

	refs := Extract(body, base, "latin1")

	// The CJK candidate cannot be represented in latin1 and is dropped alone.
	assert.Equal(t, []string{"http://w3af.com/indéx.html", "http://w3af.com/ok.html"}, refs.Regex.Strings())
	for _, u := range refs.Regex.URLs() {
		assert.Equal(t, "latin1", u.Encoding())
	}
}

func TestExtract_Options(t *testing.T) {
	base := urlutil.MustParse("http://w3af.com/")
	body := "/a/b.html mail me at me@w3af.com"

	refs := New(WithRelative(false), WithEmails(false)).Extract(body, base, "utf-8")
	assert.Empty(t, refs.Regex.Strings())
	assert.Empty(t, refs.Emails)

	refs = New().Extract(body, base, "utf-8")
	assert.Equal(t, []string{"http://w3af.com/a/b.html"}, refs.Regex.Strings())
	assert.Equal(t, []string{"me@w3af.com"}, refs.Emails)

	refs = New(WithUnsafeChars("\x00", " ")).Extract("http://w3af.com/a%20b.html", base, "utf-8")
	assert.Equal(t, []string{"http://w3af.com/a%20b.html"}, refs.Regex.Strings())
}

func TestExtract_Structural(t *testing.T) {
	base := urlutil.MustParse("http://w3af.com/")
	producer := ProducerFunc(func(body string, b *urlutil.URL) ([]*urlutil.URL, error) {
		u, err := b.Join("tag.html")
		return []*urlutil.URL{u, nil}, err
	})

	refs := New(WithStructural(producer)).Extract("http://w3af.com/re.html", base, "")
	assert.Equal(t, []string{"http://w3af.com/tag.html"}, refs.Structural.Strings())
	assert.Equal(t, []string{"http://w3af.com/re.html"}, refs.Regex.Strings())
	assert.Equal(t, []string{"http://w3af.com/tag.html", "http://w3af.com/re.html"}, refs.URLs().Strings())

	failing := ProducerFunc(func(string, *urlutil.URL) ([]*urlutil.URL, error) {
		return nil, errors.New("tag soup")
	})
	refs = New(WithStructural(failing)).Extract("http://w3af.com/re.html", base, "")
	assert.Equal(t, 0, refs.Structural.Len())
	assert.Equal(t, 1, refs.Regex.Len())
}

func TestExtract_NilBase(t *testing.T) {
	refs := Extract("http://w3af.com/a.html /rel/b.html", nil, "")
	assert.Equal(t, []string{"http://w3af.com/a.html"}, refs.Regex.Strings())
}

func TestIsFalseRelative(t *testing.T) {
	assert.True(t, isFalseRelative("//host/x.js"))
	assert.True(t, isFalseRelative("://host/x.js"))
	assert.True(t, isFalseRelative("HTTP/1.1.html"))
	assert.True(t, isFalseRelative("/mod_python/3.3.1.so"))
	assert.False(t, isFalseRelative("/foo/bar.html"))
	assert.False(t, isFalseRelative("/v1.2/x.json"))
}

func TestEmailsFor(t *testing.T) {
	refs := NewReferences("")
	refs.Emails = []string{"a@w3af.com", "foo@not-w3af.com"}

	assert.Equal(t, []string{"a@w3af.com", "foo@not-w3af.com"}, refs.EmailsFor(""))
	assert.Equal(t, []string{"a@w3af.com"}, refs.EmailsFor("w3af.com"))
	assert.Equal(t, []string{"foo@not-w3af.com"}, refs.EmailsFor("not-w3af.com"))
	assert.Empty(t, refs.EmailsFor("example.com"))
}

func TestReferencesJSON(t *testing.T) {
	refs := Extract("http://w3af.com/a.html contact a@w3af.com", urlutil.MustParse("http://w3af.com/"), "latin1")

	data, err := json.Marshal(refs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"structural":[],"regex":["http://w3af.com/a.html"],"emails":["a@w3af.com"],"encoding":"latin1"}`, string(data))

	var back References
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, refs.Regex.Strings(), back.Regex.Strings())
	assert.Equal(t, refs.Emails, back.Emails)
	assert.Equal(t, "latin1", back.Encoding)

	require.Error(t, json.Unmarshal([]byte(`{"regex":["http://"]}`), &back))
}

func TestExtractor_Fingerprint(t *testing.T) {
	def := New().Fingerprint()
	assert.Equal(t, def, New().Fingerprint())
	assert.Equal(t, def, New(WithUnsafeChars("\x00")).Fingerprint())

	for name, e := range map[string]*Extractor{
		"no relative": New(WithRelative(false)),
		"no emails":   New(WithEmails(false)),
		"unsafe":      New(WithUnsafeChars("\x00", " ")),
		"structural": New(WithStructural(ProducerFunc(func(string, *urlutil.URL) ([]*urlutil.URL, error) {
			return nil, nil
		}))),
	} {
		assert.NotEqual(t, def, e.Fingerprint(), name)
	}
}
