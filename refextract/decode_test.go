package refextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/crawlref/textenc"
)

func TestDecodeURL(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		encoding string
		want     string
	}{
		{"nothing to decode", "http://www.w3af.com/index.html", "latin1", "http://www.w3af.com/index.html"},
		{"latin1 byte", "http://www.w3af.com/ind%E9x.html", "latin1", "http://www.w3af.com/indéx.html"},
		{"nul kept escaped", "http://w3af.com/search.php?a=%00x&b=2%20c=3%D1", "latin1", "http://w3af.com/search.php?a=%00x&b=2 c=3Ñ"},
		{"invalid utf-8 dropped", "http://w3af.com/blah.jsp?p=SQU-300&bgc=%FFAAAA", "utf-8", "http://w3af.com/blah.jsp?p=SQU-300&bgc=AAAA"},
		{"utf-8 sequence", "http://w3af.com/ind%c3%a9x.html", "utf-8", "http://w3af.com/indéx.html"},
		{"malformed escape kept", "http://w3af.com/100%zz", "utf-8", "http://w3af.com/100%zz"},
		{"plus untouched", "http://w3af.com/?q=a+b", "utf-8", "http://w3af.com/?q=a+b"},
		{"unknown charset falls back", "http://w3af.com/%C3%A9", "x-unknown", "http://w3af.com/é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeURL(tt.in, tt.encoding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeURL_Unencodable(t *testing.T) {
	_, err := DecodeURL("http://w3af.com/中", "latin1")
	require.ErrorIs(t, err, textenc.ErrUnencodable)
}

func TestNewDecoder(t *testing.T) {
	d := NewDecoder("\x00", " ", "")
	got, err := d.Decode("http://w3af.com/a%20b%00c%41", "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "http://w3af.com/a%20b%00cA", got)
}
