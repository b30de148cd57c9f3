package refextract

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"time"

	"github.com/jongio/crawlref/urlutil"
)

// swfHeaderLen is the size of the signature, version and length fields that
// precede the zlib stream in a compressed SWF.
const swfHeaderLen = 8

// maxSWFSize caps the inflated size of a compressed SWF.
const maxSWFSize = 64 << 20

// ExtractSWF finds URLs in a Flash movie. Compressed ("CWS") movies are
// inflated first; a movie that fails to inflate yields no references. Only
// the URL passes run, since bytecode carries no meaningful email text.
func (e *Extractor) ExtractSWF(body []byte, base *urlutil.URL, encoding string) *References {
	start := time.Now()
	refs := NewReferences(encoding)
	log := e.documentLogger(base).WithOperation("swf")

	if IsCompressedSWF(body) {
		inflated, err := inflateSWF(body)
		if err != nil {
			log.Debug("inflate failed", "error", err)
			recordDropped(PassAbsolute, err)
			recordDocument(KindSWF, time.Since(start))
			return refs
		}
		body = inflated
	}

	e.regexPass(refs, string(body), base, log)
	recordDocument(KindSWF, time.Since(start))
	return refs
}

// IsCompressedSWF reports whether body starts with the compressed SWF signature.
func IsCompressedSWF(body []byte) bool {
	return bytes.HasPrefix(body, []byte("CWS"))
}

func inflateSWF(body []byte) ([]byte, error) {
	if len(body) < swfHeaderLen {
		return nil, fmt.Errorf("inflating swf: %d byte body is shorter than the header", len(body))
	}
	zr, err := zlib.NewReader(bytes.NewReader(body[swfHeaderLen:]))
	if err != nil {
		return nil, fmt.Errorf("inflating swf: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, maxSWFSize))
	if err != nil {
		return nil, fmt.Errorf("inflating swf: %w", err)
	}
	return out, nil
}
