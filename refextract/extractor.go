package refextract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jongio/crawlref/logutil"
	"github.com/jongio/crawlref/urlutil"
)

// Pass names used in logs and metric labels.
const (
	PassAbsolute   = "absolute"
	PassRelative   = "relative"
	PassStructural = "structural"
	PassEmail      = "email"
)

var (
	absoluteURLPattern = regexp.MustCompile(`(?:http|https)://[^ \n\r\t"'<>]*`)

	// relativeURLPattern matches "/dir/file.ext" and "//dir/file.ext?a=b&c=d"
	// style tokens. It also matches inside absolute URLs and version banners;
	// see isFalseRelative.
	relativeURLPattern = regexp.MustCompile(
		`(?::?/{1,2}[\p{L}\p{N}_%\-~.]+)+\.[\p{L}\p{N}_]{2,4}` +
			`(?:\?[\p{L}\p{N}_%]*=[\p{L}\p{N}_%]*(?:&[\p{L}\p{N}_%]*=[\p{L}\p{N}_%]*)*)?`)

	httpVersionPattern   = regexp.MustCompile(`^HTTP/\d\.\d`)
	moduleVersionPattern = regexp.MustCompile(`/\d\.\d\.\d`)
)

// Producer finds links with knowledge of the document's markup, for example
// from href and src attributes.
type Producer interface {
	References(body string, base *urlutil.URL) ([]*urlutil.URL, error)
}

// ProducerFunc adapts a function to Producer.
type ProducerFunc func(body string, base *urlutil.URL) ([]*urlutil.URL, error)

// References calls f.
func (f ProducerFunc) References(body string, base *urlutil.URL) ([]*urlutil.URL, error) {
	return f(body, base)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStructural adds a tag-aware producer whose URLs go to References.Structural.
func WithStructural(p Producer) Option {
	return func(e *Extractor) { e.structural = p }
}

// WithRelative toggles the relative path pass. It is on by default.
func WithRelative(enabled bool) Option {
	return func(e *Extractor) { e.relative = enabled }
}

// WithEmails toggles the email pass. It is on by default.
func WithEmails(enabled bool) Option {
	return func(e *Extractor) { e.emails = enabled }
}

// WithUnsafeChars sets the characters re-escaped after percent-decoding.
func WithUnsafeChars(chars ...string) Option {
	return func(e *Extractor) { e.decoder = NewDecoder(chars...) }
}

// Extractor finds references in document bodies. It holds no per-document
// state and is safe for concurrent use.
type Extractor struct {
	structural Producer
	relative   bool
	emails     bool
	decoder    *Decoder
	logger     *logutil.ComponentLogger
}

// New returns an Extractor with all regex passes enabled.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		relative: true,
		emails:   true,
		decoder:  defaultDecoder,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logutil.NewLogger("refextract")
	return e
}

// Fingerprint identifies the settings that change what Extract returns, for
// use in cache keys. A structural producer is recorded only by presence.
func (e *Extractor) Fingerprint() string {
	return fmt.Sprintf("relative=%t;emails=%t;structural=%t;unsafe=%q",
		e.relative, e.emails, e.structural != nil, e.decoder.unsafe)
}

// Extract finds references in a markup document. base is the URL the body
// was fetched from, after redirects; encoding is its declared charset and
// defaults to utf-8.
func (e *Extractor) Extract(body string, base *urlutil.URL, encoding string) *References {
	start := time.Now()
	refs := NewReferences(encoding)
	log := e.documentLogger(base)

	if e.structural != nil && base != nil {
		e.structuralPass(refs, body, base, log)
	}
	e.regexPass(refs, body, base, log)
	if e.emails {
		refs.Emails = appendEmails(refs.Emails, make(map[string]struct{}), body)
		recordFound(PassEmail, len(refs.Emails))
	}

	recordDocument(KindMarkup, time.Since(start))
	return refs
}

func (e *Extractor) documentLogger(base *urlutil.URL) *logutil.ComponentLogger {
	if base == nil {
		return e.logger
	}
	return e.logger.WithDocument(base.String())
}

func (e *Extractor) structuralPass(refs *References, body string, base *urlutil.URL, log *logutil.ComponentLogger) {
	urls, err := e.structural.References(body, base)
	if err != nil {
		log.Warn("structural producer failed", "error", err)
		recordDropped(PassStructural, err)
		return
	}
	for _, u := range urls {
		if u != nil {
			refs.Structural.Add(u)
		}
	}
	recordFound(PassStructural, refs.Structural.Len())
}

// regexPass runs the absolute and relative URL passes and normalizes
// everything they found into refs.Regex.
func (e *Extractor) regexPass(refs *References, body string, base *urlutil.URL, log *logutil.ComponentLogger) {
	found := urlutil.NewSet()
	var absFound, relFound int

	absLog := log.WithOperation(PassAbsolute)
	for _, m := range absoluteURLPattern.FindAllString(body, -1) {
		u, err := e.decodeCandidate(m, refs.Encoding)
		if err != nil {
			absLog.Debug("candidate dropped", "candidate", m, "error", err)
			recordDropped(PassAbsolute, err)
			continue
		}
		if found.Add(u) {
			absFound++
		}
	}

	if e.relative && base != nil {
		relLog := log.WithOperation(PassRelative)
		for _, m := range relativeURLPattern.FindAllString(body, -1) {
			if isFalseRelative(m) {
				recordDropped(PassRelative, errFiltered)
				continue
			}
			joined, err := base.Join(m)
			if err == nil {
				joined, err = e.decodeCandidate(joined.String(), refs.Encoding)
			}
			if err != nil {
				relLog.Debug("candidate dropped", "candidate", m, "error", err)
				recordDropped(PassRelative, err)
				continue
			}
			if found.Add(joined) {
				relFound++
			}
		}
	}

	for _, u := range found.URLs() {
		refs.Regex.Add(u.Normalize())
	}
	recordFound(PassAbsolute, absFound)
	recordFound(PassRelative, relFound)
}

var errFiltered = errors.New("filtered as false positive")

func (e *Extractor) decodeCandidate(candidate, encoding string) (*urlutil.URL, error) {
	decoded, err := e.decoder.Decode(candidate, encoding)
	if err != nil {
		return nil, err
	}
	return urlutil.Parse(decoded, encoding)
}

// isFalseRelative reports relative-pattern matches that are protocol
// relative, part of an absolute URL, or version banners such as
// "Apache/2.2.8" and "mod_python/3.3.1".
func isFalseRelative(m string) bool {
	return strings.HasPrefix(m, "//") ||
		strings.HasPrefix(m, "://") ||
		httpVersionPattern.MatchString(m) ||
		moduleVersionPattern.MatchString(m)
}

// Extract runs a default Extractor over body.
func Extract(body string, base *urlutil.URL, encoding string) *References {
	return New().Extract(body, base, encoding)
}
