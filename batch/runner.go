package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jongio/crawlref/cache"
	"github.com/jongio/crawlref/logutil"
	"github.com/jongio/crawlref/refextract"
	"github.com/jongio/crawlref/textenc"
	"github.com/jongio/crawlref/urlutil"
)

// ErrInvalidBase is recorded on a Result whose document has an unusable
// base URL.
var ErrInvalidBase = errors.New("invalid base URL")

// Document is one fetched response to extract from.
type Document struct {
	// ID identifies the document in results and logs, e.g. a file path.
	ID string
	// Base is the URL the document was fetched from. When empty the
	// relative pass is skipped.
	Base string
	Body []byte
	// Encoding is the declared charset; Options.Encoding applies when empty.
	Encoding string
	// SWF marks Flash movies, which are inflated and get only the URL passes.
	SWF bool
}

// Result is the outcome for one Document.
type Result struct {
	ID         string                 `json:"id"`
	References *refextract.References `json:"references,omitempty"`
	Cached     bool                   `json:"cached,omitempty"`
	Err        error                  `json:"-"`
}

// Options configures a Runner.
type Options struct {
	// Workers bounds parallel extractions; zero uses GOMAXPROCS.
	Workers int
	// Encoding is the fallback charset for documents that declare none.
	Encoding string
	// Extractor defaults to refextract.New().
	Extractor *refextract.Extractor
	// Cache, when set, is consulted before and filled after extraction.
	Cache *cache.Manager
	// CacheFailures is the number of consecutive cache errors after which
	// the cache is bypassed for CacheCooldown. Zero uses 5; negative never
	// bypasses.
	CacheFailures int
	// CacheCooldown defaults to 30s.
	CacheCooldown time.Duration
	// RateLimit caps documents started per second; zero is unlimited.
	RateLimit int
}

const (
	defaultCacheFailures = 5
	defaultCacheCooldown = 30 * time.Second
)

// Runner extracts references from batches of documents.
type Runner struct {
	workers   int
	encoding  string
	extractor *refextract.Extractor
	cache     *cache.Manager
	breaker   *gobreaker.CircuitBreaker
	limiter   *rate.Limiter
	logger    *logutil.ComponentLogger
}

// NewRunner returns a Runner for opts.
func NewRunner(opts Options) *Runner {
	r := &Runner{
		workers:   opts.Workers,
		encoding:  opts.Encoding,
		extractor: opts.Extractor,
		cache:     opts.Cache,
		logger:    logutil.NewLogger("batch"),
	}
	if r.workers <= 0 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	if r.encoding == "" {
		r.encoding = textenc.DefaultEncoding
	}
	if r.extractor == nil {
		r.extractor = refextract.New()
	}
	if opts.RateLimit > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateLimit*2)
	}
	if r.cache != nil {
		r.breaker = newCacheBreaker(opts.CacheFailures, opts.CacheCooldown, r.logger)
	}
	return r
}

func newCacheBreaker(failures int, cooldown time.Duration, log *logutil.ComponentLogger) *gobreaker.CircuitBreaker {
	if failures == 0 {
		failures = defaultCacheFailures
	}
	if cooldown <= 0 {
		cooldown = defaultCacheCooldown
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cache",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return failures > 0 && counts.ConsecutiveFailures >= uint32(failures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("cache breaker state changed", "from", from.String(), "to", to.String())
			recordBreakerState(to)
		},
	})
}

// Run extracts every document and returns the results in input order.
// When ctx is cancelled, documents not yet started carry the error and Run
// returns it.
func (r *Runner) Run(ctx context.Context, docs []Document) ([]Result, error) {
	results := make([]Result, len(docs))
	for i, doc := range docs {
		results[i].ID = doc.ID
	}

	var g errgroup.Group
	g.SetLimit(r.workers)

	var stopErr error
	for i, doc := range docs {
		if stopErr = r.wait(ctx); stopErr != nil {
			for j := i; j < len(docs); j++ {
				results[j].Err = stopErr
			}
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i] = r.runOne(doc)
			return nil
		})
	}
	_ = g.Wait()

	if stopErr != nil {
		return results, stopErr
	}
	return results, ctx.Err()
}

func (r *Runner) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx)
}

func (r *Runner) runOne(doc Document) Result {
	log := r.logger.WithFields("document", doc.ID)
	res := Result{ID: doc.ID}

	encoding := doc.Encoding
	if encoding == "" {
		encoding = r.encoding
	}

	var base *urlutil.URL
	if doc.Base != "" {
		var err error
		base, err = urlutil.ParseBase(doc.Base, encoding)
		if err != nil {
			res.Err = fmt.Errorf("%w: %w", ErrInvalidBase, err)
			log.Warn("skipping document", "error", res.Err)
			recordOutcome(outcomeFailed)
			return res
		}
	}

	key := r.cacheKey(doc, encoding)
	if cached := r.cacheGet(key, log); cached != nil {
		res.References = cached
		res.Cached = true
		recordOutcome(outcomeCached)
		return res
	}

	if doc.SWF {
		res.References = r.extractor.ExtractSWF(doc.Body, base, encoding)
	} else {
		res.References = r.extractor.Extract(string(doc.Body), base, encoding)
	}
	recordOutcome(outcomeExtracted)

	r.cacheSet(key, res.References, log)
	return res
}

func (r *Runner) cacheGet(key string, log *logutil.ComponentLogger) *refextract.References {
	if r.cache == nil {
		return nil
	}
	out, err := r.breaker.Execute(func() (interface{}, error) {
		var cached refextract.References
		ok, err := r.cache.Get(key, &cached)
		if err != nil || !ok {
			return nil, err
		}
		return &cached, nil
	})
	if err != nil {
		logCacheError(log, "cache read failed", err)
		return nil
	}
	refs, _ := out.(*refextract.References)
	return refs
}

func (r *Runner) cacheSet(key string, refs *refextract.References, log *logutil.ComponentLogger) {
	if r.cache == nil {
		return
	}
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.cache.Set(key, refs)
	})
	if err != nil {
		logCacheError(log, "cache write failed", err)
	}
}

func logCacheError(log *logutil.ComponentLogger, msg string, err error) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		log.Debug("cache bypassed", "error", err)
		return
	}
	log.Warn(msg, "error", err)
}

func (r *Runner) cacheKey(doc Document, encoding string) string {
	key := cache.DocumentKey(doc.Base, encoding, r.extractor.Fingerprint(), doc.Body)
	if doc.SWF {
		return refextract.KindSWF + "-" + key
	}
	return key
}
