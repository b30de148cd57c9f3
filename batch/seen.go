package batch

import (
	"sync"

	"github.com/jongio/crawlref/urlutil"
)

// Seen is a URL set shared by concurrent crawl workers.
type Seen struct {
	mu   sync.Mutex
	urls urlutil.Set
}

// NewSeen returns an empty Seen.
func NewSeen() *Seen {
	return &Seen{}
}

// Add records u and reports whether it was new.
func (s *Seen) Add(u *urlutil.URL) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.urls.Add(u)
}

// Filter records urls and returns those not seen before, in order.
func (s *Seen) Filter(urls []*urlutil.URL) []*urlutil.URL {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make([]*urlutil.URL, 0, len(urls))
	for _, u := range urls {
		if s.urls.Add(u) {
			fresh = append(fresh, u)
		}
	}
	return fresh
}

// Has reports whether u was recorded.
func (s *Seen) Has(u *urlutil.URL) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.urls.Has(u)
}

// Len returns the number of recorded URLs.
func (s *Seen) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.urls.Len()
}

// URLs returns the recorded URLs in insertion order.
func (s *Seen) URLs() []*urlutil.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.urls.URLs()
}
