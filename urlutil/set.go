package urlutil

// Set is an insertion-ordered set of URLs keyed by their serialized form.
// The zero value is ready to use. A Set is not safe for concurrent writes.
type Set struct {
	urls  []*URL
	index map[string]struct{}
}

// NewSet returns a set holding urls in order, duplicates dropped.
func NewSet(urls ...*URL) *Set {
	s := &Set{}
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

// Add inserts u and reports whether it was not already present.
func (s *Set) Add(u *URL) bool {
	if u == nil {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[u.Key()]; ok {
		return false
	}
	s.index[u.Key()] = struct{}{}
	s.urls = append(s.urls, u)
	return true
}

// AddAll inserts every URL of other in order.
func (s *Set) AddAll(other *Set) {
	for _, u := range other.URLs() {
		s.Add(u)
	}
}

// Has reports whether a URL equal to u is in the set.
func (s *Set) Has(u *URL) bool {
	if s == nil || u == nil {
		return false
	}
	_, ok := s.index[u.Key()]
	return ok
}

// Len returns the number of URLs in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.urls)
}

// URLs returns the URLs in insertion order.
func (s *Set) URLs() []*URL {
	if s == nil {
		return nil
	}
	out := make([]*URL, len(s.urls))
	copy(out, s.urls)
	return out
}

// Strings returns the serialized URLs in insertion order.
func (s *Set) Strings() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.urls))
	for i, u := range s.urls {
		out[i] = u.String()
	}
	return out
}
