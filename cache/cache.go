// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

// ErrNoDirectory is returned by Set when the Manager has no directory.
var ErrNoDirectory = errors.New("cache directory not configured")

const (
	dirPermission  = 0o750
	filePermission = 0o600
	entryExt       = ".json"
)

// Options configures a cache Manager.
type Options struct {
	Dir     string        // Directory holding entry files
	TTL     time.Duration // Maximum entry age; zero never expires
	Version string        // Entries written under another version are misses
}

// Stats counts lookups since the Manager was created.
type Stats struct {
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
	Errors int `json:"errors"`
}

type entryMetadata struct {
	CachedAt time.Time `json:"cachedAt"`
	Version  string    `json:"version,omitempty"`
}

type envelope struct {
	Metadata entryMetadata   `json:"_cache"`
	Data     json.RawMessage `json:"data"`
}

var keySanitizer = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)

// Manager is a file-backed cache safe for concurrent use.
type Manager struct {
	dir     string
	ttl     time.Duration
	version string
	now     func() time.Time

	mu      sync.RWMutex
	statsMu sync.Mutex
	stats   Stats
}

// NewManager returns a Manager for opts. The directory is created on the
// first Set.
func NewManager(opts Options) *Manager {
	return &Manager{
		dir:     opts.Dir,
		ttl:     opts.TTL,
		version: opts.Version,
		now:     time.Now,
	}
}

// DocumentKey derives the cache key for a document. settings identifies the
// extractor configuration, such as refextract.Extractor.Fingerprint, so that
// results produced with different passes never share an entry.
func DocumentKey(base, encoding, settings string, body []byte) string {
	h := sha256.New()
	for _, field := range [][]byte{[]byte(base), []byte(encoding), []byte(settings), body} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(field)))
		h.Write(n[:])
		h.Write(field)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get decodes the entry for key into target, which must be a pointer.
// It reports false without error for missing, expired and stale entries.
func (m *Manager) Get(key string, target any) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.keyPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.record(&m.stats.Misses)
			return false, nil
		}
		m.record(&m.stats.Errors)
		return false, fmt.Errorf("reading cache entry: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		m.record(&m.stats.Errors)
		return false, fmt.Errorf("parsing cache entry: %w", err)
	}

	if m.version != "" && env.Metadata.Version != m.version {
		m.record(&m.stats.Misses)
		return false, nil
	}
	if m.ttl > 0 && m.now().Sub(env.Metadata.CachedAt) > m.ttl {
		m.record(&m.stats.Misses)
		return false, nil
	}

	if err := json.Unmarshal(env.Data, target); err != nil {
		m.record(&m.stats.Errors)
		return false, fmt.Errorf("decoding cached value: %w", err)
	}

	m.record(&m.stats.Hits)
	return true, nil
}

// Set stores value under key, replacing any previous entry atomically.
func (m *Manager) Set(key string, value any) error {
	if m.dir == "" {
		return ErrNoDirectory
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}
	env := envelope{
		Metadata: entryMetadata{CachedAt: m.now(), Version: m.version},
		Data:     raw,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.dir, dirPermission); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	return writeAtomic(m.keyPath(key), env)
}

// Invalidate removes the entry for key if there is one.
func (m *Manager) Invalidate(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.Remove(m.keyPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry file. Other files in the directory are kept.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != entryExt {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing cache entry %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Stats returns a snapshot of the lookup counters.
func (m *Manager) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

func (m *Manager) record(counter *int) {
	m.statsMu.Lock()
	*counter++
	m.statsMu.Unlock()
}

func sanitizeKey(key string) string {
	return keySanitizer.ReplaceAllString(key, "_")
}

func (m *Manager) keyPath(key string) string {
	return filepath.Join(m.dir, sanitizeKey(key)+entryExt)
}

// writeAtomic writes v as JSON to a temp file in the target directory and
// renames it into place, so readers never see a partial entry.
func writeAtomic(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = tmp.Close() }()

	if _, err := tmp.Write(data); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePermission); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming cache entry: %w", err)
	}
	return nil
}
