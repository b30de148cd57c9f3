package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/crawlref/logutil"
	"github.com/jongio/crawlref/refextract"
	"github.com/jongio/crawlref/urlutil"
)

func writeProfiles(t *testing.T, dir, content string) {
	t.Helper()
	path := Path(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	profiles, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "fast", "strict"}, profiles.Names())
}

func TestLoad_MergesUserProfiles(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir, `
profiles:
  thorough:
    encoding: latin1
    relative: true
    emails: true
    emailDomain: w3af.com
    workers: 8
    rateLimit: 20
    cacheDir: cache
    cacheTTL: 90m
  strict:
    relative: true
    workers: 1
`)

	profiles, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "fast", "strict", "thorough"}, profiles.Names())

	thorough, err := profiles.Get("thorough")
	require.NoError(t, err)
	assert.Equal(t, "thorough", thorough.Name)
	assert.Equal(t, "latin1", thorough.Encoding)
	assert.Equal(t, "w3af.com", thorough.EmailDomain)
	assert.Equal(t, 8, thorough.Workers)
	assert.Equal(t, 20, thorough.RateLimit)
	assert.Equal(t, 90*time.Minute, thorough.CacheTTL)
	assert.Equal(t, filepath.Join(dir, "cache"), thorough.CacheDir)

	// A user profile replaces the built-in one of the same name.
	strict, err := profiles.Get("strict")
	require.NoError(t, err)
	assert.True(t, strict.Relative)
	assert.Equal(t, 1, strict.Workers)
	assert.Empty(t, strict.UnsafeChars)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"bad yaml", "profiles: [", nil},
		{"negative workers", "profiles:\n  x:\n    workers: -1\n", ErrInvalidProfile},
		{"unknown encoding", "profiles:\n  x:\n    encoding: klingon\n", ErrInvalidProfile},
		{"negative rate", "profiles:\n  x:\n    rateLimit: -5\n", ErrInvalidProfile},
		{"bad port", "profiles:\n  x:\n    metricsPort: 70000\n", ErrInvalidProfile},
		{"bad format", "profiles:\n  x:\n    logFormat: xml\n", ErrInvalidProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeProfiles(t, dir, tt.content)
			_, err := Load(dir)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeProfiles(t, dir, "")

	profiles, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, profiles.Profiles, 3)
}

func TestGet(t *testing.T) {
	profiles := defaultProfiles()

	t.Run("explicit name", func(t *testing.T) {
		t.Setenv(EnvProfile, "fast")
		p, err := profiles.Get("strict")
		require.NoError(t, err)
		assert.Equal(t, "strict", p.Name)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvProfile, "fast")
		p, err := profiles.Get("")
		require.NoError(t, err)
		assert.Equal(t, "fast", p.Name)
		assert.Equal(t, filepath.Join(".crawlref", "cache"), p.CacheDir)
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvProfile, "")
		p, err := profiles.Get("")
		require.NoError(t, err)
		assert.Equal(t, DefaultProfile, p.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := profiles.Get("nonexistent")
		require.ErrorIs(t, err, ErrProfileNotFound)
		assert.Contains(t, err.Error(), "default, fast, strict")
	})
}

func TestDefaultProfilesValid(t *testing.T) {
	for name, p := range defaultProfiles().Profiles {
		assert.NoError(t, p.Validate(), name)
		assert.Equal(t, name, p.Name)
	}
}

func TestProfile_ExtractorOptions(t *testing.T) {
	base := urlutil.MustParse("http://w3af.com/")
	body := "/a/b.html http://w3af.com/c%20d.html me@w3af.com"

	strict := defaultProfiles().Profiles["strict"]
	refs := refextract.New(strict.ExtractorOptions()...).Extract(body, base, "")
	assert.Equal(t, []string{"http://w3af.com/c d.html"}, refs.Regex.Strings())
	assert.Equal(t, []string{"me@w3af.com"}, refs.Emails)

	fast := defaultProfiles().Profiles["fast"]
	refs = refextract.New(fast.ExtractorOptions()...).Extract(body, base, "")
	assert.Equal(t, []string{"http://w3af.com/c d.html", "http://w3af.com/a/b.html"}, refs.Regex.Strings())
	assert.Empty(t, refs.Emails)
}

func TestProfile_CacheOptions(t *testing.T) {
	_, ok := Profile{}.CacheOptions("1")
	assert.False(t, ok)

	opts, ok := Profile{CacheDir: "/tmp/c", CacheTTL: time.Minute}.CacheOptions("1")
	require.True(t, ok)
	assert.Equal(t, "/tmp/c", opts.Dir)
	assert.Equal(t, time.Minute, opts.TTL)
	assert.Equal(t, "1", opts.Version)
}

func TestProfile_Level(t *testing.T) {
	assert.Equal(t, logutil.LevelDebug, Profile{LogLevel: "debug"}.Level())
	assert.Equal(t, logutil.LevelInfo, Profile{}.Level())
}

func TestSaveSample(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, SaveSample(dir))

	data, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# crawlref extraction profiles")

	profiles, err := Load(dir)
	require.NoError(t, err)
	strict, err := profiles.Get("strict")
	require.NoError(t, err)
	assert.Equal(t, []string{"\x00", "\r", "\n"}, strict.UnsafeChars)

	assert.ErrorIs(t, SaveSample(dir), ErrProfilesExist)
}
