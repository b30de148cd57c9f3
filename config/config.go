package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jongio/crawlref/cache"
	"github.com/jongio/crawlref/logutil"
	"github.com/jongio/crawlref/refextract"
	"github.com/jongio/crawlref/textenc"
)

const (
	// EnvProfile selects the active profile when no name is given.
	EnvProfile = "CRAWLREF_PROFILE"
	// DefaultProfile is used when neither a name nor EnvProfile is set.
	DefaultProfile = "default"

	configDir   = ".crawlref"
	profileFile = "profiles.yaml"
)

var (
	// ErrProfileNotFound is returned by Get for unknown profile names.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidProfile is returned by Validate.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrProfilesExist is returned by SaveSample when the file exists.
	ErrProfilesExist = errors.New("profiles file already exists")
)

// Profile configures extraction, batching, caching and logging.
type Profile struct {
	Name string `yaml:"name" json:"name"`
	// Encoding is used for documents that declare no charset.
	Encoding string `yaml:"encoding" json:"encoding"`
	Relative bool   `yaml:"relative" json:"relative"`
	Emails   bool   `yaml:"emails" json:"emails"`
	// EmailDomain keeps only addresses at this domain when set.
	EmailDomain string   `yaml:"emailDomain,omitempty" json:"emailDomain,omitempty"`
	UnsafeChars []string `yaml:"unsafeChars,omitempty" json:"unsafeChars,omitempty"`
	Workers     int      `yaml:"workers" json:"workers"`
	// RateLimit caps documents started per second; zero is unlimited.
	RateLimit int `yaml:"rateLimit" json:"rateLimit"`
	// CacheDir enables the result cache when set. Relative paths are
	// resolved against the directory the profiles were loaded from.
	CacheDir    string        `yaml:"cacheDir,omitempty" json:"cacheDir,omitempty"`
	CacheTTL    time.Duration `yaml:"cacheTTL" json:"cacheTTL"`
	LogLevel    string        `yaml:"logLevel" json:"logLevel"`
	LogFormat   string        `yaml:"logFormat" json:"logFormat"`
	MetricsPort int           `yaml:"metricsPort" json:"metricsPort"`
}

// Profiles contains named profiles.
type Profiles struct {
	Profiles map[string]Profile `yaml:"profiles"`

	dir string
}

// Path returns the profiles file location for dir.
func Path(dir string) string {
	return filepath.Join(dir, configDir, profileFile)
}

// Load reads the profiles for dir. A missing file yields the defaults.
func Load(dir string) (*Profiles, error) {
	defaults := defaultProfiles()
	defaults.dir = dir

	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading profiles: %w", err)
	}

	var profiles Profiles
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}
	if profiles.Profiles == nil {
		profiles.Profiles = make(map[string]Profile)
	}
	profiles.dir = dir

	for name, p := range profiles.Profiles {
		if p.Name == "" {
			p.Name = name
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		profiles.Profiles[name] = p
	}
	for name, p := range defaults.Profiles {
		if _, ok := profiles.Profiles[name]; !ok {
			profiles.Profiles[name] = p
		}
	}
	return &profiles, nil
}

func defaultProfiles() *Profiles {
	return &Profiles{
		Profiles: map[string]Profile{
			"default": {
				Name:        "default",
				Encoding:    textenc.DefaultEncoding,
				Relative:    true,
				Emails:      true,
				Workers:     4,
				LogLevel:    "info",
				LogFormat:   "text",
				MetricsPort: 9464,
			},
			"strict": {
				Name:        "strict",
				Encoding:    textenc.DefaultEncoding,
				Relative:    false,
				Emails:      true,
				UnsafeChars: []string{"\x00", "\r", "\n"},
				Workers:     2,
				LogLevel:    "debug",
				LogFormat:   "json",
				MetricsPort: 9464,
			},
			"fast": {
				Name:        "fast",
				Encoding:    textenc.DefaultEncoding,
				Relative:    true,
				Emails:      false,
				Workers:     16,
				CacheDir:    filepath.Join(configDir, "cache"),
				CacheTTL:    time.Hour,
				LogLevel:    "warn",
				LogFormat:   "text",
				MetricsPort: 9464,
			},
		},
	}
}

// Resolve returns name, or the value of EnvProfile, or DefaultProfile.
func Resolve(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if env := strings.TrimSpace(os.Getenv(EnvProfile)); env != "" {
		return env
	}
	return DefaultProfile
}

// Get returns the profile selected by Resolve(name).
func (p *Profiles) Get(name string) (Profile, error) {
	name = Resolve(name)
	profile, ok := p.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (available: %s)", ErrProfileNotFound, name, strings.Join(p.Names(), ", "))
	}
	if profile.CacheDir != "" && !filepath.IsAbs(profile.CacheDir) && p.dir != "" {
		profile.CacheDir = filepath.Join(p.dir, profile.CacheDir)
	}
	return profile, nil
}

// Names returns the profile names in sorted order.
func (p *Profiles) Names() []string {
	names := make([]string, 0, len(p.Profiles))
	for name := range p.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks field ranges and the encoding label.
func (p Profile) Validate() error {
	if p.Workers < 0 {
		return fmt.Errorf("%w: %s: workers must not be negative", ErrInvalidProfile, p.Name)
	}
	if p.RateLimit < 0 {
		return fmt.Errorf("%w: %s: rateLimit must not be negative", ErrInvalidProfile, p.Name)
	}
	if p.CacheTTL < 0 {
		return fmt.Errorf("%w: %s: cacheTTL must not be negative", ErrInvalidProfile, p.Name)
	}
	if p.MetricsPort < 0 || p.MetricsPort > 65535 {
		return fmt.Errorf("%w: %s: metricsPort %d out of range", ErrInvalidProfile, p.Name, p.MetricsPort)
	}
	if p.Encoding != "" {
		if _, err := textenc.Lookup(p.Encoding); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidProfile, p.Name, err)
		}
	}
	switch p.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: %s: logFormat %q must be text or json", ErrInvalidProfile, p.Name, p.LogFormat)
	}
	return nil
}

// ExtractorOptions returns the refextract options the profile describes.
func (p Profile) ExtractorOptions() []refextract.Option {
	opts := []refextract.Option{
		refextract.WithRelative(p.Relative),
		refextract.WithEmails(p.Emails),
	}
	if len(p.UnsafeChars) > 0 {
		opts = append(opts, refextract.WithUnsafeChars(p.UnsafeChars...))
	}
	return opts
}

// CacheOptions returns the cache settings, or false when caching is off.
func (p Profile) CacheOptions(version string) (cache.Options, bool) {
	if p.CacheDir == "" {
		return cache.Options{}, false
	}
	return cache.Options{Dir: p.CacheDir, TTL: p.CacheTTL, Version: version}, true
}

// Level returns the parsed log level.
func (p Profile) Level() logutil.Level {
	return logutil.ParseLevel(p.LogLevel)
}

// SaveSample writes the built-in profiles to dir with a commented header.
func SaveSample(dir string) error {
	path := Path(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating %s directory: %w", configDir, err)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrProfilesExist, path)
	}

	data, err := yaml.Marshal(defaultProfiles())
	if err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}

	header := `# crawlref extraction profiles
#
# Usage: crawlref extract --profile fast --base https://example.com/ page.html
#
# Settings:
#   encoding:     charset for documents that declare none
#   relative:     match relative paths such as /a/b.html
#   emails:       collect email addresses
#   emailDomain:  keep only addresses at this domain
#   unsafeChars:  characters re-escaped after percent-decoding
#   workers:      documents extracted in parallel
#   rateLimit:    documents started per second (0 = unlimited)
#   cacheDir:     result cache directory (empty disables caching)
#   cacheTTL:     maximum age of cached results (0 = no expiry)
#   logLevel:     debug, info, warn, error
#   logFormat:    text or json
#   metricsPort:  port for --metrics

`
	if err := os.WriteFile(path, []byte(header+string(data)), 0o600); err != nil {
		return fmt.Errorf("writing profiles: %w", err)
	}
	return nil
}
