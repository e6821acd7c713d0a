// Package preset owns the JSON-backed theme catalog.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"dreamworld/internal/domain"
	"dreamworld/internal/infra"
)

const catalogKey = "dream_world_themes"

// Store reads and writes the preset document at a fixed path.
type Store struct {
	path   string
	cache  *cache.Cache
	logger *infra.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger attaches a logger used for lookups that swallow load failures.
func WithLogger(logger *infra.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCacheTTL overrides how long a parsed catalog is reused while the file
// is unchanged. A non-positive ttl disables memoization.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		s.cache = cache.New(ttl, 2*ttl)
	}
}

type cachedCatalog struct {
	modTime time.Time
	size    int64
	catalog domain.Catalog
}

// NewStore returns a Store for the document at path.
func NewStore(path string, opts ...Option) *Store {
	discard := zerolog.New(io.Discard)
	l := infra.Logger(discard)
	s := &Store{
		path:   strings.TrimSpace(path),
		cache:  cache.New(5*time.Minute, 10*time.Minute),
		logger: &l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// EnsureCatalogExists writes the default catalog when the document is absent.
func (s *Store) EnsureCatalogExists() error {
	if s.path == "" {
		return domain.StorageError("preset path is required", nil)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return domain.StorageError("stat preset file", err)
	}
	return s.write(DefaultCatalog())
}

func (s *Store) write(catalog domain.Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return domain.StorageError("encode catalog", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.StorageError("ensure preset directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".presets-*.json")
	if err != nil {
		return domain.StorageError("create temp preset file", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return domain.StorageError("write preset file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.StorageError("close preset file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return domain.StorageError("install preset file", err)
	}
	return nil
}

// LoadCatalog reads and validates the document.
func (s *Store) LoadCatalog() (domain.Catalog, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return domain.Catalog{}, domain.StorageError("stat preset file", err)
	}
	if s.cache != nil {
		if v, ok := s.cache.Get(s.path); ok {
			if c, ok := v.(cachedCatalog); ok && c.modTime.Equal(info.ModTime()) && c.size == info.Size() {
				return cloneCatalog(c.catalog), nil
			}
		}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Catalog{}, domain.StorageError("read preset file", err)
	}
	catalog, err := decodeCatalog(data)
	if err != nil {
		return domain.Catalog{}, err
	}
	if s.cache != nil {
		s.cache.SetDefault(s.path, cachedCatalog{modTime: info.ModTime(), size: info.Size(), catalog: catalog})
	}
	return cloneCatalog(catalog), nil
}

func decodeCatalog(data []byte) (domain.Catalog, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Catalog{}, domain.StorageError("decode preset document", err)
	}
	raw, ok := doc[catalogKey]
	if !ok {
		return domain.Catalog{}, domain.StorageError(fmt.Sprintf("preset document has no %q list", catalogKey), nil)
	}
	var themes []domain.Theme
	if err := json.Unmarshal(raw, &themes); err != nil {
		return domain.Catalog{}, domain.StorageError("decode themes", err)
	}
	seen := make(map[string]struct{}, len(themes))
	for i, t := range themes {
		if t.Name == "" {
			return domain.Catalog{}, domain.StorageError(fmt.Sprintf("theme %d has no name", i), nil)
		}
		if _, dup := seen[t.Name]; dup {
			return domain.Catalog{}, domain.StorageError(fmt.Sprintf("duplicate theme name %q", t.Name), nil)
		}
		seen[t.Name] = struct{}{}
	}
	return domain.Catalog{Themes: themes}, nil
}

func cloneCatalog(c domain.Catalog) domain.Catalog {
	themes := make([]domain.Theme, len(c.Themes))
	copy(themes, c.Themes)
	for i := range themes {
		if themes[i].Seasons != nil {
			themes[i].Seasons = append([]string(nil), themes[i].Seasons...)
		}
	}
	return domain.Catalog{Themes: themes}
}

// ListThemeNames returns the theme names in catalog order.
func (s *Store) ListThemeNames() ([]string, error) {
	catalog, err := s.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return catalog.Names(), nil
}

// FindTheme looks a theme up by exact name. It never fails: an unreadable
// catalog is logged and reported as not found.
func (s *Store) FindTheme(name string) (domain.Theme, bool) {
	catalog, err := s.LoadCatalog()
	if err != nil {
		s.logger.Warn().Err(err).Str("theme", name).Msg("preset: catalog unavailable")
		return domain.Theme{}, false
	}
	return catalog.Find(name)
}

// SeasonOptions returns the season labels offered by the named theme.
func (s *Store) SeasonOptions(name string) []string {
	theme, ok := s.FindTheme(name)
	if !ok || !theme.HasSeasons() {
		return []string{}
	}
	return theme.Seasons
}
