// Package cache persists fetched repository lists between runs so repeated
// inventory reads don't burn API rate limit. One JSON file per configuration
// identity, invalidated by age.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ghinventory/internal/config"
	"ghinventory/internal/inventory"
)

type Cache struct {
	dir string
	ttl time.Duration
}

type entry struct {
	FetchedAt    time.Time              `json:"fetched_at"`
	Repositories []inventory.Repository `json:"repositories"`
}

// New returns a cache rooted at dir. An empty dir falls back to
// os.UserCacheDir()/ghinventory.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
		}
		dir = filepath.Join(base, "ghinventory")
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

func (c *Cache) Dir() string {
	return c.dir
}

// Key derives the cache identity from every config option that changes what
// gets fetched. Grouping options are deliberately left out: they are applied
// after the cache, so regrouping never requires a refetch.
func Key(cfg *config.Config) string {
	h := sha256.New()
	for _, part := range []string{
		cfg.URL,
		cfg.Org,
		cfg.RepositoryFilter,
		strconv.FormatBool(cfg.ShowArchivedRepos),
		strconv.FormatBool(cfg.GroupByLanguages),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Read returns the cached repositories for key, or ok=false when there is no
// usable cache (missing, expired, or unreadable). An unreadable cache file is
// not an error; the caller falls through to a fresh fetch.
func (c *Cache) Read(key string) (repos []inventory.Repository, ok bool, err error) {
	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		// A corrupt cache file just means a refetch.
		return nil, false, nil
	}
	if c.ttl > 0 && time.Since(e.FetchedAt) > c.ttl {
		return nil, false, nil
	}
	return e.Repositories, true, nil
}

func (c *Cache) Write(key string, repos []inventory.Repository) error {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	raw, err := json.Marshal(entry{FetchedAt: time.Now().UTC(), Repositories: repos})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	// Write-then-rename so a crashed run never leaves a truncated cache file.
	tmp, err := os.CreateTemp(c.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Flush removes the cache entry for key. Removing a nonexistent entry is fine.
func (c *Cache) Flush(key string) error {
	err := os.Remove(c.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}
