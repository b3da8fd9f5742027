package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Config holds every option of the inventory source. The YAML keys mirror the
// documented option names so an existing github_repositories.yml keeps working;
// each option can also be supplied via a GITHUB_INVENTORY_* environment
// variable (see loader.go) or overridden by a CLI flag.
type Config struct {
	// URL is the GitHub base URL. Anything other than the default switches the
	// client to GitHub Enterprise endpoints (see --url).
	URL string `mapstructure:"url"`

	// AccessToken is the GitHub authentication PAT. May be left empty, in
	// which case the token is resolved from GITHUB_INVENTORY_ACCESS_TOKEN,
	// GITHUB_TOKEN, or the gh CLI.
	AccessToken string `mapstructure:"access_token"`

	// Org is the GitHub organization whose repositories become hosts.
	Org string `mapstructure:"org"`

	// RepositoryFilter filters repositories by name (see --repository-filter).
	// Go path.Match style; a pattern without glob metacharacters matches as a
	// name prefix.
	RepositoryFilter string `mapstructure:"repository_filter"`

	// RegexFilter is a regular expression applied to repository names. All
	// capture-group values of all matches become groups for the repository,
	// plus a main-<first capture> group. A pattern that does not compile is
	// reported as a warning and contributes no groups.
	RegexFilter string `mapstructure:"regex_filter"`

	// ShowArchivedRepos includes archived repositories in the inventory
	// (see --show-archived). Default: excluded.
	ShowArchivedRepos bool `mapstructure:"show_archived_repos"`

	// GroupByLanguages fetches per-repository language statistics and adds one
	// group per language (see --group-by-languages). Costs one extra API call
	// per repository.
	GroupByLanguages bool `mapstructure:"group_by_languages"`

	// LanguageMinPercent is the minimum share (0-100) a language needs in a
	// repository before the repository joins that language group. 0 means any
	// nonzero share counts.
	LanguageMinPercent float64 `mapstructure:"language_min_percent"`

	// Cache enables the on-disk inventory cache.
	Cache bool `mapstructure:"cache"`

	// CacheDir overrides the cache directory. Empty means
	// $XDG_CACHE_HOME/ghinventory (or the platform equivalent).
	CacheDir string `mapstructure:"cache_dir"`

	// CacheTTL is how long a cached inventory stays valid.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// Concurrency bounds parallel language fetches (see --concurrency).
	// Must be >= 1. Only relevant with GroupByLanguages.
	Concurrency int `mapstructure:"concurrency"`

	// Verbose enables per-request API logging on stderr (see --verbose).
	Verbose bool `mapstructure:"verbose"`

	// LogFile appends structured logs to this path in addition to stderr.
	LogFile string `mapstructure:"log_file"`
}

const DefaultURL = "https://github.com/"

func New() *Config {
	return &Config{
		URL:         DefaultURL,
		CacheTTL:    time.Hour,
		Concurrency: 5,
	}
}

func (c *Config) Validate() error {
	c.Org = strings.TrimSpace(c.Org)
	if c.Org == "" {
		return errors.New("org must be provided (config key 'org' or GITHUB_INVENTORY_ORG)")
	}
	if strings.Contains(c.Org, "/") {
		norm, err := normalizeOrgSelector(c.Org)
		if err != nil {
			return fmt.Errorf("invalid org value: %w", err)
		}
		c.Org = norm
	}

	c.URL = strings.TrimSpace(c.URL)
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if _, err := url.Parse(c.URL); err != nil {
		return fmt.Errorf("invalid url %q: %w", c.URL, err)
	}

	if c.LanguageMinPercent < 0 || c.LanguageMinPercent > 100 {
		return fmt.Errorf("language_min_percent must be between 0 and 100, got %v", c.LanguageMinPercent)
	}
	if c.Concurrency <= 0 {
		return errors.New("concurrency must be >= 1")
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = time.Hour
	}

	return nil
}

// CompileRegexFilter compiles the regex filter, or returns (nil, nil) when no
// filter is configured. Callers treat a compile error as a warning: the run
// proceeds without regex groups.
func (c *Config) CompileRegexFilter() (*regexp.Regexp, error) {
	pattern := strings.TrimSpace(c.RegexFilter)
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex_filter %q: %w", pattern, err)
	}
	return re, nil
}

// IsEnterprise reports whether the configured URL points somewhere other than
// public GitHub.
func (c *Config) IsEnterprise() bool {
	u, err := url.Parse(c.URL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "www.github.com" {
		host = "github.com"
	}
	return host != "" && host != "github.com"
}

func normalizeOrgSelector(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	// Accept a raw org name, or a GitHub URL like:
	//   https://github.com/<name>
	//   https://github.com/orgs/<name>
	//   github.com/<name>
	if strings.HasPrefix(raw, "github.com/") || strings.HasPrefix(raw, "www.github.com/") {
		raw = "https://" + raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%q", raw)
		}
		parts := strings.FieldsFunc(strings.Trim(u.Path, "/"), func(r rune) bool { return r == '/' })
		if len(parts) == 0 {
			return "", fmt.Errorf("%q", raw)
		}
		if parts[0] == "orgs" {
			if len(parts) < 2 {
				return "", fmt.Errorf("%q", raw)
			}
			return parts[1], nil
		}
		return parts[0], nil
	}

	return "", fmt.Errorf("%q", raw)
}
