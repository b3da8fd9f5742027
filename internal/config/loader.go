package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	configName = "github_repositories"
	envPrefix  = "GITHUB_INVENTORY"
)

// Load reads the inventory configuration.
//
// Precedence (lowest to highest):
//  1. defaults from New()
//  2. config file: explicit path, or github_repositories.{yml,yaml} searched
//     in the working directory and ~/.config/ghinventory/
//  3. GITHUB_INVENTORY_* environment variables
//     (e.g. GITHUB_INVENTORY_ACCESS_TOKEN, GITHUB_INVENTORY_ORG)
//
// CLI flag overrides are applied by the caller after Load.
func Load(path string) (*Config, string, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "ghinventory"))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := New()
	v.SetDefault("url", defaults.URL)
	v.SetDefault("cache_ttl", defaults.CacheTTL)
	v.SetDefault("concurrency", defaults.Concurrency)

	// Environment variables only surface through Unmarshal when the key is
	// known to viper, so bind every config key explicitly. A few keys also
	// accept a second, older env name that existing setups may still export.
	envAliases := map[string]string{
		"repository_filter":   "GITHUB_INVENTORY_SEARCH_FILTER",
		"regex_filter":        "GITHUB_INVENTORY_REGEX_GROUP_FILTER",
		"show_archived_repos": "GITHUB_INVENTORY_ARCHIVED",
	}
	for _, key := range []string{
		"url", "access_token", "org", "repository_filter", "regex_filter",
		"show_archived_repos", "group_by_languages", "language_min_percent",
		"cache", "cache_dir", "cache_ttl", "concurrency", "verbose", "log_file",
	} {
		names := []string{key, envPrefix + "_" + strings.ToUpper(key)}
		if alias, ok := envAliases[key]; ok {
			names = append(names, alias)
		}
		if err := v.BindEnv(names...); err != nil {
			return nil, "", fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine; env vars and flags may carry everything.
	}

	cfg := New()
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, v.ConfigFileUsed(), nil
}
