package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ghinventory/internal/cache"
	"ghinventory/internal/config"
	"ghinventory/internal/flags"
	gh "ghinventory/internal/github"
	"ghinventory/internal/inventory"
	"ghinventory/internal/logging"
	"ghinventory/internal/output"
)

func runInventory(cmd *cobra.Command) error {
	inv, err := buildInventory(cmd)
	if err != nil {
		return err
	}

	if opts.host != "" {
		return output.WriteHostVars(cmd.OutOrStdout(), inv.HostVars(opts.host), opts.indent)
	}
	return output.WriteInventory(cmd.OutOrStdout(), inv, opts.indent)
}

// buildInventory runs the whole pipeline: config, cache, fetch, filter, group.
// Shared by the root command and `graph`.
func buildInventory(cmd *cobra.Command) (*inventory.Inventory, error) {
	cfg, cfgFile, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Verbose, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	defer func() { _ = logger.Sync() }()

	if cfgFile != "" {
		logger.Debug("loaded config file", zap.String("path", cfgFile))
	}

	regex, err := cfg.CompileRegexFilter()
	if err != nil {
		// A broken regex disables regex grouping for this run but never
		// fails the inventory.
		logger.Warn("ignoring regex filter", zap.Error(err))
		regex = nil
	}

	repos, err := resolveRepositories(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}

	builder := inventory.NewBuilder(inventory.BuilderOptions{
		Regex:              regex,
		GroupByLanguages:   cfg.GroupByLanguages,
		LanguageMinPercent: cfg.LanguageMinPercent,
	}, logger)

	return builder.Build(repos), nil
}

// resolveRepositories reads the cache when allowed, otherwise fetches from the
// API and refreshes the cache.
func resolveRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]inventory.Repository, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		store *cache.Cache
		key   string
	)
	if cfg.Cache {
		var err error
		store, err = cache.New(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		key = cache.Key(cfg)
		logger.Debug("cache enabled", zap.String("dir", store.Dir()), zap.String("key", key))

		if opts.flushCache {
			if err := store.Flush(key); err != nil {
				logger.Warn("failed to flush cache", zap.Error(err))
			}
		} else {
			repos, ok, err := store.Read(key)
			if err != nil {
				logger.Warn("failed to read cache", zap.Error(err))
			} else if ok {
				logger.Debug("using cached repositories",
					zap.String("key", key), zap.Int("count", len(repos)))
				return repos, nil
			}
		}
	}

	token, source, err := gh.ResolveAuthToken(ctx, cfg.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve GitHub auth token: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("a GitHub auth token is required (set GITHUB_INVENTORY_ACCESS_TOKEN or GITHUB_TOKEN, or run 'gh auth login')")
	}
	logger.Debug("resolved auth token", zap.String("source", string(source)))

	clientOpts := []gh.Option{gh.WithVerbose(cfg.Verbose, nil)}
	if cfg.IsEnterprise() {
		clientOpts = append(clientOpts, gh.WithEnterpriseBaseURL(cfg.URL))
	}
	client, err := gh.NewClient(ctx, token, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	repos, err := inventory.NewFetcher(client, cfg, logger).Fetch(ctx)
	if err != nil {
		return nil, err
	}
	repos = inventory.Filter(repos, cfg.RepositoryFilter, cfg.ShowArchivedRepos)
	logger.Debug("filtered repositories", zap.Int("count", len(repos)))

	if store != nil {
		if err := store.Write(key, repos); err != nil {
			// Cache failures degrade to uncached operation.
			logger.Warn("failed to write cache", zap.Error(err))
		}
	}

	return repos, nil
}

// applyFlagOverrides copies flag values into the config, but only for flags
// the user actually set, so config file and env values survive.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set(flags.FlagURL) {
		cfg.URL = opts.url
	}
	if set(flags.FlagOrg) {
		cfg.Org = opts.org
	}
	if set(flags.FlagRepositoryFilter) {
		cfg.RepositoryFilter = opts.repositoryFilter
	}
	if set(flags.FlagShowArchived) {
		cfg.ShowArchivedRepos = opts.showArchived
	}
	if set(flags.FlagRegexFilter) {
		cfg.RegexFilter = opts.regexFilter
	}
	if set(flags.FlagGroupByLanguages) {
		cfg.GroupByLanguages = opts.groupByLanguages
	}
	if set(flags.FlagLanguageMinPercent) {
		cfg.LanguageMinPercent = opts.languageMinPercent
	}
	if set(flags.FlagConcurrency) {
		cfg.Concurrency = opts.concurrency
	}
	if set(flags.FlagVerbose) {
		cfg.Verbose = opts.verbose
	}
	if set(flags.FlagLogFile) {
		cfg.LogFile = opts.logFile
	}
}
