package flags

// Package flags defines canonical CLI flag names shared across the CLI.
// Keeping these as constants helps avoid drift between Cobra flag wiring and
// other code paths that need to reference flags in messages.
// IMPORTANT: These are flag *names* without leading dashes.
const (
	// Inventory contract
	FlagList       = "list"
	FlagHost       = "host"
	FlagFlushCache = "flush-cache"

	// Source
	FlagConfig           = "config"
	FlagURL              = "url"
	FlagOrg              = "org"
	FlagRepositoryFilter = "repository-filter"
	FlagShowArchived     = "show-archived"

	// Grouping
	FlagRegexFilter        = "regex-filter"
	FlagGroupByLanguages   = "group-by-languages"
	FlagLanguageMinPercent = "language-min-percent"

	// Output
	FlagIndent = "indent"

	// Runtime
	FlagConcurrency = "concurrency"
	FlagVerbose     = "verbose"
	FlagLogFile     = "log-file"
)
