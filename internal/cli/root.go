package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ghinventory/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// opts carries CLI flag values. Flags only override the loaded configuration
// when they were actually set (see applyFlagOverrides).
var opts struct {
	list       bool
	host       string
	flushCache bool
	indent     bool

	configPath         string
	url                string
	org                string
	repositoryFilter   string
	showArchived       bool
	regexFilter        string
	groupByLanguages   bool
	languageMinPercent float64
	concurrency        int
	verbose            bool
	logFile            string
}

var rootCmd = &cobra.Command{
	Use:   "ghinventory",
	Short: "GitHub repositories as a dynamic Ansible inventory",
	Long: `ghinventory turns an organization's GitHub repositories into an Ansible
inventory: every repository becomes a host, grouped by its team-* topic, its
languages, and capture groups of a configurable regex. Repository metadata
(clone URL, topics, default branch, ...) is exposed as host variables.

It implements the Ansible script inventory contract: --list prints the full
inventory as JSON on stdout, --host <name> prints one host's variables.

Configuration:
	Options load from github_repositories.yml (working directory or
	~/.config/ghinventory/), GITHUB_INVENTORY_* environment variables, and
	CLI flags, in that order of precedence.

Authentication:
	A GitHub access token is resolved from the config file (access_token),
	GITHUB_INVENTORY_ACCESS_TOKEN, GITHUB_TOKEN, or a logged-in gh CLI.

Examples:
	# Full inventory from config + environment
	export GITHUB_INVENTORY_ORG=my-org
	ghinventory --list

	# As an Ansible inventory source
	ansible-playbook -i ghinventory site.yml

	# Group by languages, ignore cache
	ghinventory --list --group-by-languages --flush-cache

	# Inspect the group tree
	ghinventory graph --org my-org`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ansible always passes --list or --host; a bare invocation behaves
		// like --list so manual runs do something useful.
		return runInventory(cmd)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&opts.list, flags.FlagList, false, "Print the full inventory as JSON (default behavior)")
	rootCmd.Flags().StringVar(&opts.host, flags.FlagHost, "", "Print variables for a single host")
	rootCmd.Flags().BoolVar(&opts.flushCache, flags.FlagFlushCache, false, "Discard the on-disk cache and fetch fresh data")
	rootCmd.Flags().BoolVar(&opts.indent, flags.FlagIndent, false, "Indent the JSON output")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, flags.FlagConfig, "", "Path to the inventory config file (default: github_repositories.yml)")
	pf.StringVar(&opts.url, flags.FlagURL, "", "GitHub base URL (set for GitHub Enterprise)")
	pf.StringVar(&opts.org, flags.FlagOrg, "", "GitHub organization (name or URL)")
	pf.StringVar(&opts.repositoryFilter, flags.FlagRepositoryFilter, "", "Repository name filter (path.Match glob, or prefix when no glob chars)")
	pf.BoolVar(&opts.showArchived, flags.FlagShowArchived, false, "Include archived repositories")
	pf.StringVar(&opts.regexFilter, flags.FlagRegexFilter, "", "Regex whose capture groups become inventory groups")
	pf.BoolVar(&opts.groupByLanguages, flags.FlagGroupByLanguages, false, "Add one group per repository language (one extra API call per repo)")
	pf.Float64Var(&opts.languageMinPercent, flags.FlagLanguageMinPercent, 0, "Minimum language share in percent for language group membership")
	pf.IntVar(&opts.concurrency, flags.FlagConcurrency, 5, "Concurrent language fetches")
	pf.BoolVar(&opts.verbose, flags.FlagVerbose, false, "Enable verbose logging (prints every GitHub API call)")
	pf.StringVar(&opts.logFile, flags.FlagLogFile, "", "Append structured logs to this file")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
