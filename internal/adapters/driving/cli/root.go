// Package cli provides the cobra command tree for reposearch.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/reposearch-cli/internal/core/services"
	"github.com/custodia-labs/reposearch-cli/internal/logger"
)

// TokenEnv is read when --token is not given.
//
//nolint:gosec // G101: environment variable name, not a credential.
const TokenEnv = "GITHUB_TOKEN"

// Dependencies builds the adapters a command needs once flags are parsed.
type Dependencies struct {
	// OpenConfigStore opens the config store in dir ("" for the default).
	OpenConfigStore func(dir string) (driven.ConfigStore, error)

	// NewSearchService builds the search service for a resolved config.
	NewSearchService func(cfg domain.SearchConfig) (driving.SearchService, error)
}

var (
	version = "dev"

	deps            Dependencies
	configStore     driven.ConfigStore
	searchConfig    = domain.DefaultSearchConfig()
	searchOverrides services.ConfigOverrides
	searchService   driving.SearchService
)

// Persistent flags.
var (
	flagVerbose   bool
	flagConfigDir string
	flagBaseURL   string
	flagToken     string
	flagPageSize  int
)

var rootCmd = &cobra.Command{
	Use:   "reposearch",
	Short: "Search GitHub repositories from the terminal",
	Long: `reposearch searches GitHub repositories and pages through the results.

Run without a subcommand, or with "tui", to open the interactive browser.
Use "search" for one-shot output and "mcp serve" to expose search to AI
assistants over the Model Context Protocol.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupSearch,
	RunE:              runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.reposearch)")
	flags.StringVar(&flagBaseURL, "base-url", "", "API base URL")
	flags.StringVar(&flagToken, "token", "", "access token (or env "+TokenEnv+")")
	flags.IntVar(&flagPageSize, "page-size", 0, fmt.Sprintf("results per page (1-%d)", domain.MaxPageSize))

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetDependencies sets the adapter factories used by commands.
func SetDependencies(d Dependencies) {
	deps = d
}

// SetSearchService injects a ready search service, bypassing the factory.
func SetSearchService(s driving.SearchService) {
	searchService = s
}

// SetConfigStore injects a ready config store, bypassing the factory.
func SetConfigStore(s driven.ConfigStore) {
	configStore = s
}

// setupSearch resolves the search configuration and builds the search service.
func setupSearch(cmd *cobra.Command, _ []string) error {
	if err := openConfigStore(cmd, nil); err != nil {
		return err
	}

	overrides := services.ConfigOverrides{
		BaseURL:  flagBaseURL,
		Token:    flagToken,
		PageSize: flagPageSize,
	}
	if overrides.Token == "" {
		overrides.Token = os.Getenv(TokenEnv)
	}

	cfg, err := services.ResolveSearchConfig(configStore, overrides)
	if err != nil {
		return err
	}
	searchConfig = cfg
	searchOverrides = overrides
	logger.Debug("config: base=%s page_size=%d authenticated=%t", cfg.BaseURL, cfg.PageSize, cfg.Authenticated())

	if searchService != nil || deps.NewSearchService == nil {
		return nil
	}
	svc, err := deps.NewSearchService(cfg)
	if err != nil {
		return fmt.Errorf("creating search service: %w", err)
	}
	searchService = svc
	return nil
}

// openConfigStore applies --verbose and opens the config store once.
func openConfigStore(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if configStore != nil || deps.OpenConfigStore == nil {
		return nil
	}
	store, err := deps.OpenConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = store
	return nil
}

func requireSearchService() error {
	if searchService == nil {
		return errors.New("search service not configured")
	}
	return nil
}
