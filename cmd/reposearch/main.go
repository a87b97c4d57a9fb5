// Command reposearch searches GitHub repositories from the terminal.
package main

import (
	"os"

	"github.com/custodia-labs/reposearch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/reposearch-cli/internal/connectors/github"
	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/reposearch-cli/internal/core/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetDependencies(cli.Dependencies{
		OpenConfigStore:  openConfigStore,
		NewSearchService: newSearchService,
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

func openConfigStore(dir string) (driven.ConfigStore, error) {
	return file.NewConfigStore(dir)
}

func newSearchService(cfg domain.SearchConfig) (driving.SearchService, error) {
	client, err := github.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return services.NewSearchService(client, cfg), nil
}
