package cli

import (
	"context"
	"fmt"

	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/reposearch-cli/internal/core/services"
	"github.com/custodia-labs/reposearch-cli/internal/logger"
)

// liveSearchService wraps the search service for long-running commands.
// When the config store can watch its file and a service factory is set,
// edits to the file rebuild the service until ctx is done.
func liveSearchService(ctx context.Context) *services.ReloadingSearchService {
	live := services.NewReloadingSearchService(searchService, searchConfig)

	watcher, ok := configStore.(driven.ConfigWatcher)
	if !ok || deps.NewSearchService == nil {
		return live
	}

	changes, err := watcher.Watch(ctx)
	if err != nil {
		logger.Warn("config: not watching %s: %v", configStore.Path(), err)
		return live
	}

	go func() {
		for range changes {
			if err := reloadSearch(live); err != nil {
				logger.Warn("config: keeping previous settings: %v", err)
			}
		}
	}()
	return live
}

// reloadSearch resolves the config again with the original flag overrides
// and swaps a freshly built service into live.
func reloadSearch(live *services.ReloadingSearchService) error {
	cfg, err := services.ResolveSearchConfig(configStore, searchOverrides)
	if err != nil {
		return err
	}
	if cfg == live.Config() {
		return nil
	}

	svc, err := deps.NewSearchService(cfg)
	if err != nil {
		return fmt.Errorf("creating search service: %w", err)
	}
	live.Replace(svc, cfg)
	logger.Info("config: reloaded (base=%s page_size=%d authenticated=%t)",
		cfg.BaseURL, cfg.PageSize, cfg.Authenticated())
	return nil
}
