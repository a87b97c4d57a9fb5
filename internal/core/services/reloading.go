package services

import (
	"context"
	"sync/atomic"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
)

// Ensure ReloadingSearchService implements the interface.
var _ driving.SearchService = (*ReloadingSearchService)(nil)

// ReloadingSearchService forwards to a search service that can be swapped
// while the process runs, so long-lived commands pick up config changes.
// Sessions already open keep the service that created them.
type ReloadingSearchService struct {
	current atomic.Pointer[searchBinding]
}

type searchBinding struct {
	service driving.SearchService
	config  domain.SearchConfig
}

// NewReloadingSearchService wraps svc, which was built from cfg.
func NewReloadingSearchService(svc driving.SearchService, cfg domain.SearchConfig) *ReloadingSearchService {
	r := &ReloadingSearchService{}
	r.Replace(svc, cfg)
	return r
}

// Replace routes later calls to svc.
func (r *ReloadingSearchService) Replace(svc driving.SearchService, cfg domain.SearchConfig) {
	r.current.Store(&searchBinding{service: svc, config: cfg})
}

// Config returns the configuration of the current service.
func (r *ReloadingSearchService) Config() domain.SearchConfig {
	return r.current.Load().config
}

// Open opens a session on the current service.
func (r *ReloadingSearchService) Open(ctx context.Context, query string) (driving.SearchSession, error) {
	return r.current.Load().service.Open(ctx, query)
}

// Collect runs on the current service.
func (r *ReloadingSearchService) Collect(ctx context.Context, query string, pages int) (domain.AggregateState, error) {
	return r.current.Load().service.Collect(ctx, query, pages)
}

// PageSize returns the page size of the current service.
func (r *ReloadingSearchService) PageSize() int {
	return r.current.Load().service.PageSize()
}
