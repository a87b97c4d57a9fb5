package services

import (
	"context"
	"fmt"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/reposearch-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService opens search sessions against a SearchClient.
type SearchService struct {
	client driven.SearchClient
	config domain.SearchConfig
	clock  clock.Clock
}

// NewSearchService creates a search service that uses the real clock.
func NewSearchService(client driven.SearchClient, config domain.SearchConfig) *SearchService {
	return &SearchService{
		client: client,
		config: config,
		clock:  clock.New(),
	}
}

// SetClock replaces the clock that drives debounce and cool-down timers.
func (s *SearchService) SetClock(c clock.Clock) {
	s.clock = c
}

// Open creates an idle session for query.
func (s *SearchService) Open(ctx context.Context, query string) (driving.SearchSession, error) {
	q, err := domain.NormalizeQuery(query)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if s.client == nil {
		return nil, fmt.Errorf("open session: %w: no search client", domain.ErrInvalidConfig)
	}

	id := uuid.NewString()
	logger.Debug("opening session %s for %q (per_page=%d)", id, q, s.config.PageSize)

	return NewSession(ctx, id, q, s.config, s.client, s.clock), nil
}

// Collect loads up to pages pages of results for query in a short-lived session.
func (s *SearchService) Collect(ctx context.Context, query string, pages int) (domain.AggregateState, error) {
	session, err := s.Open(ctx, query)
	if err != nil {
		return domain.AggregateState{}, err
	}
	defer session.Close()

	logger.Section("Search " + session.Query())
	state, err := LoadPages(ctx, session, pages)
	if err != nil {
		return state, fmt.Errorf("collect %q: %w", session.Query(), err)
	}
	logger.Debug("collected %d repositories over %d page(s)", len(state.Items), state.CurrentPage)
	return state, nil
}

// PageSize returns the number of repositories requested per page.
func (s *SearchService) PageSize() int {
	return s.config.PageSize
}
