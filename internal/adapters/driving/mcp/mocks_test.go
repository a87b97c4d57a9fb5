package mcp

import (
	"context"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	state domain.AggregateState
	err   error

	gotQuery string
	gotPages int
}

func (m *mockSearchService) Open(_ context.Context, _ string) (driving.SearchSession, error) {
	return nil, m.err
}

func (m *mockSearchService) Collect(_ context.Context, query string, pages int) (domain.AggregateState, error) {
	m.gotQuery = query
	m.gotPages = pages
	if m.state.Query == "" {
		m.state.Query = query
	}
	return m.state, m.err
}

func (m *mockSearchService) PageSize() int {
	return domain.DefaultPageSize
}

func strPtr(s string) *string {
	return &s
}

func sampleState() domain.AggregateState {
	return domain.AggregateState{
		Query:       "tokio",
		CurrentPage: 2,
		Started:     true,
		Loaded:      true,
		Items: []domain.Repository{
			{
				ID:          1,
				Name:        "tokio",
				FullName:    "tokio-rs/tokio",
				Owner:       domain.Owner{Login: "tokio-rs", ID: 10},
				HTMLURL:     "https://github.com/tokio-rs/tokio",
				Description: strPtr("A runtime for writing reliable asynchronous applications"),
			},
			{
				ID:       2,
				Name:     "mini-redis",
				FullName: "tokio-rs/mini-redis",
				Owner:    domain.Owner{Login: "tokio-rs", ID: 10},
				HTMLURL:  "https://github.com/tokio-rs/mini-redis",
			},
		},
	}
}
