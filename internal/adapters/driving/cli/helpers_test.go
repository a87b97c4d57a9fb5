package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reposearch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/reposearch-cli/internal/core/services"
)

// mockSearchService implements driving.SearchService for command tests.
type mockSearchService struct {
	state domain.AggregateState
	err   error

	gotQuery string
	gotPages int
}

func (m *mockSearchService) Open(_ context.Context, _ string) (driving.SearchSession, error) {
	return nil, domain.ErrInvalidInput
}

func (m *mockSearchService) Collect(_ context.Context, query string, pages int) (domain.AggregateState, error) {
	m.gotQuery = query
	m.gotPages = pages
	if m.err != nil {
		return domain.AggregateState{}, m.err
	}
	state := m.state
	state.Query = query
	return state, nil
}

func (m *mockSearchService) PageSize() int {
	return domain.DefaultPageSize
}

func strPtr(s string) *string {
	return &s
}

func sampleState() domain.AggregateState {
	state := domain.NewAggregateState("")
	state.Started = true
	state.Loaded = true
	state.CurrentPage = 1
	state.Items = []domain.Repository{
		{
			ID:          1,
			Name:        "tokio",
			FullName:    "tokio-rs/tokio",
			HTMLURL:     "https://github.com/tokio-rs/tokio",
			Description: strPtr("A runtime for writing reliable asynchronous applications"),
		},
		{
			ID:       2,
			Name:     "mini-redis",
			FullName: "tokio-rs/mini-redis",
			HTMLURL:  "https://github.com/tokio-rs/mini-redis",
		},
	}
	return state
}

// setupTestServices installs a mock search service and a config store in a
// temp dir, and restores all command state when the test ends.
func setupTestServices(t *testing.T) (*mockSearchService, *file.ConfigStore) {
	t.Helper()

	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	svc := &mockSearchService{state: sampleState()}

	origDeps, origStore, origService, origConfig := deps, configStore, searchService, searchConfig
	origOverrides := searchOverrides
	deps = Dependencies{}
	configStore = store
	searchService = svc
	searchOverrides = services.ConfigOverrides{}

	t.Cleanup(func() {
		deps, configStore, searchService, searchConfig = origDeps, origStore, origService, origConfig
		searchOverrides = origOverrides
		resetFlags()
	})

	return svc, store
}

func resetFlags() {
	flagVerbose = false
	flagConfigDir = ""
	flagBaseURL = ""
	flagToken = ""
	flagPageSize = 0
	searchPages = 1
	searchJSON = false
	rootCmd.SetArgs(nil)
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
