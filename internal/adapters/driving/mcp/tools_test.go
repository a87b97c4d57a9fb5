package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns repositories", func(t *testing.T) {
		mockSearch := &mockSearchService{state: sampleState()}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "tokio", Pages: 2})

		require.NoError(t, err)
		assert.Equal(t, "tokio", mockSearch.gotQuery)
		assert.Equal(t, 2, mockSearch.gotPages)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, 2, output.Pages)
		require.Len(t, output.Repositories, 2)
		assert.Equal(t, int64(1), output.Repositories[0].ID)
		assert.Equal(t, "tokio-rs/tokio", output.Repositories[0].FullName)
		assert.Equal(t, "tokio-rs", output.Repositories[0].Owner)
		assert.Equal(t, "https://github.com/tokio-rs/tokio", output.Repositories[0].URL)
		assert.NotEmpty(t, output.Repositories[0].Description)
		assert.Empty(t, output.Repositories[1].Description)
	})

	t.Run("default pages is 1", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "tokio"})

		require.NoError(t, err)
		assert.Equal(t, 1, mockSearch.gotPages)
		assert.Equal(t, 0, output.Count)
		assert.NotNil(t, output.Repositories)
	})

	t.Run("pages are capped", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "tokio", Pages: 500})

		require.NoError(t, err)
		assert.Equal(t, maxPages, mockSearch.gotPages)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "tokio"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})

	t.Run("empty query error is surfaced", func(t *testing.T) {
		mockSearch := &mockSearchService{err: domain.ErrEmptyQuery}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "   "})

		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})
}
