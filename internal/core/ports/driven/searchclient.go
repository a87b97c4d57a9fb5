package driven

import (
	"context"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
)

// SearchClient fetches pages of repository search results.
//
// Implementations perform exactly one network call per Fetch. A failed fetch
// returns a *domain.FetchError. When ctx is cancelled the request is aborted
// and the context error is returned instead.
type SearchClient interface {
	// Fetch requests page (1-based) of results for query with pageSize items per page.
	Fetch(ctx context.Context, query string, pageSize, page int) (*domain.Page, error)
}
