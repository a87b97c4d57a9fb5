package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
)

const (
	defaultPages = 1
	maxPages     = 10
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"GitHub repository search query, e.g. language:go stars:>1000"`
	Pages int    `json:"pages,omitempty" jsonschema:"number of result pages to load (default 1, max 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Query        string             `json:"query"`
	Repositories []RepositoryOutput `json:"repositories"`
	Count        int                `json:"count"`
	Pages        int                `json:"pages"`
}

// RepositoryOutput represents a single repository.
type RepositoryOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Owner       string `json:"owner"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_repositories",
		Description: "Search GitHub repositories, loading one or more pages of results",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	pages := input.Pages
	if pages <= 0 {
		pages = defaultPages
	}
	pages = min(pages, maxPages)

	state, err := s.ports.Search.Collect(ctx, input.Query, pages)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, toSearchOutput(state), nil
}

func toSearchOutput(state domain.AggregateState) SearchOutput {
	output := SearchOutput{
		Query:        state.Query,
		Repositories: make([]RepositoryOutput, len(state.Items)),
		Count:        len(state.Items),
		Pages:        state.CurrentPage,
	}

	for i := range state.Items {
		repo := &state.Items[i]
		output.Repositories[i] = RepositoryOutput{
			ID:          repo.ID,
			Name:        repo.Name,
			FullName:    repo.FullName,
			Owner:       repo.Owner.Login,
			URL:         repo.HTMLURL,
			Description: repo.DescriptionOr(""),
		}
	}

	return output
}
