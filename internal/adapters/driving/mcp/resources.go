package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for reposearch resources.
	uriScheme = "reposearch://"

	mimeJSON = "application/json"
)

// configInfo is the public view of the search configuration.
// The token itself is never exposed.
type configInfo struct {
	BaseURL           string  `json:"base_url"`
	Authenticated     bool    `json:"authenticated"`
	PageSize          int     `json:"page_size"`
	DebounceMillis    int64   `json:"debounce_ms"`
	CooldownMillis    int64   `json:"cooldown_ms"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	TimeoutSeconds    float64 `json:"timeout_seconds"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "config",
		Name:        "config",
		Description: "Effective search configuration (token redacted)",
		MIMEType:    mimeJSON,
	}, s.handleConfigResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "search/{query}",
		Name:        "search-results",
		Description: "First page of repositories matching a URL-encoded query",
		MIMEType:    mimeJSON,
	}, s.handleSearchResource)
}

// handleConfigResource returns the effective configuration.
func (s *Server) handleConfigResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Config == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	cfg := s.ports.Config()
	return jsonResource(req.Params.URI, configInfo{
		BaseURL:           cfg.BaseURL,
		Authenticated:     cfg.Authenticated(),
		PageSize:          cfg.PageSize,
		DebounceMillis:    cfg.DebounceWindow.Milliseconds(),
		CooldownMillis:    cfg.CooldownDelay.Milliseconds(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		TimeoutSeconds:    cfg.Timeout.Seconds(),
	})
}

// handleSearchResource returns the first page of results for a query.
func (s *Server) handleSearchResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	query := extractQuery(req.Params.URI)
	if query == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	state, err := s.ports.Search.Collect(ctx, query, 1)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	return jsonResource(req.Params.URI, toSearchOutput(state))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(data),
		}},
	}, nil
}

// extractQuery extracts the decoded query from a URI like reposearch://search/{query}.
// It returns "" when the URI does not match or the query is blank.
func extractQuery(uri string) string {
	const prefix = uriScheme + "search/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	query, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(query)
}
