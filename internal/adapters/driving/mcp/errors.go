// Package mcp provides an MCP (Model Context Protocol) server adapter for reposearch.
// It lets AI assistants search GitHub repositories through the same paging
// sessions the TUI uses.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
