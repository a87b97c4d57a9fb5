package mcp

import (
	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search opens and drives search sessions.
	Search driving.SearchService

	// Config returns the effective search configuration, exposed read-only
	// as a resource. It is called on every read so reloaded settings show
	// up. Optional.
	Config func() domain.SearchConfig
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
