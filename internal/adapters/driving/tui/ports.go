// Package tui provides an interactive terminal user interface for reposearch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search opens repository search sessions.
	Search driving.SearchService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(search driving.SearchService) *Ports {
	return &Ports{Search: search}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
