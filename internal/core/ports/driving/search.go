package driving

import (
	"context"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
)

// SearchService opens search sessions for external actors.
// This is used by the TUI, CLI and MCP adapters.
type SearchService interface {
	// Open starts a session bound to query. The query is trimmed and must not
	// be empty. The session stays idle until Start is called.
	Open(ctx context.Context, query string) (SearchSession, error)

	// Collect opens a session for query, drives it through up to pages pages
	// as a scrolling user would, closes it and returns the final state.
	Collect(ctx context.Context, query string, pages int) (domain.AggregateState, error)

	// PageSize returns the number of repositories requested per page.
	PageSize() int
}

// SearchSession is the paginated result aggregator for one fixed query.
//
// Command methods return once the synchronous part of the transition has been
// applied; fetches complete asynchronously and surface through Snapshot and
// Subscribe. Commands sent after Close are ignored.
type SearchSession interface {
	// ID uniquely identifies the session in logs.
	ID() string

	// Query returns the normalised query.
	Query() string

	// Start loads the first page. Only the first call has an effect.
	Start()

	// Refresh reloads from page 1, superseding any in-flight fetch.
	Refresh()

	// ReachedBottom requests the next page, subject to debounce and guards.
	ReachedBottom()

	// Snapshot returns the latest consistent state.
	Snapshot() domain.AggregateState

	// Subscribe returns a channel that always holds the most recent state,
	// starting with the current one. The channel is closed when the session
	// closes or the returned cancel func is called.
	Subscribe() (<-chan domain.AggregateState, func())

	// Close cancels in-flight fetches and timers and releases the session.
	Close()
}
