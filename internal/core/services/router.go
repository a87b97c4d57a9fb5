package services

import (
	"sync/atomic"

	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
)

// Router translates results-screen events into session commands.
type Router struct {
	session  driving.SearchSession
	appeared atomic.Bool
}

// NewRouter creates a router for session.
func NewRouter(session driving.SearchSession) *Router {
	return &Router{session: session}
}

// Session returns the routed session.
func (r *Router) Session() driving.SearchSession {
	return r.session
}

// ViewAppeared starts the session the first time the results view is shown.
func (r *Router) ViewAppeared() {
	if r.appeared.CompareAndSwap(false, true) {
		r.session.Start()
	}
}

// PullToRefresh reloads the results from page 1.
func (r *Router) PullToRefresh() {
	r.session.Refresh()
}

// ScrolledToBottom asks for the next page. The signal is dropped while a page
// is already loading; it returns whether it was forwarded.
func (r *Router) ScrolledToBottom() bool {
	if r.session.Snapshot().IsLoadingNextPage {
		return false
	}
	r.session.ReachedBottom()
	return true
}
