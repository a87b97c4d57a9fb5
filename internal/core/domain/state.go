package domain

// AggregateState is the paging state of one search session.
//
// Items are de-duplicated by repository ID and kept in page order. A refresh
// replaces Items, a next-page load appends to it. At most one page fetch is in
// flight at any time.
type AggregateState struct {
	// Query is the fixed query of the session.
	Query string

	// CurrentPage is the last page number requested (starts at 1).
	CurrentPage int

	// Items holds the aggregated repositories.
	Items []Repository

	// Started is set once the session has left the idle state.
	Started bool

	// Loaded is set once the first refresh has completed, successfully or not.
	Loaded bool

	IsRefreshing      bool
	IsLoadingNextPage bool

	// HasError is set by a failed fetch and cleared by the next successful one.
	HasError bool
}

// NewAggregateState returns the idle state for a session bound to query.
func NewAggregateState(query string) AggregateState {
	return AggregateState{
		Query:       query,
		CurrentPage: 1,
	}
}

// IsBusy reports whether a page fetch is outstanding.
func (s AggregateState) IsBusy() bool {
	return s.IsRefreshing || s.IsLoadingNextPage
}

// ItemIDs returns the repository IDs in display order.
func (s AggregateState) ItemIDs() []int64 {
	ids := make([]int64, len(s.Items))
	for i := range s.Items {
		ids[i] = s.Items[i].ID
	}
	return ids
}
