// Package domain defines the core entities for reposearch.
//
// This package is the innermost layer of the hexagon. It defines:
//
//   - Repository, Owner: a search hit as decoded from the hosting API
//   - Page: one fetched batch of repositories
//   - AggregateState: the paging state owned by a search session
//   - ViewModel, RepositoryRow: display-ready projections of that state
//   - SearchConfig: endpoint, paging and timing configuration
//   - FetchError: the failure taxonomy of a single page fetch
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
