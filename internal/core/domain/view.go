package domain

// ViewModel is the display-ready projection of an AggregateState.
type ViewModel struct {
	// Title is the session query.
	Title string

	// ShowInitialSpinner is true until the first refresh completes.
	ShowInitialSpinner bool

	// IsRefreshingIndicator mirrors a pull-to-refresh in progress.
	IsRefreshingIndicator bool

	// IsLoadingMoreIndicator mirrors a next-page load (including its cool-down).
	IsLoadingMoreIndicator bool

	// RowsInteractive is false exactly while a refresh is in progress.
	RowsInteractive bool

	ShowErrorBanner bool

	Rows []RepositoryRow
}

// RepositoryRow is one rendered result line.
type RepositoryRow struct {
	ID       int64
	Title    string
	FullName string

	// Description is NoDescription when the repository has none.
	Description string

	// DescriptionIsPlaceholder marks Description as the NoDescription filler,
	// which renderers show in a muted or italic style.
	DescriptionIsPlaceholder bool

	URL string
}

// Navigation is the one-shot signal to open the results screen for a query.
type Navigation struct {
	Query string
}
