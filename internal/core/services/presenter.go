package services

import (
	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
)

// Present maps a session state to what the results screen shows.
// It has no side effects and returns equal view models for equal states.
func Present(state domain.AggregateState) domain.ViewModel {
	rows := make([]domain.RepositoryRow, len(state.Items))
	for i, repo := range state.Items {
		rows[i] = presentRow(repo)
	}

	return domain.ViewModel{
		Title:                  state.Query,
		ShowInitialSpinner:     !state.Loaded,
		IsRefreshingIndicator:  state.IsRefreshing,
		IsLoadingMoreIndicator: state.IsLoadingNextPage,
		RowsInteractive:        !state.IsRefreshing,
		ShowErrorBanner:        state.HasError,
		Rows:                   rows,
	}
}

func presentRow(repo domain.Repository) domain.RepositoryRow {
	return domain.RepositoryRow{
		ID:                       repo.ID,
		Title:                    repo.Name,
		FullName:                 repo.FullName,
		Description:              repo.DescriptionOr(domain.NoDescription),
		DescriptionIsPlaceholder: !repo.HasDescription(),
		URL:                      repo.HTMLURL,
	}
}
