package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
)

// LoadPages drives session through its first page and up to pages-1 further
// pages, exactly as a user scrolling to the bottom would. It stops early when
// a page brings no new repositories.
//
// The returned state is the last one observed. When the session ends up in
// its error state the error wraps domain.ErrFetchFailed.
func LoadPages(ctx context.Context, session driving.SearchSession, pages int) (domain.AggregateState, error) {
	if pages < 1 {
		pages = 1
	}

	updates, unsubscribe := session.Subscribe()
	defer unsubscribe()

	session.Start()
	state, err := waitForState(ctx, updates, func(s domain.AggregateState) bool {
		return s.Loaded && !s.IsRefreshing
	})
	if err != nil {
		return state, err
	}
	if state.HasError {
		return state, fmt.Errorf("page 1: %w", domain.ErrFetchFailed)
	}

	for target := 2; target <= pages; target++ {
		before := len(state.Items)

		session.ReachedBottom()
		state, err = waitForState(ctx, updates, func(s domain.AggregateState) bool {
			return s.CurrentPage >= target && !s.IsLoadingNextPage
		})
		if err != nil {
			return state, err
		}
		if state.HasError {
			return state, fmt.Errorf("page %d: %w", target, domain.ErrFetchFailed)
		}
		if len(state.Items) == before {
			break
		}
	}

	return state, nil
}

// waitForState reads updates until done reports true.
func waitForState(
	ctx context.Context,
	updates <-chan domain.AggregateState,
	done func(domain.AggregateState) bool,
) (domain.AggregateState, error) {
	var last domain.AggregateState
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case state, ok := <-updates:
			if !ok {
				return last, domain.ErrSessionClosed
			}
			last = state
			if done(state) {
				return state, nil
			}
		}
	}
}
