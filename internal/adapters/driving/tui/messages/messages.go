// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
)

// SearchSubmitted is the navigation signal from the search view: open the
// results view for Query.
type SearchSubmitted struct {
	Query string
}

// SessionOpened carries a freshly opened, not yet started, search session.
type SessionOpened struct {
	Session driving.SearchSession
	Err     error
}

// StateUpdated carries a new state published by a search session.
type StateUpdated struct {
	SessionID string
	State     domain.AggregateState
}

// SubscriptionClosed signals that a session stopped publishing states.
type SubscriptionClosed struct {
	SessionID string
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the query input view.
	ViewSearch ViewType = iota
	// ViewResults shows the paged results of one session.
	ViewResults
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewResults:
		return "results"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit asks the app to close its session and exit. Views send it instead of
// tea.Quit so nothing is left fetching in the background.
type Quit struct{}

// WaitForState returns a command that blocks for the next state on updates.
// The receiver re-issues it after every StateUpdated to keep listening.
func WaitForState(sessionID string, updates <-chan domain.AggregateState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return SubscriptionClosed{SessionID: sessionID}
		}
		return StateUpdated{SessionID: sessionID, State: state}
	}
}
