// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady       State = "ready"
	StateLoading     State = "loading"
	StateRefreshing  State = "refreshing"
	StateLoadingMore State = "loading_more"
	StateError       State = "error"
	StateHelp        State = "help"
	StateResults     State = "results"
)

// Busy reports whether the state shows a spinner.
func (s State) Busy() bool {
	return s == StateLoading || s == StateRefreshing || s == StateLoadingMore
}

// Bar displays application status and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	message     string
	resultCount int
	spinner     string
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is mostly passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	// Left side: state/message
	left := s.renderLeft()

	// Right side: keybinding hints
	right := s.renderRight()

	// Calculate padding inside the bar's own horizontal padding
	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	if leftLen+1+rightLen > inner {
		// Hints are dropped first on narrow terminals
		right = ""
		rightLen = 0
	}
	padding := max(inner-leftLen-rightLen, 1)

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the left side of the status bar.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		return s.withSpinner("Searching...")
	case StateRefreshing:
		return s.withSpinner("Refreshing...")
	case StateLoadingMore:
		return s.withSpinner(fmt.Sprintf("%d results, loading more...", s.resultCount))
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateReady, StateResults:
		if s.resultCount > 0 {
			return s.styles.Normal.Render(fmt.Sprintf("%d results", s.resultCount))
		}
		if s.state == StateResults {
			return s.styles.Muted.Render("No results")
		}
		return s.styles.Muted.Render("Ready")
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) withSpinner(text string) string {
	if s.spinner == "" {
		return s.styles.Muted.Render(text)
	}
	return s.styles.Spinner.Render(s.spinner) + " " + s.styles.Muted.Render(text)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding

	// Show different hints based on state
	if s.state == StateReady || s.state == StateHelp {
		bindings = s.keymap.ShortHelp()
	} else {
		bindings = s.keymap.ResultsHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCount sets the result count.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetSpinner sets the spinner frame shown next to busy states.
func (s *Bar) SetSpinner(frame string) {
	s.spinner = frame
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
	s.spinner = ""
}
