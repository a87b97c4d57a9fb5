// Package search provides the query input view for the TUI.
package search

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reposearch-cli/internal/core/services"
)

const cancelHint = "esc: cancel"

// View is the search screen: a query input whose submit navigates to results.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	statusbar *status.Bar
	editor    *services.QueryEditor

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	in := input.NewSearchInput(s)
	in.Blur()

	return &View{
		styles:    s,
		keymap:    km,
		input:     in,
		statusbar: status.NewBar(s, km),
		editor:    services.NewQueryEditor(),
		width:     80,
		height:    24,
	}
}

// Init focuses the input and starts editing.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.beginEditing(), v.input.Init())
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		if msg.Err != nil {
			v.statusbar.SetMessage(msg.Err.Error())
		}
		return v, nil
	}

	// Forward to input component (cursor blink)
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Enter submits; a blank query stays on this screen.
	if msg.Type == tea.KeyEnter {
		nav, ok := v.editor.Submit()
		if !ok {
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.SearchSubmitted{Query: nav.Query}
		}
	}

	if !v.editor.Focused() {
		switch msg.String() {
		case "q":
			return v, quit
		case "/", "i":
			return v, v.beginEditing()
		}
		return v, nil
	}

	if msg.Type == tea.KeyEsc {
		v.editor.CancelClicked()
		v.input.Blur()
		v.input.SetHint("")
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.editor.TextChanged(v.input.Value())
	v.clearError()
	return v, cmd
}

func (v *View) beginEditing() tea.Cmd {
	v.editor.BeginEditing()
	v.input.SetHint(cancelHint)
	return v.input.Focus()
}

func (v *View) clearError() {
	if v.err == nil {
		return
	}
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	// Header
	header := v.styles.Title.Render("reposearch")
	sub := v.styles.Muted.Render("Search GitHub repositories")
	sections = append(sections, header, sub, "")

	// Search input
	sections = append(sections, v.input.View(), "")

	// Error display
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if !v.editor.Focused() {
		sections = append(sections, v.styles.Help.Render("/ to edit, q to quit"), "")
	}

	// Status bar at bottom
	sections = append(sections, v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width - len(cancelHint) - 2)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current text of the input.
func (v *View) Query() string {
	return v.editor.Text()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
	v.editor.TextChanged(query)
}

// Editing reports whether the input holds focus.
func (v *View) Editing() bool {
	return v.editor.Focused()
}

// ShowsCancel reports whether the cancel affordance is visible.
func (v *View) ShowsCancel() bool {
	return v.editor.ShowsCancel()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

func quit() tea.Msg {
	return messages.Quit{}
}
