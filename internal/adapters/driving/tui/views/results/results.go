// Package results provides the paged results view for the TUI.
package results

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/reposearch-cli/internal/core/services"
)

const errorBanner = "Couldn't load repositories. Press r to retry."

// View shows the repositories of one search session.
//
// It owns the session: SetSession routes the view-appeared event, key
// presses become pull-to-refresh and scrolled-to-bottom events, and every
// published state is rendered through services.Present.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.ResultList
	statusbar *status.Bar
	spinner   spinner.Model

	session     driving.SearchSession
	router      *services.Router
	updates     <-chan domain.AggregateState
	unsubscribe func()
	vm          domain.ViewModel
	spinning    bool

	width  int
	height int
	ready  bool
}

// NewView creates an empty results view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewResultList(s),
		statusbar: status.NewBar(s, km),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(s.Spinner),
		),
		width:  80,
		height: 24,
	}
}

// SetSession replaces the current session, closing the previous one, and
// starts loading. The returned command listens for published states.
func (v *View) SetSession(session driving.SearchSession) tea.Cmd {
	v.Close()

	v.session = session
	v.router = services.NewRouter(session)
	v.updates, v.unsubscribe = session.Subscribe()
	v.list.SetRows(nil)
	v.apply(session.Snapshot())

	v.router.ViewAppeared()

	return tea.Batch(
		messages.WaitForState(session.ID(), v.updates),
		v.startSpinner(),
	)
}

// Close releases the current session, if any.
func (v *View) Close() {
	if v.session == nil {
		return
	}
	v.unsubscribe()
	v.session.Close()
	v.session = nil
	v.router = nil
	v.updates = nil
	v.unsubscribe = nil
	v.vm = domain.ViewModel{}
	v.spinning = false
	v.statusbar.Clear()
}

// Update handles messages for the results view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.StateUpdated:
		if v.session == nil || msg.SessionID != v.session.ID() {
			// A superseded session; stop listening to it.
			return v, nil
		}
		v.apply(msg.State)
		return v, tea.Batch(
			messages.WaitForState(msg.SessionID, v.updates),
			v.startSpinner(),
		)

	case messages.SubscriptionClosed:
		return v, nil

	case spinner.TickMsg:
		if !v.busy() {
			v.spinning = false
			v.statusbar.SetSpinner("")
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.statusbar.SetSpinner(v.spinner.View())
		return v, cmd

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Back), keymap.Matches(key, v.keymap.NewSearch):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}

	case keymap.Matches(key, v.keymap.Quit):
		// The app closes the open session before exiting.
		return v, func() tea.Msg { return messages.Quit{} }
	}

	if v.router == nil {
		return v, nil
	}

	switch {
	case keymap.Matches(key, v.keymap.Refresh):
		v.router.PullToRefresh()
	case keymap.Matches(key, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(key, v.keymap.Down):
		if v.list.MoveDown() {
			v.router.ScrolledToBottom()
		}
	case keymap.Matches(key, v.keymap.Bottom):
		if v.list.MoveToBottom() {
			v.router.ScrolledToBottom()
		}
	}
	return v, nil
}

// apply renders state into the list and status bar.
func (v *View) apply(state domain.AggregateState) {
	v.vm = services.Present(state)

	v.list.SetRows(v.vm.Rows)
	v.list.SetInteractive(v.vm.RowsInteractive)
	v.statusbar.SetResultCount(len(v.vm.Rows))
	v.statusbar.SetMessage("")

	switch {
	case v.vm.ShowInitialSpinner:
		v.statusbar.SetState(status.StateLoading)
	case v.vm.IsRefreshingIndicator:
		v.statusbar.SetState(status.StateRefreshing)
	case v.vm.IsLoadingMoreIndicator:
		v.statusbar.SetState(status.StateLoadingMore)
	case v.vm.ShowErrorBanner:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("request failed")
	default:
		v.statusbar.SetState(status.StateResults)
	}
}

func (v *View) busy() bool {
	return v.vm.ShowInitialSpinner || v.vm.IsRefreshingIndicator || v.vm.IsLoadingMoreIndicator
}

// startSpinner starts ticking when the view is busy and not already ticking.
func (v *View) startSpinner() tea.Cmd {
	if v.spinning || !v.busy() {
		return nil
	}
	v.spinning = true
	return v.spinner.Tick
}

// View renders the results view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	// Header
	header := v.styles.Title.Render("reposearch") + v.styles.Muted.Render("  "+v.vm.Title)
	sections = append(sections, header, "")

	if v.vm.ShowErrorBanner {
		sections = append(sections, v.styles.Error.Render(errorBanner), "")
	}

	if v.vm.ShowInitialSpinner {
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Loading repositories..."))
	} else {
		sections = append(sections, v.list.View())
	}

	if v.vm.IsLoadingMoreIndicator {
		sections = append(sections, "", v.spinner.View()+" "+v.styles.Muted.Render("Loading more..."))
	}

	// Status bar at bottom
	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Reserve space for header, banner, footer and status
	v.list.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Session returns the current session, or nil.
func (v *View) Session() driving.SearchSession {
	return v.session
}

// ViewModel returns the last rendered view model.
func (v *View) ViewModel() domain.ViewModel {
	return v.vm
}

// SelectedIndex returns the index of the selected row.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}
