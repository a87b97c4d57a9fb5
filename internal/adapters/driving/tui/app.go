package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/views/results"
	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/reposearch-cli/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx bounds every session the app opens.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the key bindings shared by all views.
	keymap *keymap.KeyMap

	// searchView is the query entry screen.
	searchView *search.View

	// resultsView shows the results of the active session.
	resultsView *results.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help is dismissed.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		searchView:  search.NewView(s, km),
		resultsView: results.NewView(s, km),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("reposearch"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.SearchSubmitted:
		return a, a.openSession(msg.Query)

	case messages.SessionOpened:
		if msg.Err != nil {
			a.err = msg.Err
			a.searchView, cmd = a.searchView.Update(messages.ErrorOccurred{Err: msg.Err})
			return a, cmd
		}
		a.err = nil
		a.currentView = messages.ViewResults
		return a, a.resultsView.SetSession(msg.Session)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.StateUpdated, messages.SubscriptionClosed, spinner.TickMsg:
		// Session traffic goes to the results view even while help is open.
		a.resultsView, cmd = a.resultsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		logger.Warn("tui: %v", msg.Err)
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		a.Close()
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewResults:
		a.resultsView, cmd = a.resultsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// handleKeyMsg applies global bindings before forwarding to the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	key := msg.String()

	// Global quit with ctrl+c
	if key == "ctrl+c" {
		a.Close()
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewHelp:
		if keymap.Matches(key, a.keymap.Back) || keymap.Matches(key, a.keymap.Help) {
			a.currentView = a.previousView
		}
		return a, nil

	case messages.ViewResults:
		if keymap.Matches(key, a.keymap.Help) {
			a.previousView = a.currentView
			a.currentView = messages.ViewHelp
			return a, nil
		}
		a.resultsView, cmd = a.resultsView.Update(msg)
		return a, cmd

	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd
	}
	return a, nil
}

// openSession opens a session for query off the update loop.
func (a *App) openSession(query string) tea.Cmd {
	ctx := a.ctx
	svc := a.ports.Search
	return func() tea.Msg {
		session, err := svc.Open(ctx, query)
		return messages.SessionOpened{Session: session, Err: err}
	}
}

// switchTo activates view, releasing the session when leaving results.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	switch view {
	case messages.ViewSearch:
		a.resultsView.Close()
		a.currentView = messages.ViewSearch
		return a.searchView.Init()
	case messages.ViewHelp:
		if a.currentView != messages.ViewHelp {
			a.previousView = a.currentView
		}
		a.currentView = messages.ViewHelp
	case messages.ViewResults:
		if a.resultsView.Session() != nil {
			a.currentView = messages.ViewResults
		}
	}
	return nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewResults:
		return a.resultsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.searchView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	sections := []string{a.styles.Title.Render("Help"), ""}

	for _, group := range a.keymap.FullHelp() {
		for _, b := range group {
			h := b.Help()
			line := a.styles.Selected.Render(fmt.Sprintf("  %-10s", h.Key)) +
				a.styles.Help.Render(h.Desc)
			sections = append(sections, line)
		}
		sections = append(sections, "")
	}
	sections = append(sections, a.styles.Muted.Render("[esc] back"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Close releases the active session, if any.
func (a *App) Close() {
	a.resultsView.Close()
}

// Query returns the text currently in the search field.
func (a *App) Query() string {
	return a.searchView.Query()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.resultsView.SetDimensions(width, height)
}
