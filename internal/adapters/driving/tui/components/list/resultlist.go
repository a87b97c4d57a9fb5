// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reposearch-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
)

// linesPerRow is the rendered height of one repository (name, description, URL).
const linesPerRow = 3

// ResultList displays repository rows in a navigable list.
type ResultList struct {
	rows        []domain.RepositoryRow
	selected    int
	interactive bool
	styles      *styles.Styles
	width       int
	height      int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		rows:        nil,
		selected:    0,
		interactive: true,
		styles:      s,
		width:       80,
		height:      10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.rows) == 0 {
		return r.styles.Muted.Render("No repositories")
	}

	lines := make([]string, 0, len(r.rows)+2)

	// Header
	header := r.styles.Subtitle.Render(fmt.Sprintf("Repositories (%d)", len(r.rows)))
	lines = append(lines, header, "")

	start, end := r.visibleRange()
	for i := start; i < end; i++ {
		lines = append(lines, r.renderRow(i, &r.rows[i]))
	}

	return strings.Join(lines, "\n")
}

// visibleRange returns the window of rows that fits the height and keeps the
// selection on screen.
func (r *ResultList) visibleRange() (start, end int) {
	visibleCount := max((r.height-2)/linesPerRow, 1)

	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end = min(start+visibleCount, len(r.rows))
	return start, end
}

// renderRow formats a single repository.
func (r *ResultList) renderRow(index int, row *domain.RepositoryRow) string {
	// Indicator for selected item
	indicator := "  "
	selected := index == r.selected && r.interactive
	if selected {
		indicator = "> "
	}

	name := truncate(row.FullName, max(r.width-4, 10))
	var nameLine string
	switch {
	case selected:
		nameLine = r.styles.Selected.Render(indicator + name)
	case !r.interactive:
		nameLine = r.styles.Muted.Render(indicator + name)
	default:
		nameLine = r.styles.Normal.Render(indicator + name)
	}

	description := truncate(row.Description, max(r.width-6, 20))
	descStyle := r.styles.Muted
	if row.DescriptionIsPlaceholder {
		descStyle = r.styles.Placeholder
	}
	descLine := descStyle.Render("    " + description)

	urlLine := r.styles.Link.Render("    " + row.URL)

	return nameLine + "\n" + descLine + "\n" + urlLine
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// SetRows replaces the rows. The selection is kept where possible.
func (r *ResultList) SetRows(rows []domain.RepositoryRow) {
	r.rows = rows
	if r.selected >= len(rows) {
		r.selected = max(len(rows)-1, 0)
	}
}

// Rows returns the current rows.
func (r *ResultList) Rows() []domain.RepositoryRow {
	return r.rows
}

// SetInteractive enables or disables navigation. A non-interactive list
// renders without a selection and ignores moves.
func (r *ResultList) SetInteractive(interactive bool) {
	r.interactive = interactive
}

// Interactive reports whether navigation is enabled.
func (r *ResultList) Interactive() bool {
	return r.interactive
}

// Selected returns the index of the selected row.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.rows) {
		r.selected = index
	}
}

// SelectedRow returns the currently selected row, or nil if none.
func (r *ResultList) SelectedRow() *domain.RepositoryRow {
	if len(r.rows) == 0 || r.selected < 0 || r.selected >= len(r.rows) {
		return nil
	}
	return &r.rows[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.interactive && r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down and reports whether the last row is now
// selected.
func (r *ResultList) MoveDown() bool {
	if !r.interactive {
		return false
	}
	if r.selected < len(r.rows)-1 {
		r.selected++
	}
	return r.AtBottom()
}

// MoveToBottom selects the last row and reports whether there is one.
func (r *ResultList) MoveToBottom() bool {
	if !r.interactive || len(r.rows) == 0 {
		return false
	}
	r.selected = len(r.rows) - 1
	return true
}

// AtBottom reports whether the last row is selected.
func (r *ResultList) AtBottom() bool {
	return len(r.rows) > 0 && r.selected == len(r.rows)-1
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of rows.
func (r *ResultList) Count() int {
	return len(r.rows)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.rows) == 0
}
