package services

import (
	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
)

// QueryEditor holds the state of the search box and turns a submit into a
// navigation to the results screen.
type QueryEditor struct {
	text       string
	showCancel bool
	focused    bool
}

// NewQueryEditor creates an empty, unfocused editor.
func NewQueryEditor() *QueryEditor {
	return &QueryEditor{}
}

// BeginEditing shows the cancel affordance.
func (e *QueryEditor) BeginEditing() {
	e.showCancel = true
	e.focused = true
}

// CancelClicked hides the cancel affordance and gives up focus.
func (e *QueryEditor) CancelClicked() {
	e.showCancel = false
	e.focused = false
}

// TextChanged records the latest text.
func (e *QueryEditor) TextChanged(text string) {
	e.text = text
}

// Submit returns a navigation for the trimmed text. The second result is
// false when the text is blank.
func (e *QueryEditor) Submit() (domain.Navigation, bool) {
	q, err := domain.NormalizeQuery(e.text)
	if err != nil {
		return domain.Navigation{}, false
	}
	return domain.Navigation{Query: q}, true
}

// Text returns the latest text.
func (e *QueryEditor) Text() string {
	return e.text
}

// ShowsCancel reports whether the cancel affordance is visible.
func (e *QueryEditor) ShowsCancel() bool {
	return e.showCancel
}

// Focused reports whether the editor holds focus.
func (e *QueryEditor) Focused() bool {
	return e.focused
}
