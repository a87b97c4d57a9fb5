package domain

import "strings"

// NoDescription is shown in place of a missing repository description.
const NoDescription = "(No description)"

// Owner is the account that owns a repository.
type Owner struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// Repository is a single repository returned by the search API.
// Values are treated as immutable once decoded.
type Repository struct {
	// ID is the unique key used for de-duplication.
	ID int64 `json:"id"`

	// Name is the short repository name (e.g. "tokio").
	Name string `json:"name"`

	// FullName is owner/name (e.g. "tokio-rs/tokio").
	FullName string `json:"full_name"`

	Owner Owner `json:"owner"`

	// HTMLURL is the browser URL of the repository.
	HTMLURL string `json:"html_url"`

	// Description is nil when the repository has none.
	Description *string `json:"description,omitempty"`
}

// HasDescription reports whether the repository carries a description.
func (r Repository) HasDescription() bool {
	return r.Description != nil
}

// DescriptionOr returns the description, or fallback when there is none.
func (r Repository) DescriptionOr(fallback string) string {
	if r.Description == nil {
		return fallback
	}
	return *r.Description
}

// Page is one fetched batch of repositories plus the page number that produced it.
type Page struct {
	// Number is the 1-based page number requested.
	Number int

	// Repositories are in the order returned by the API.
	Repositories []Repository

	// TotalCount is the total number of matches reported by the API.
	TotalCount int

	// IncompleteResults is set when the API timed out while searching.
	IncompleteResults bool
}

// NormalizeQuery trims surrounding whitespace from a query.
// It returns ErrEmptyQuery when nothing is left.
func NormalizeQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return q, nil
}
