package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
)

// ErrMissingField indicates a 200 response lacked a required field.
var ErrMissingField = errors.New("github: missing required field")

// classifyError converts a go-github failure into a domain.FetchError.
// Context cancellation is passed through untouched.
func classifyError(ctx context.Context, resp *gh.Response, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return domain.NewHTTPStatusError(ghErr.Response.StatusCode, err)
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return domain.NewHTTPStatusError(statusOr(rateLimitErr.Response, http.StatusForbidden), err)
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return domain.NewHTTPStatusError(statusOr(abuseErr.Response, http.StatusForbidden), err)
	}

	var acceptedErr *gh.AcceptedError
	if errors.As(err, &acceptedErr) {
		return domain.NewHTTPStatusError(http.StatusAccepted, err)
	}

	if resp != nil && resp.Response != nil {
		// The request made it through, so the body is what failed.
		if resp.StatusCode == http.StatusOK {
			return domain.NewDecodeError(err)
		}
		return domain.NewHTTPStatusError(resp.StatusCode, err)
	}

	return domain.NewTransportError(err)
}

func statusOr(resp *http.Response, fallback int) int {
	if resp == nil {
		return fallback
	}
	return resp.StatusCode
}

// validateResult checks that a decoded body carries every required field.
func validateResult(result *gh.RepositoriesSearchResult) error {
	if result == nil {
		return fmt.Errorf("%w: empty body", ErrMissingField)
	}
	if result.Total == nil {
		return fmt.Errorf("%w: total_count", ErrMissingField)
	}
	if result.IncompleteResults == nil {
		return fmt.Errorf("%w: incomplete_results", ErrMissingField)
	}
	if result.Repositories == nil {
		return fmt.Errorf("%w: items", ErrMissingField)
	}

	for i, repo := range result.Repositories {
		if err := validateRepository(repo); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

func validateRepository(repo *gh.Repository) error {
	switch {
	case repo == nil:
		return fmt.Errorf("%w: item is null", ErrMissingField)
	case repo.ID == nil:
		return fmt.Errorf("%w: id", ErrMissingField)
	case repo.Name == nil:
		return fmt.Errorf("%w: name", ErrMissingField)
	case repo.FullName == nil:
		return fmt.Errorf("%w: full_name", ErrMissingField)
	case repo.Owner == nil:
		return fmt.Errorf("%w: owner", ErrMissingField)
	case repo.Owner.Login == nil:
		return fmt.Errorf("%w: owner.login", ErrMissingField)
	case repo.Owner.ID == nil:
		return fmt.Errorf("%w: owner.id", ErrMissingField)
	case repo.HTMLURL == nil:
		return fmt.Errorf("%w: html_url", ErrMissingField)
	}
	return nil
}

// toRepository maps a validated go-github repository into the domain type.
func toRepository(repo *gh.Repository) domain.Repository {
	return domain.Repository{
		ID:       repo.GetID(),
		Name:     repo.GetName(),
		FullName: repo.GetFullName(),
		Owner: domain.Owner{
			Login: repo.GetOwner().GetLogin(),
			ID:    repo.GetOwner().GetID(),
		},
		HTMLURL:     repo.GetHTMLURL(),
		Description: repo.Description,
	}
}
