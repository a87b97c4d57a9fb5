package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/reposearch-cli/internal/logger"
)

// Verify interface compliance.
var _ driven.SearchClient = (*Client)(nil)

// Client searches repositories through the GitHub REST API.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a search client for the endpoint, token and limits in cfg.
func NewClient(cfg domain.SearchConfig) (*Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.Authenticated() {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = cfg.Timeout
	}
	return NewClientWithHTTPClient(httpClient, cfg)
}

// NewClientWithHTTPClient creates a search client that sends requests through
// httpClient. The token in cfg is ignored; httpClient is expected to carry
// any credentials.
func NewClientWithHTTPClient(httpClient *http.Client, cfg domain.SearchConfig) (*Client, error) {
	client := gh.NewClient(httpClient)

	if cfg.BaseURL != "" {
		baseURL, err := parseBaseURL(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = baseURL
	}

	return &Client{
		gh:          client,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
	}, nil
}

// parseBaseURL ensures the API root ends with a slash, as go-github requires.
func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: base URL %q: %v", domain.ErrInvalidConfig, raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q", domain.ErrInvalidConfig, raw)
	}
	return u, nil
}

// Fetch requests one page of repositories matching query.
func (c *Client) Fetch(ctx context.Context, query string, pageSize, page int) (*domain.Page, error) {
	if strings.TrimSpace(query) == "" || pageSize <= 0 || page < 1 {
		return nil, fmt.Errorf("%w: query=%q per_page=%d page=%d",
			domain.ErrInvalidInput, query, pageSize, page)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, domain.NewTransportError(fmt.Errorf("rate limit wait: %w", err))
	}

	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{Page: page, PerPage: pageSize},
	}

	logger.Debug("github: search q=%q page=%d per_page=%d", query, page, pageSize)
	result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, classifyError(ctx, resp, err)
	}

	if resp != nil && resp.StatusCode != http.StatusOK {
		return nil, domain.NewHTTPStatusError(resp.StatusCode, nil)
	}

	if err := validateResult(result); err != nil {
		return nil, domain.NewDecodeError(err)
	}

	repos := make([]domain.Repository, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		repos = append(repos, toRepository(repo))
	}

	return &domain.Page{
		Number:            page,
		Repositories:      repos,
		TotalCount:        result.GetTotal(),
		IncompleteResults: result.GetIncompleteResults(),
	}, nil
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
	logger.Debug("github: rate limit %d/%d, resets %s",
		c.rateLimiter.Remaining(), c.rateLimiter.Limit(), c.rateLimiter.ResetTime().Format(time.RFC3339))
}
