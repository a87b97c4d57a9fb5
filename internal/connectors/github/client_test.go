package github

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/logger"
)

const twoRepos = `{
  "total_count": 2,
  "incomplete_results": false,
  "items": [
    {"id": 1, "name": "tokio", "full_name": "tokio-rs/tokio",
     "owner": {"login": "tokio-rs", "id": 10}, "html_url": "https://github.com/tokio-rs/tokio",
     "description": "A runtime"},
    {"id": 2, "name": "mio", "full_name": "tokio-rs/mio",
     "owner": {"login": "tokio-rs", "id": 10}, "html_url": "https://github.com/tokio-rs/mio",
     "description": null}
  ]
}`

// newTestClient starts a server with handler and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := domain.DefaultSearchConfig()
	cfg.BaseURL = server.URL
	cfg.RequestsPerSecond = 1000
	cfg.Timeout = 5 * time.Second

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client, server
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestNewClient(t *testing.T) {
	t.Run("defaults to the public API", func(t *testing.T) {
		client, err := NewClient(domain.DefaultSearchConfig())
		require.NoError(t, err)
		assert.Equal(t, "https://api.github.com/", client.gh.BaseURL.String())
	})

	t.Run("adds trailing slash to base URL", func(t *testing.T) {
		cfg := domain.DefaultSearchConfig()
		cfg.BaseURL = "https://ghe.example.com/api/v3"
		client, err := NewClient(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://ghe.example.com/api/v3/", client.gh.BaseURL.String())
	})

	t.Run("rejects base URL without host", func(t *testing.T) {
		cfg := domain.DefaultSearchConfig()
		cfg.BaseURL = "not a url"
		_, err := NewClient(cfg)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

func TestClient_Fetch_Success(t *testing.T) {
	var gotQuery, gotPage, gotPerPage, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotPage = r.URL.Query().Get("page")
		gotPerPage = r.URL.Query().Get("per_page")
		respond(http.StatusOK, twoRepos)(w, r)
	})

	page, err := client.Fetch(context.Background(), "tokio", 50, 3)
	require.NoError(t, err)

	assert.Equal(t, "/search/repositories", gotPath)
	assert.Equal(t, "tokio", gotQuery)
	assert.Equal(t, "3", gotPage)
	assert.Equal(t, "50", gotPerPage)

	assert.Equal(t, 3, page.Number)
	assert.Equal(t, 2, page.TotalCount)
	assert.False(t, page.IncompleteResults)
	require.Len(t, page.Repositories, 2)

	first := page.Repositories[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "tokio", first.Name)
	assert.Equal(t, "tokio-rs/tokio", first.FullName)
	assert.Equal(t, domain.Owner{Login: "tokio-rs", ID: 10}, first.Owner)
	assert.Equal(t, "https://github.com/tokio-rs/tokio", first.HTMLURL)
	assert.Equal(t, "A runtime", first.DescriptionOr(""))

	assert.False(t, page.Repositories[1].HasDescription())
}

func TestClient_Fetch_SendsToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		respond(http.StatusOK, twoRepos)(w, r)
	}))
	defer server.Close()

	cfg := domain.DefaultSearchConfig()
	cfg.BaseURL = server.URL
	cfg.Token = "ghp_secret"
	cfg.RequestsPerSecond = 1000
	client, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "tokio", 10, 1)
	require.NoError(t, err)
	assert.Equal(t, "Bearer ghp_secret", auth)
}

func TestClient_Fetch_EmptyItems(t *testing.T) {
	client, _ := newTestClient(t, respond(http.StatusOK,
		`{"total_count": 0, "incomplete_results": false, "items": []}`))

	page, err := client.Fetch(context.Background(), "nothing-matches", 50, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Repositories)
}

func TestClient_Fetch_HTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"message": "boom"}`},
		{"validation failed", http.StatusUnprocessableEntity, `{"message": "Validation Failed"}`},
		{"rate limited", http.StatusTooManyRequests, `{"message": "slow down"}`},
		{"forbidden", http.StatusForbidden, `{"message": "nope"}`},
		{"not found with empty body", http.StatusNotFound, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, respond(tt.status, tt.body))

			_, err := client.Fetch(context.Background(), "tokio", 50, 1)
			require.Error(t, err)
			assert.True(t, domain.IsFetchKind(err, domain.FetchHTTPStatus), "got %v", err)
			assert.Equal(t, tt.status, domain.StatusCode(err))
		})
	}
}

func TestClient_Fetch_Decode(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"not json", `<html>hello</html>`},
		{"wrong shape", `{"items": "nope"}`},
		{"missing total_count", `{"incomplete_results": false, "items": []}`},
		{"missing items", `{"total_count": 0, "incomplete_results": false}`},
		{"item missing id", `{"total_count": 1, "incomplete_results": false, "items": [
			{"name": "x", "full_name": "o/x", "owner": {"login": "o", "id": 1}, "html_url": "u"}]}`},
		{"item missing owner", `{"total_count": 1, "incomplete_results": false, "items": [
			{"id": 1, "name": "x", "full_name": "o/x", "html_url": "u"}]}`},
		{"item missing html_url", `{"total_count": 1, "incomplete_results": false, "items": [
			{"id": 1, "name": "x", "full_name": "o/x", "owner": {"login": "o", "id": 1}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, respond(http.StatusOK, tt.body))

			_, err := client.Fetch(context.Background(), "tokio", 50, 1)
			require.Error(t, err)
			assert.True(t, domain.IsFetchKind(err, domain.FetchDecode), "got %v", err)
		})
	}
}

func TestClient_Fetch_Transport(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	cfg := domain.DefaultSearchConfig()
	cfg.BaseURL = url
	cfg.RequestsPerSecond = 1000
	client, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "tokio", 50, 1)
	require.Error(t, err)
	assert.True(t, domain.IsFetchKind(err, domain.FetchTransport), "got %v", err)
}

func TestClient_Fetch_Cancelled(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := client.Fetch(ctx, "tokio", 50, 1)
		errCh <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
		var fe *domain.FetchError
		assert.False(t, errors.As(err, &fe))
	case <-time.After(5 * time.Second):
		t.Fatal("fetch did not return after cancellation")
	}
}

func TestClient_Fetch_InvalidInput(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respond(http.StatusOK, twoRepos)(w, r)
	})

	tests := []struct {
		name     string
		query    string
		pageSize int
		page     int
	}{
		{"blank query", "   ", 50, 1},
		{"zero page size", "tokio", 0, 1},
		{"page zero", "tokio", 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Fetch(context.Background(), tt.query, tt.pageSize, tt.page)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Zero(t, calls.Load())
}

func TestClient_Fetch_TracksRateLimitHeaders(t *testing.T) {
	reset := time.Now().Add(-time.Minute).Unix()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderRateLimit, "30")
		w.Header().Set(HeaderRateRemaining, "27")
		w.Header().Set(HeaderRateReset, strconv.FormatInt(reset, 10))
		respond(http.StatusOK, twoRepos)(w, r)
	})

	_, err := client.Fetch(context.Background(), "tokio", 50, 1)
	require.NoError(t, err)

	assert.Equal(t, 30, client.rateLimiter.Limit())
	assert.Equal(t, 27, client.rateLimiter.Remaining())
	assert.Equal(t, reset, client.rateLimiter.ResetTime().Unix())
}

func TestClient_Fetch_LogsRateLimit(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderRateLimit, "30")
		w.Header().Set(HeaderRateRemaining, "12")
		respond(http.StatusOK, twoRepos)(w, r)
	})

	_, err := client.Fetch(context.Background(), "tokio", 50, 1)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "rate limit 12/30")
}
