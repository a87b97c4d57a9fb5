// Package github implements the repository search client on top of the
// GitHub REST API.
//
// The package provides [Client], which implements [driven.SearchClient] by
// calling the search/repositories endpoint through go-github. Every call to
// Fetch performs exactly one HTTP request for one page of results.
//
// # Authentication
//
// Search works without credentials at a low rate limit. When a token is
// configured it is sent as a bearer token through an oauth2 static token
// source, which raises the limit.
//
// # Rate Limiting
//
// The client implements a dual-strategy rate limiting approach:
//
//  1. Proactive throttling: a token bucket limits requests to the configured
//     requests-per-second. The default of 0.5 keeps an unauthenticated client
//     under the search limit of 30 requests per minute.
//
//  2. Reactive handling: the client monitors X-RateLimit-Remaining and
//     X-RateLimit-Reset headers. When the remaining quota drops below the
//     reserve, it waits until the reset time before sending the next request.
//
// A response that is rate limited anyway is reported like any other non-200
// response. Nothing is retried here; the caller decides.
//
// # Error Handling
//
// Failures are classified into [domain.FetchError] kinds:
//
//   - HTTP status: any response other than 200, including 403 and 429
//   - Decode: a 200 response whose body is empty, not JSON, or missing
//     required fields
//   - Transport: DNS failures, timeouts and dropped connections
//
// A cancelled context is returned as the context error itself.
//
// # Example Usage
//
//	client, err := github.NewClient(domain.DefaultSearchConfig())
//	if err != nil {
//	    return err
//	}
//
//	page, err := client.Fetch(ctx, "tokio", 50, 1)
//	if domain.IsFetchKind(err, domain.FetchHTTPStatus) {
//	    // inspect domain.StatusCode(err)
//	}
package github
