// Package github implements the GitHubClient port against the GitHub
// GraphQL and REST APIs.
package github

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/prpanel/internal/domain/model"
	"github.com/ericfisherdev/prpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port. PR data comes from a
// single GraphQL query; the notification count comes from the REST
// notifications endpoint with Last-Modified conditional fetching.
//
// lastModified is the conditional-fetch cache token. It must survive
// across poll cycles, because "not modified" is only meaningful relative
// to the last successful poll, not the last attempt. The scheduler owns a
// single Client instance and calls it from one goroutine, so the field
// needs no locking.
type Client struct {
	gh         *gh.Client
	httpClient *http.Client // GraphQL POSTs; go-github handles REST.
	graphqlURL string

	lastModified string
}

// NewClient creates a GitHub API client. The REST transport is wrapped
// with go-github-ratelimit middleware (sleeps on secondary rate limits).
// The access token is supplied per call, not at construction, so the
// scheduler can re-resolve it from the secret store on every cycle.
func NewClient() *Client {
	rateLimited := github_ratelimit.NewClient(nil)

	return &Client{
		gh:         gh.NewClient(rateLimited),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		graphqlURL: "https://api.github.com/graphql",
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and
// base URL, for tests that inject an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	client.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept
	// GraphQL requests too.
	graphqlU := *u
	graphqlU.Path = "/graphql"

	return &Client{
		gh:         client,
		httpClient: httpClient,
		graphqlURL: graphqlU.String(),
	}, nil
}

// FetchNotificationCount polls the REST notifications endpoint and returns
// how many unread notifications pass the reason filter. A prior
// Last-Modified value is replayed as If-Modified-Since; a 304 answer
// yields driven.ErrNotModified and leaves the cache token untouched.
func (c *Client) FetchNotificationCount(ctx context.Context, token string, enabled model.ReasonSet) (int, error) {
	req, err := c.gh.NewRequest(http.MethodGet, "notifications?per_page=100", nil)
	if err != nil {
		return 0, &driven.TransportError{Op: "creating notifications request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if c.lastModified != "" {
		req.Header.Set("If-Modified-Since", c.lastModified)
	}

	var notifications []*gh.Notification
	resp, err := c.gh.Do(ctx, req, &notifications)
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotModified:
			return 0, driven.ErrNotModified
		case http.StatusUnauthorized, http.StatusForbidden:
			return 0, &driven.AuthError{StatusCode: resp.StatusCode}
		}
	}
	if err != nil {
		return 0, &driven.TransportError{Op: "fetching notifications", Err: err}
	}

	// Only a 2xx with the header present advances the cache token.
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		c.lastModified = lm
	}

	count := 0
	for _, n := range notifications {
		if enabled.Counts(model.NotificationReason(n.GetReason())) {
			count++
		}
	}

	slog.Debug("notifications fetched",
		"total", len(notifications),
		"counted", count,
		"rate_remaining", resp.Rate.Remaining,
	)

	return count, nil
}
