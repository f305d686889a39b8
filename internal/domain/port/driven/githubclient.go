// Package driven defines the driven ports (outbound dependencies) of the
// application core, along with the error taxonomy those ports report.
package driven

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericfisherdev/prpanel/internal/domain/model"
)

// GitHubClient is the driven port for the GitHub API. The access token is
// resolved per refresh cycle and passed per call; the conditional-fetch
// cache token for notifications is adapter-internal state that must survive
// across calls on the same client instance.
type GitHubClient interface {
	// FetchPullRequests retrieves the viewer's open pull requests,
	// normalized and classified into buckets.
	FetchPullRequests(ctx context.Context, token string) (model.PullRequestSet, error)

	// FetchNotificationCount returns the number of unread notifications
	// whose reason is enabled in the filter (all notifications when the
	// filter is empty). Returns ErrNotModified when the feed has not
	// changed since the last successful fetch; the caller must leave its
	// cached count untouched in that case.
	FetchNotificationCount(ctx context.Context, token string, enabled model.ReasonSet) (int, error)
}

// ErrNotModified reports that the notification feed is unchanged since the
// last successful poll. It is a normal outcome, not a failure.
var ErrNotModified = errors.New("notifications not modified")

// AuthError reports a rejected or expired access token (HTTP 401/403).
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("github authentication failed: HTTP %d", e.StatusCode)
}

// GraphQLError reports an API-side error returned in a GraphQL response's
// errors array. Message is the first reported message.
type GraphQLError struct {
	Message string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("github graphql error: %s", e.Message)
}

// TransportError reports a network failure or an unexpected HTTP status.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
