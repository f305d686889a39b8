package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ericfisherdev/prpanel/internal/domain/model"
	"github.com/ericfisherdev/prpanel/internal/domain/port/driven"
)

// viewerPullRequestsQuery fetches the viewer's open PRs in one round trip:
// up to 100 PRs, each with its 10 most recent reviews and up to 30 check
// contexts for the latest commit. The query is fixed; it takes no variables.
const viewerPullRequestsQuery = `{
	viewer {
		pullRequests(states: OPEN, first: 100, orderBy: {field: UPDATED_AT, direction: DESC}) {
			nodes {
				number
				title
				url
				isDraft
				updatedAt
				reviewDecision
				repository {
					name
					owner { login }
				}
				reviews(last: 10) {
					nodes {
						state
						author { login }
					}
				}
				commits(last: 1) {
					nodes {
						commit {
							statusCheckRollup {
								state
								contexts(first: 30) {
									nodes {
										__typename
										... on CheckRun {
											name
											status
											conclusion
											detailsUrl
										}
										... on StatusContext {
											context
											state
											targetUrl
										}
									}
								}
							}
						}
					}
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query string `json:"query"`
}

// viewerResponse is the expected shape of the viewer pull requests query
// response. Errors is non-empty when the API rejected or partially failed
// the query.
type viewerResponse struct {
	Data struct {
		Viewer struct {
			PullRequests struct {
				Nodes []prNode `json:"nodes"`
			} `json:"pullRequests"`
		} `json:"viewer"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchPullRequests executes the viewer query, normalizes each node, and
// classifies the result into buckets.
func (c *Client) FetchPullRequests(ctx context.Context, token string) (model.PullRequestSet, error) {
	bodyBytes, err := json.Marshal(graphqlRequest{Query: viewerPullRequestsQuery})
	if err != nil {
		return model.PullRequestSet{}, &driven.TransportError{Op: "marshaling graphql request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return model.PullRequestSet{}, &driven.TransportError{Op: "creating graphql request", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.PullRequestSet{}, &driven.TransportError{Op: "posting graphql query", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.PullRequestSet{}, &driven.AuthError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.PullRequestSet{}, &driven.TransportError{Op: "posting graphql query", Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	var gqlResp viewerResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return model.PullRequestSet{}, &driven.TransportError{Op: "decoding graphql response", Err: err}
	}

	if len(gqlResp.Errors) > 0 {
		return model.PullRequestSet{}, &driven.GraphQLError{Message: gqlResp.Errors[0].Message}
	}

	nodes := gqlResp.Data.Viewer.PullRequests.Nodes
	prs := make([]model.PullRequest, 0, len(nodes))
	for _, node := range nodes {
		prs = append(prs, normalizePullRequest(node))
	}

	return model.PullRequestSet{
		Buckets: model.ClassifyPullRequests(prs),
		All:     prs,
	}, nil
}
