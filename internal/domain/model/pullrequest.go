package model

import "time"

// PullRequest is a single fetch cycle's view of one of the viewer's open
// pull requests. Instances are rebuilt from scratch on every successful
// fetch and never mutated afterwards.
type PullRequest struct {
	Number    int
	RepoOwner string
	RepoName  string
	Title     string
	URL       string
	IsDraft   bool
	UpdatedAt time.Time

	// ReviewDecision is the platform-computed overall verdict.
	// Empty when the platform reports none.
	ReviewDecision ReviewDecision

	// Reviewers maps reviewer login to that reviewer's latest review state.
	// "Latest" is last-in-list as returned by the API, which serves the
	// most recent N reviews without a chronological guarantee.
	Reviewers map[string]ReviewState

	CIStatus CIStatus
	Checks   []Check
}

// Check is one CI check attached to the PR's head commit, unified across
// the check-run and legacy status-context response shapes.
type Check struct {
	Name   string
	Status CheckStatus
	URL    string
}

// RepoFullName returns the "owner/name" form of the owning repository.
func (pr PullRequest) RepoFullName() string {
	return pr.RepoOwner + "/" + pr.RepoName
}
