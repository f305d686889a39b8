package github

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prpanel/internal/domain/model"
)

func baseNode() prNode {
	node := prNode{
		Number:         42,
		Title:          "Add feature X",
		URL:            "https://github.com/owner/repo/pull/42",
		IsDraft:        false,
		UpdatedAt:      time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC),
		ReviewDecision: "APPROVED",
	}
	node.Repository.Name = "repo"
	node.Repository.Owner.Login = "owner"
	return node
}

func TestNormalizePullRequest_Basic(t *testing.T) {
	pr := normalizePullRequest(baseNode())

	assert.Equal(t, 42, pr.Number)
	assert.Equal(t, "owner", pr.RepoOwner)
	assert.Equal(t, "repo", pr.RepoName)
	assert.Equal(t, "owner/repo", pr.RepoFullName())
	assert.Equal(t, "Add feature X", pr.Title)
	assert.Equal(t, model.ReviewDecisionApproved, pr.ReviewDecision)
}

// A node without commits, rollup, or contexts must normalize cleanly to
// "no CI" rather than failing.
func TestNormalizePullRequest_NoRollup(t *testing.T) {
	node := baseNode()

	pr := normalizePullRequest(node)
	assert.Equal(t, model.CIStatusNone, pr.CIStatus)
	assert.Empty(t, pr.Checks)

	// A commit without a rollup behaves the same.
	node.Commits.Nodes = make([]struct {
		Commit struct {
			StatusCheckRollup *rollupNode `json:"statusCheckRollup"`
		} `json:"commit"`
	}, 1)

	pr = normalizePullRequest(node)
	assert.Equal(t, model.CIStatusNone, pr.CIStatus)
	assert.Empty(t, pr.Checks)
}

// Later reviews from the same reviewer overwrite earlier ones; ties are
// resolved by list order, not timestamp.
func TestNormalizePullRequest_ReviewDedup(t *testing.T) {
	node := baseNode()
	node.Reviews.Nodes = []reviewNode{
		reviewWith("alice", "CHANGES_REQUESTED"),
		reviewWith("bob", "COMMENTED"),
		reviewWith("alice", "APPROVED"),
	}

	pr := normalizePullRequest(node)

	require.Len(t, pr.Reviewers, 2)
	assert.Equal(t, model.ReviewStateApproved, pr.Reviewers["alice"])
	assert.Equal(t, model.ReviewStateCommented, pr.Reviewers["bob"])
}

func TestNormalizePullRequest_SkipsGhostReviewers(t *testing.T) {
	node := baseNode()
	node.Reviews.Nodes = []reviewNode{
		reviewWith("", "APPROVED"),
		reviewWith("alice", "APPROVED"),
	}

	pr := normalizePullRequest(node)
	assert.Len(t, pr.Reviewers, 1)
}

func reviewWith(login, state string) reviewNode {
	var r reviewNode
	r.Author.Login = login
	r.State = state
	return r
}

func TestMapRollupState(t *testing.T) {
	assert.Equal(t, model.CIStatusSuccess, mapRollupState("SUCCESS"))
	assert.Equal(t, model.CIStatusFailure, mapRollupState("FAILURE"))
	assert.Equal(t, model.CIStatusFailure, mapRollupState("ERROR"))
	assert.Equal(t, model.CIStatusPending, mapRollupState("PENDING"))
	assert.Equal(t, model.CIStatusPending, mapRollupState("EXPECTED"))
}

func TestMapCheckContext(t *testing.T) {
	tests := []struct {
		name     string
		node     checkContextNode
		expected model.Check
	}{
		{
			name: "completed check run with success conclusion",
			node: checkContextNode{
				Typename:   "CheckRun",
				Name:       "build",
				Status:     "COMPLETED",
				Conclusion: "SUCCESS",
				DetailsURL: "https://ci.example/1",
			},
			expected: model.Check{Name: "build", Status: model.CheckStatusSuccess, URL: "https://ci.example/1"},
		},
		{
			name: "completed check run with non-success conclusion",
			node: checkContextNode{
				Typename:   "CheckRun",
				Name:       "lint",
				Status:     "COMPLETED",
				Conclusion: "TIMED_OUT",
			},
			expected: model.Check{Name: "lint", Status: model.CheckStatusFailure},
		},
		{
			name: "in-progress check run",
			node: checkContextNode{
				Typename: "CheckRun",
				Name:     "test",
				Status:   "IN_PROGRESS",
			},
			expected: model.Check{Name: "test", Status: model.CheckStatusPending},
		},
		{
			name: "status context success",
			node: checkContextNode{
				Typename:  "StatusContext",
				Context:   "ci/jenkins",
				State:     "SUCCESS",
				TargetURL: "https://ci.example/2",
			},
			expected: model.Check{Name: "ci/jenkins", Status: model.CheckStatusSuccess, URL: "https://ci.example/2"},
		},
		{
			name: "status context failure",
			node: checkContextNode{
				Typename: "StatusContext",
				Context:  "ci/jenkins",
				State:    "FAILURE",
			},
			expected: model.Check{Name: "ci/jenkins", Status: model.CheckStatusFailure},
		},
		{
			name: "status context error maps to failure",
			node: checkContextNode{
				Typename: "StatusContext",
				Context:  "ci/jenkins",
				State:    "ERROR",
			},
			expected: model.Check{Name: "ci/jenkins", Status: model.CheckStatusFailure},
		},
		{
			name: "status context other state maps to pending",
			node: checkContextNode{
				Typename: "StatusContext",
				Context:  "ci/jenkins",
				State:    "EXPECTED",
			},
			expected: model.Check{Name: "ci/jenkins", Status: model.CheckStatusPending},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mapCheckContext(tt.node))
		})
	}
}

func TestMapReviewDecision(t *testing.T) {
	assert.Equal(t, model.ReviewDecisionApproved, mapReviewDecision("APPROVED"))
	assert.Equal(t, model.ReviewDecisionChangesRequested, mapReviewDecision("CHANGES_REQUESTED"))
	assert.Equal(t, model.ReviewDecisionReviewRequired, mapReviewDecision("REVIEW_REQUIRED"))
	assert.Equal(t, model.ReviewDecisionNone, mapReviewDecision(""))
	assert.Equal(t, model.ReviewDecisionNone, mapReviewDecision("SOMETHING_NEW"))
}
