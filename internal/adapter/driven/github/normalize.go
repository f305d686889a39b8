package github

import (
	"strings"
	"time"

	"github.com/ericfisherdev/prpanel/internal/domain/model"
)

// prNode is one pull request node from the viewer query.
type prNode struct {
	Number         int       `json:"number"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	IsDraft        bool      `json:"isDraft"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ReviewDecision string    `json:"reviewDecision"`
	Repository     struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
	Reviews struct {
		Nodes []reviewNode `json:"nodes"`
	} `json:"reviews"`
	Commits struct {
		Nodes []struct {
			Commit struct {
				StatusCheckRollup *rollupNode `json:"statusCheckRollup"`
			} `json:"commit"`
		} `json:"nodes"`
	} `json:"commits"`
}

type reviewNode struct {
	State  string `json:"state"`
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
}

type rollupNode struct {
	State    string `json:"state"`
	Contexts struct {
		Nodes []checkContextNode `json:"nodes"`
	} `json:"contexts"`
}

// checkContextNode covers both check context shapes the API serves. The
// check-run shape carries name/status/conclusion/detailsUrl; the legacy
// status-context shape carries context/state/targetUrl. Typename tells
// them apart.
type checkContextNode struct {
	Typename   string `json:"__typename"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	DetailsURL string `json:"detailsUrl"`
	Context    string `json:"context"`
	State      string `json:"state"`
	TargetURL  string `json:"targetUrl"`
}

// normalizePullRequest maps a raw query node to the domain model. Absent
// commits, rollup, or contexts yield CIStatusNone and an empty check list
// rather than an error.
func normalizePullRequest(node prNode) model.PullRequest {
	// Later reviews from the same reviewer overwrite earlier ones. The API
	// serves the most recent N reviews without a chronological guarantee,
	// so last-in-list wins.
	reviewers := make(map[string]model.ReviewState, len(node.Reviews.Nodes))
	for _, r := range node.Reviews.Nodes {
		if r.Author.Login == "" {
			continue
		}
		reviewers[r.Author.Login] = model.ReviewState(strings.ToLower(r.State))
	}

	ciStatus := model.CIStatusNone
	checks := []model.Check{}
	if len(node.Commits.Nodes) > 0 {
		if rollup := node.Commits.Nodes[0].Commit.StatusCheckRollup; rollup != nil {
			ciStatus = mapRollupState(rollup.State)
			for _, cc := range rollup.Contexts.Nodes {
				checks = append(checks, mapCheckContext(cc))
			}
		}
	}

	return model.PullRequest{
		Number:         node.Number,
		RepoOwner:      node.Repository.Owner.Login,
		RepoName:       node.Repository.Name,
		Title:          node.Title,
		URL:            node.URL,
		IsDraft:        node.IsDraft,
		UpdatedAt:      node.UpdatedAt,
		ReviewDecision: mapReviewDecision(node.ReviewDecision),
		Reviewers:      reviewers,
		CIStatus:       ciStatus,
		Checks:         checks,
	}
}

// mapReviewDecision converts the API's uppercase review decision. Null and
// unknown values both map to none, which classifies as review-required.
func mapReviewDecision(raw string) model.ReviewDecision {
	switch raw {
	case "APPROVED":
		return model.ReviewDecisionApproved
	case "CHANGES_REQUESTED":
		return model.ReviewDecisionChangesRequested
	case "REVIEW_REQUIRED":
		return model.ReviewDecisionReviewRequired
	default:
		return model.ReviewDecisionNone
	}
}

// mapRollupState converts the rollup's aggregate state: success only for
// SUCCESS, failure for FAILURE or ERROR, pending otherwise.
func mapRollupState(raw string) model.CIStatus {
	switch raw {
	case "SUCCESS":
		return model.CIStatusSuccess
	case "FAILURE", "ERROR":
		return model.CIStatusFailure
	default:
		return model.CIStatusPending
	}
}

// mapCheckContext unifies the two check context shapes into {name, status, url}.
func mapCheckContext(cc checkContextNode) model.Check {
	if cc.Typename == "CheckRun" {
		status := model.CheckStatusPending
		if cc.Status == "COMPLETED" {
			if cc.Conclusion == "SUCCESS" {
				status = model.CheckStatusSuccess
			} else {
				status = model.CheckStatusFailure
			}
		}
		return model.Check{Name: cc.Name, Status: status, URL: cc.DetailsURL}
	}

	status := model.CheckStatusPending
	switch cc.State {
	case "SUCCESS":
		status = model.CheckStatusSuccess
	case "FAILURE", "ERROR":
		status = model.CheckStatusFailure
	}
	return model.Check{Name: cc.Context, Status: status, URL: cc.TargetURL}
}
