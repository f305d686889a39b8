package model

// Buckets partitions a set of pull requests into the four mutually
// exclusive status categories shown in the panel.
type Buckets struct {
	Approved         []PullRequest
	ChangesRequested []PullRequest
	ReviewRequired   []PullRequest
	Draft            []PullRequest
}

// Total returns the number of PRs across all buckets.
func (b Buckets) Total() int {
	return len(b.Approved) + len(b.ChangesRequested) + len(b.ReviewRequired) + len(b.Draft)
}

// ClassifyPullRequests assigns each PR to exactly one bucket by strict
// priority: drafts first regardless of review state, then the review
// decision. Anything without an approved or changes-requested decision
// (including repositories that report no decision at all) lands in
// ReviewRequired. Order within a bucket follows the input order, which
// the platform serves most-recently-updated first.
func ClassifyPullRequests(prs []PullRequest) Buckets {
	var b Buckets
	for _, pr := range prs {
		switch {
		case pr.IsDraft:
			b.Draft = append(b.Draft, pr)
		case pr.ReviewDecision == ReviewDecisionApproved:
			b.Approved = append(b.Approved, pr)
		case pr.ReviewDecision == ReviewDecisionChangesRequested:
			b.ChangesRequested = append(b.ChangesRequested, pr)
		default:
			b.ReviewRequired = append(b.ReviewRequired, pr)
		}
	}
	return b
}

// PullRequestSet is the result of one successful PR fetch: the classified
// buckets plus the flat list they were built from.
type PullRequestSet struct {
	Buckets Buckets
	All     []PullRequest
}
