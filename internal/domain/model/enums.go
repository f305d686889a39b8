package model

// ReviewDecision is the platform-computed overall review verdict for a PR.
type ReviewDecision string

const (
	ReviewDecisionApproved         ReviewDecision = "approved"
	ReviewDecisionChangesRequested ReviewDecision = "changes_requested"
	ReviewDecisionReviewRequired   ReviewDecision = "review_required"
	// ReviewDecisionNone is what the platform sends (as null) for
	// repositories that do not require reviews.
	ReviewDecisionNone ReviewDecision = ""
)

// ReviewState is the state of an individual review.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "approved"
	ReviewStateChangesRequested ReviewState = "changes_requested"
	ReviewStateCommented        ReviewState = "commented"
	ReviewStatePending          ReviewState = "pending"
	ReviewStateDismissed        ReviewState = "dismissed"
)

// CIStatus is the aggregate CI state for a PR's head commit.
type CIStatus string

const (
	CIStatusSuccess CIStatus = "success"
	CIStatusFailure CIStatus = "failure"
	CIStatusPending CIStatus = "pending"
	// CIStatusNone means no status-check rollup exists for the head commit.
	CIStatusNone CIStatus = "none"
)

// CheckStatus is the state of a single CI check.
type CheckStatus string

const (
	CheckStatusSuccess CheckStatus = "success"
	CheckStatusFailure CheckStatus = "failure"
	CheckStatusPending CheckStatus = "pending"
)

// NotificationReason is a platform notification reason key.
type NotificationReason string

const (
	ReasonReviewRequested NotificationReason = "review_requested"
	ReasonMention         NotificationReason = "mention"
	ReasonComment         NotificationReason = "comment"
	ReasonAssign          NotificationReason = "assign"
	ReasonStateChange     NotificationReason = "state_change"
)

// KnownReasons lists every notification reason the badge filter understands.
var KnownReasons = []NotificationReason{
	ReasonReviewRequested,
	ReasonMention,
	ReasonComment,
	ReasonAssign,
	ReasonStateChange,
}

// ViewState distinguishes what the UI should display alongside (or instead
// of) the bucket set.
type ViewState string

const (
	// ViewStateLoading is the initial state before the first refresh completes.
	ViewStateLoading ViewState = "loading"
	// ViewStateUnconfigured means no access token is available. Not an error.
	ViewStateUnconfigured ViewState = "unconfigured"
	// ViewStateError carries a message; buckets from a prior successful fetch
	// are retained when they exist.
	ViewStateError ViewState = "error"
	// ViewStatePopulated means the bucket set reflects a successful fetch.
	ViewStatePopulated ViewState = "populated"
)
