package httphandler

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/ericfisherdev/prpanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the JSON representation of the cached view model.
type StatusResponse struct {
	State        string           `json:"state"`
	Message      string           `json:"message,omitempty"`
	Badge        int              `json:"badge"`
	BadgeVisible bool             `json:"badge_visible"`
	RefreshedAt  string           `json:"refreshed_at,omitempty"`
	Buckets      *BucketsResponse `json:"buckets,omitempty"`
}

// BucketsResponse groups PRs by status category.
type BucketsResponse struct {
	Approved         []PRResponse `json:"approved"`
	ChangesRequested []PRResponse `json:"changes_requested"`
	ReviewRequired   []PRResponse `json:"review_required"`
	Draft            []PRResponse `json:"draft"`
}

// PRResponse is the JSON representation of a pull request.
type PRResponse struct {
	Number         int             `json:"number"`
	Repository     string          `json:"repository"`
	Title          string          `json:"title"`
	URL            string          `json:"url"`
	IsDraft        bool            `json:"is_draft"`
	UpdatedAt      string          `json:"updated_at"`
	ReviewDecision string          `json:"review_decision"`
	Reviewers      []ReviewerEntry `json:"reviewers"`
	CIStatus       string          `json:"ci_status"`
	Checks         []CheckResponse `json:"checks"`
}

// ReviewerEntry pairs a reviewer login with that reviewer's latest state.
type ReviewerEntry struct {
	Login string `json:"login"`
	State string `json:"state"`
}

// CheckResponse is the JSON representation of an individual CI check.
type CheckResponse struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	URL    string `json:"url"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// toStatusResponse converts a StatusSnapshot to its JSON representation.
func toStatusResponse(snap model.StatusSnapshot) StatusResponse {
	resp := StatusResponse{
		State:        string(snap.State),
		Message:      snap.Message,
		Badge:        snap.Badge,
		BadgeVisible: snap.Badge > 0,
	}
	if !snap.RefreshedAt.IsZero() {
		resp.RefreshedAt = snap.RefreshedAt.UTC().Format(time.RFC3339)
	}
	if snap.Buckets != nil {
		resp.Buckets = &BucketsResponse{
			Approved:         toPRResponses(snap.Buckets.Approved),
			ChangesRequested: toPRResponses(snap.Buckets.ChangesRequested),
			ReviewRequired:   toPRResponses(snap.Buckets.ReviewRequired),
			Draft:            toPRResponses(snap.Buckets.Draft),
		}
	}
	return resp
}

func toPRResponses(prs []model.PullRequest) []PRResponse {
	resp := make([]PRResponse, 0, len(prs))
	for _, pr := range prs {
		resp = append(resp, toPRResponse(pr))
	}
	return resp
}

// toPRResponse converts a domain PullRequest to its JSON representation.
// Reviewers are emitted sorted by login for stable output.
func toPRResponse(pr model.PullRequest) PRResponse {
	reviewers := make([]ReviewerEntry, 0, len(pr.Reviewers))
	for login, state := range pr.Reviewers {
		reviewers = append(reviewers, ReviewerEntry{Login: login, State: string(state)})
	}
	sort.Slice(reviewers, func(i, j int) bool { return reviewers[i].Login < reviewers[j].Login })

	checks := make([]CheckResponse, 0, len(pr.Checks))
	for _, c := range pr.Checks {
		checks = append(checks, CheckResponse{Name: c.Name, Status: string(c.Status), URL: c.URL})
	}

	return PRResponse{
		Number:         pr.Number,
		Repository:     pr.RepoFullName(),
		Title:          pr.Title,
		URL:            pr.URL,
		IsDraft:        pr.IsDraft,
		UpdatedAt:      pr.UpdatedAt.UTC().Format(time.RFC3339),
		ReviewDecision: string(pr.ReviewDecision),
		Reviewers:      reviewers,
		CIStatus:       string(pr.CIStatus),
		Checks:         checks,
	}
}
