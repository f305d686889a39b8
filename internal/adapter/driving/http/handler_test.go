package httphandler_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/prpanel/internal/adapter/driving/http"
	"github.com/ericfisherdev/prpanel/internal/application"
	"github.com/ericfisherdev/prpanel/internal/domain/model"
	"github.com/ericfisherdev/prpanel/internal/domain/port/driven"
)

type stubGitHubClient struct {
	set   model.PullRequestSet
	badge int
}

func (s *stubGitHubClient) FetchPullRequests(context.Context, string) (model.PullRequestSet, error) {
	return s.set, nil
}

func (s *stubGitHubClient) FetchNotificationCount(context.Context, string, model.ReasonSet) (int, error) {
	return s.badge, nil
}

type stubTokenStore struct {
	token string
}

func (s *stubTokenStore) Get(context.Context) (string, error) {
	return s.token, nil
}

var _ driven.GitHubClient = (*stubGitHubClient)(nil)
var _ driven.TokenStore = (*stubTokenStore)(nil)

func setupRouter(t *testing.T, gh driven.GitHubClient, ts driven.TokenStore) http.Handler {
	t.Helper()

	svc := application.NewPollService(gh, ts, time.Hour, model.NewReasonSet())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		return svc.Snapshot().State != model.ViewStateLoading
	}, time.Second, 5*time.Millisecond)

	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	return httphandler.NewRouter(httphandler.NewHandler(svc, logger), logger)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func populatedClient() *stubGitHubClient {
	prs := []model.PullRequest{
		{
			Number:         7,
			RepoOwner:      "owner",
			RepoName:       "repo",
			Title:          "Fix flaky test",
			URL:            "https://github.com/owner/repo/pull/7",
			UpdatedAt:      time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC),
			ReviewDecision: model.ReviewDecisionApproved,
			Reviewers:      map[string]model.ReviewState{"alice": model.ReviewStateApproved},
			CIStatus:       model.CIStatusSuccess,
			Checks:         []model.Check{{Name: "build", Status: model.CheckStatusSuccess, URL: "https://ci.example/1"}},
		},
		{Number: 8, RepoOwner: "owner", RepoName: "repo", IsDraft: true},
	}
	return &stubGitHubClient{
		set:   model.PullRequestSet{Buckets: model.ClassifyPullRequests(prs), All: prs},
		badge: 2,
	}
}

func TestStatusEndpoint(t *testing.T) {
	router := setupRouter(t, populatedClient(), &stubTokenStore{token: "tok"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp httphandler.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "populated", resp.State)
	assert.Equal(t, 2, resp.Badge)
	assert.True(t, resp.BadgeVisible)
	require.NotNil(t, resp.Buckets)
	require.Len(t, resp.Buckets.Approved, 1)
	require.Len(t, resp.Buckets.Draft, 1)

	pr := resp.Buckets.Approved[0]
	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "owner/repo", pr.Repository)
	assert.Equal(t, "approved", pr.ReviewDecision)
	require.Len(t, pr.Reviewers, 1)
	assert.Equal(t, "alice", pr.Reviewers[0].Login)
	require.Len(t, pr.Checks, 1)
	assert.Equal(t, "build", pr.Checks[0].Name)
}

func TestStatusEndpoint_Unconfigured(t *testing.T) {
	router := setupRouter(t, &stubGitHubClient{}, &stubTokenStore{token: ""})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "unconfigured", resp.State)
	assert.False(t, resp.BadgeVisible)
	assert.Nil(t, resp.Buckets)
}

func TestRefreshEndpoint(t *testing.T) {
	gh := populatedClient()
	router := setupRouter(t, gh, &stubTokenStore{token: "tok"})

	gh.badge = 6

	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Badge)
}

func TestRefreshEndpoint_WrongMethod(t *testing.T) {
	router := setupRouter(t, populatedClient(), &stubTokenStore{token: "tok"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(t, populatedClient(), &stubTokenStore{token: "tok"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Time)
}
