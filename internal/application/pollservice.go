// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/prpanel/internal/domain/model"
	"github.com/ericfisherdev/prpanel/internal/domain/port/driven"
)

// refreshRequest represents a manual refresh trigger.
type refreshRequest struct {
	done chan error
}

// PollService owns the repeating poll timer and the cached view model.
// Each refresh cycle resolves the access token, fetches the viewer's pull
// requests, and fetches the notification count; the two fetches fail
// independently. A failed PR fetch keeps the previous bucket set so the
// panel never reverts to empty while a last-good snapshot exists.
type PollService struct {
	ghClient   driven.GitHubClient
	tokenStore driven.TokenStore

	// interval and reasons are owned by the Run goroutine; changes arrive
	// over the channels below.
	interval time.Duration
	reasons  model.ReasonSet

	refreshCh  chan refreshRequest
	intervalCh chan time.Duration
	reasonsCh  chan model.ReasonSet

	mu       sync.RWMutex
	snapshot model.StatusSnapshot
}

// NewPollService creates a PollService with all required dependencies.
// The initial snapshot is in the loading state until the first refresh
// completes.
func NewPollService(
	ghClient driven.GitHubClient,
	tokenStore driven.TokenStore,
	interval time.Duration,
	reasons model.ReasonSet,
) *PollService {
	return &PollService{
		ghClient:   ghClient,
		tokenStore: tokenStore,
		interval:   interval,
		reasons:    reasons,
		refreshCh:  make(chan refreshRequest),
		intervalCh: make(chan time.Duration),
		reasonsCh:  make(chan model.ReasonSet),
		snapshot:   model.StatusSnapshot{State: model.ViewStateLoading},
	}
}

// Snapshot returns the current view model. Safe to call from any goroutine.
func (s *PollService) Snapshot() model.StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Run starts the polling loop: an immediate refresh, then one per interval.
// Manual refreshes and setting changes are serviced on the same goroutine,
// so two refresh cycles can never overlap. Run blocks until the context is
// canceled.
func (s *PollService) Run(ctx context.Context) {
	s.refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("poll service stopped")
			return
		case <-ticker.C:
			s.refresh(ctx)
		case req := <-s.refreshCh:
			req.done <- s.refresh(ctx)
		case d := <-s.intervalCh:
			// Rearm only; the next refresh waits for the new cadence.
			s.interval = d
			ticker.Reset(d)
			slog.Info("poll interval changed", "interval", d)
		case rs := <-s.reasonsCh:
			// Takes effect on the next notification fetch; the cached
			// badge count is not recomputed.
			s.reasons = rs
			slog.Info("notification filter changed", "reasons", len(rs))
		}
	}
}

// Refresh triggers an immediate out-of-cycle refresh, bypassing the poll
// interval. It blocks until the refresh completes or the context is
// canceled.
func (s *PollService) Refresh(ctx context.Context) error {
	done := make(chan error, 1)

	select {
	case s.refreshCh <- refreshRequest{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetInterval rearms the poll timer with a new interval. It does not
// trigger an immediate refresh. The surrounding application wires this to
// its settings-change source.
func (s *PollService) SetInterval(ctx context.Context, d time.Duration) error {
	select {
	case s.intervalCh <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetReasons replaces the notification reason filter used by subsequent
// refresh cycles.
func (s *PollService) SetReasons(ctx context.Context, rs model.ReasonSet) error {
	select {
	case s.reasonsCh <- rs:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// refresh runs one full cycle. The context is checked after each network
// round trip so a canceled service never mutates the snapshot during
// teardown.
func (s *PollService) refresh(ctx context.Context) error {
	start := time.Now()

	token, err := s.tokenStore.Get(ctx)
	if err != nil {
		slog.Error("token lookup failed", "error", err)
		s.setError(err.Error())
		return err
	}
	if token == "" {
		s.setUnconfigured()
		return nil
	}

	set, prErr := s.ghClient.FetchPullRequests(ctx, token)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if prErr == nil {
		s.setBuckets(set.Buckets)
	} else {
		s.handleFetchError(prErr)
	}

	count, err := s.ghClient.FetchNotificationCount(ctx, token, s.reasons)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	switch {
	case err == nil:
		s.setBadge(count)
	case errors.Is(err, driven.ErrNotModified):
		// Feed unchanged since the last successful poll; badge stays.
	default:
		// Notification failures never reach the UI.
		slog.Error("notification fetch failed", "error", err)
	}

	slog.Debug("refresh cycle complete",
		"duration", time.Since(start).Round(time.Millisecond),
		"pr_fetch_ok", prErr == nil,
	)

	return prErr
}

// handleFetchError decides failure visibility for a PR fetch: a rejected
// token always surfaces, since it needs re-configuration to clear. Other
// failures surface only when no prior bucket set exists, so transient
// errors after a good fetch never flicker the panel.
func (s *PollService) handleFetchError(err error) {
	var authErr *driven.AuthError
	if errors.As(err, &authErr) {
		slog.Error("pull request fetch rejected", "error", err)
		s.setError(err.Error())
		return
	}

	s.mu.Lock()
	surfaced := s.snapshot.Buckets == nil
	if surfaced {
		s.snapshot.State = model.ViewStateError
		s.snapshot.Message = err.Error()
		s.snapshot.RefreshedAt = time.Now()
	}
	s.mu.Unlock()

	slog.Error("pull request fetch failed", "error", err, "surfaced", surfaced)
}

// setError enters the visible error state while keeping any prior bucket
// set for display.
func (s *PollService) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.State = model.ViewStateError
	s.snapshot.Message = msg
	s.snapshot.RefreshedAt = time.Now()
}

func (s *PollService) setUnconfigured() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.State = model.ViewStateUnconfigured
	s.snapshot.Message = ""
	s.snapshot.Buckets = nil
	s.snapshot.Badge = 0
	s.snapshot.RefreshedAt = time.Now()
}

// setBuckets replaces the bucket set in a single assignment, so readers
// never observe a partially updated set.
func (s *PollService) setBuckets(b model.Buckets) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.State = model.ViewStatePopulated
	s.snapshot.Message = ""
	s.snapshot.Buckets = &b
	s.snapshot.RefreshedAt = time.Now()
}

func (s *PollService) setBadge(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Badge = n
	s.snapshot.RefreshedAt = time.Now()
}
