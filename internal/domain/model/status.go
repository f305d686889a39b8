package model

import (
	"fmt"
	"strings"
	"time"
)

// StatusSnapshot is the cached view model driving the panel and the status
// API. The scheduler replaces the whole snapshot atomically; Buckets is a
// pointer so a replacement is a single assignment and readers never see a
// half-updated bucket set. Buckets is nil until the first successful fetch.
type StatusSnapshot struct {
	State   ViewState
	Message string
	Buckets *Buckets

	// Badge is the current unread-notification count. Zero hides the badge.
	Badge int

	// RefreshedAt is when the snapshot last changed, successful or not.
	RefreshedAt time.Time
}

// ReasonSet is the set of notification reasons that count toward the badge.
// An empty set disables filtering: every notification counts.
type ReasonSet map[NotificationReason]struct{}

// NewReasonSet builds a ReasonSet from the given reasons.
func NewReasonSet(reasons ...NotificationReason) ReasonSet {
	rs := make(ReasonSet, len(reasons))
	for _, r := range reasons {
		rs[r] = struct{}{}
	}
	return rs
}

// Has reports whether the reason is in the set.
func (rs ReasonSet) Has(r NotificationReason) bool {
	_, ok := rs[r]
	return ok
}

// IsEmpty reports whether no reasons are enabled.
func (rs ReasonSet) IsEmpty() bool { return len(rs) == 0 }

// Counts reports whether a notification with the given reason should count
// toward the badge under this filter.
func (rs ReasonSet) Counts(r NotificationReason) bool {
	return rs.IsEmpty() || rs.Has(r)
}

// ParseReasonSet parses a comma-separated list of reason keys, rejecting
// unknown keys. An empty input yields an empty set (no filtering).
func ParseReasonSet(raw string) (ReasonSet, error) {
	rs := make(ReasonSet)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		reason := NotificationReason(part)
		known := false
		for _, k := range KnownReasons {
			if reason == k {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown notification reason %q", part)
		}
		rs[reason] = struct{}{}
	}
	return rs, nil
}
