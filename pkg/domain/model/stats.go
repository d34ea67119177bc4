package model

import (
	"time"

	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

// StatsBucket holds a single aggregation bucket (severity, channel, or status)
type StatsBucket struct {
	Key   string `json:"key" firestore:"key"`
	Count int    `json:"count" firestore:"count"`
}

// TimePoint holds an alert count for a single day
type TimePoint struct {
	Date  string `json:"date" firestore:"date"`
	Count int    `json:"count" firestore:"count"`
}

// AlertStats holds the aggregate counts rendered on the dashboard.
// It is a read-only value computed from stored alerts; handlers never
// mutate it after construction.
type AlertStats struct {
	Total      int           `json:"total"`
	BySeverity []StatsBucket `json:"by_severity"`
	ByChannel  []StatsBucket `json:"by_channel"`
	ByStatus   []StatsBucket `json:"by_status"`
	OverTime   []TimePoint   `json:"over_time"`
}

// CountBySeverity returns the count for the given severity, 0 when absent
func (s *AlertStats) CountBySeverity(sev types.Severity) int {
	for _, b := range s.BySeverity {
		if b.Key == sev.String() {
			return b.Count
		}
	}
	return 0
}

// StatsFilter narrows which alerts contribute to AlertStats
type StatsFilter struct {
	DateFrom time.Time
	DateTo   time.Time
	Severity types.Severity
}

// Match checks whether an alert passes the filter
func (f *StatsFilter) Match(alert *Alert) bool {
	if f == nil {
		return true
	}
	if !f.DateFrom.IsZero() && alert.CreatedAt.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && alert.CreatedAt.After(f.DateTo) {
		return false
	}
	if f.Severity != "" && alert.Severity != f.Severity {
		return false
	}
	return true
}

// IsZero reports whether the filter restricts nothing
func (f *StatsFilter) IsZero() bool {
	return f == nil || (f.DateFrom.IsZero() && f.DateTo.IsZero() && f.Severity == "")
}

// ListFilter narrows and paginates alert listings
type ListFilter struct {
	Severity types.Severity
	Status   types.AlertStatus
	Offset   int
	Limit    int
}

// AlertList is the paginated listing envelope
type AlertList struct {
	Items  []*Alert `json:"items"`
	Total  int      `json:"total"`
	Offset int      `json:"offset"`
	Limit  int      `json:"limit"`
}
