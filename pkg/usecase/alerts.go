package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/interfaces"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
	"github.com/umbrella-sec/umbrella/pkg/service/notify"
	"github.com/umbrella-sec/umbrella/pkg/utils/apperr"
	"github.com/umbrella-sec/umbrella/pkg/utils/async"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	dateLayout = "2006-01-02"
)

// Alerts implements AlertsUseCase
type Alerts struct {
	repo     interfaces.Repository
	cache    StatsCache
	notifier AlertNotifier
}

// AlertsOption configures the Alerts use case
type AlertsOption func(*Alerts)

// WithStatsCache attaches a cache for computed statistics
func WithStatsCache(cache StatsCache) AlertsOption {
	return func(a *Alerts) {
		a.cache = cache
	}
}

// WithNotifier attaches a notifier for critical alerts
func WithNotifier(notifier AlertNotifier) AlertsOption {
	return func(a *Alerts) {
		a.notifier = notifier
	}
}

// NewAlerts creates a new Alerts use case
func NewAlerts(repo interfaces.Repository, opts ...AlertsOption) AlertsUseCase {
	a := &Alerts{repo: repo}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GetStats aggregates stored alerts into dashboard statistics. Results are
// served from the cache when one is configured.
func (a *Alerts) GetStats(ctx context.Context, filter *model.StatsFilter) (*model.AlertStats, error) {
	logger := ctxlog.From(ctx)
	cacheKey := statsCacheKey(filter)

	if a.cache != nil {
		cached, err := a.cache.Get(ctx, cacheKey)
		if err != nil {
			// A broken cache must not take the dashboard down
			logger.Warn("Stats cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	alerts, err := a.repo.ListAllAlerts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list alerts for stats")
	}

	stats := aggregate(alerts, filter)

	if a.cache != nil {
		if err := a.cache.Set(ctx, cacheKey, stats); err != nil {
			logger.Warn("Stats cache write failed", "error", err)
		}
	}

	return stats, nil
}

// List returns a filtered, paginated alert listing
func (a *Alerts) List(ctx context.Context, filter *model.ListFilter) (*model.AlertList, error) {
	if filter == nil {
		filter = &model.ListFilter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	list, err := a.repo.ListAlerts(ctx, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list alerts")
	}

	return list, nil
}

// Ingest persists an alert delivered by the upstream pipeline, filling in
// missing fields, and notifies the configured channel for critical alerts
func (a *Alerts) Ingest(ctx context.Context, alert *model.Alert) (*model.Alert, error) {
	if alert == nil {
		return nil, goerr.New("alert is nil")
	}

	if alert.ID == "" {
		id, err := types.NewAlertID()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to generate alert ID")
		}
		alert.ID = id
	}
	if alert.Status == "" {
		alert.Status = types.AlertStatusOpen
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}

	if err := alert.Validate(); err != nil {
		return nil, goerr.Wrap(model.ErrInvalidAlert, err.Error())
	}

	if err := a.repo.SaveAlert(ctx, alert); err != nil {
		return nil, goerr.Wrap(err, "failed to save alert")
	}

	ctxlog.From(ctx).Info("Ingested alert",
		"alertID", alert.ID,
		"severity", alert.Severity,
		"channel", alert.Channel,
	)

	if a.notifier != nil && notify.ShouldNotify(alert) {
		saved := *alert
		async.Dispatch(ctx, func(ctx context.Context) error {
			if err := a.notifier.NotifyAlert(ctx, &saved); err != nil {
				// Notification failures never surface to the ingest caller
				apperr.Handle(ctx, err)
			}
			return nil
		})
	}

	return alert, nil
}

// statsCacheKey builds a deterministic cache key from the filter
func statsCacheKey(filter *model.StatsFilter) string {
	if filter.IsZero() {
		return "all"
	}
	from, to := "", ""
	if !filter.DateFrom.IsZero() {
		from = filter.DateFrom.Format(time.RFC3339)
	}
	if !filter.DateTo.IsZero() {
		to = filter.DateTo.Format(time.RFC3339)
	}
	return fmt.Sprintf("%s|%s|%s", from, to, filter.Severity)
}

// aggregate computes AlertStats from the alert set. Buckets are ordered by
// count descending with key ascending on ties; the time series is ordered
// by day ascending.
func aggregate(alerts []*model.Alert, filter *model.StatsFilter) *model.AlertStats {
	bySeverity := map[string]int{}
	byChannel := map[string]int{}
	byStatus := map[string]int{}
	byDay := map[string]int{}

	total := 0
	for _, alert := range alerts {
		if !filter.Match(alert) {
			continue
		}
		total++
		bySeverity[alert.Severity.String()]++
		byChannel[alert.Channel.String()]++
		byStatus[alert.Status.String()]++
		byDay[alert.CreatedAt.Format(dateLayout)]++
	}

	stats := &model.AlertStats{
		Total:      total,
		BySeverity: toBuckets(bySeverity),
		ByChannel:  toBuckets(byChannel),
		ByStatus:   toBuckets(byStatus),
		OverTime:   toTimePoints(byDay),
	}

	return stats
}

func toBuckets(counts map[string]int) []model.StatsBucket {
	buckets := make([]model.StatsBucket, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, model.StatsBucket{Key: key, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

func toTimePoints(counts map[string]int) []model.TimePoint {
	points := make([]model.TimePoint, 0, len(counts))
	for date, count := range counts {
		points = append(points, model.TimePoint{Date: date, Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}
