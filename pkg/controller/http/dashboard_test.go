package http_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
	"github.com/umbrella-sec/umbrella/pkg/usecase"
)

func TestDashboardPage(t *testing.T) {
	ctx := context.Background()
	ts, authUC, repo := newTestServer(t)
	alertsUC := usecase.NewAlerts(repo)

	_, err := authUC.EnsureUser(ctx, "reviewer", "reviewer@example.com", "s3cret",
		[]string{types.RoleSupervisor})
	gt.NoError(t, err).Required()
	pair := loginAs(t, ts, "reviewer", "s3cret")

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	seed := []struct {
		severity types.Severity
		channel  types.Channel
		day      time.Time
	}{
		{types.SeverityCritical, "email", base},
		{types.SeverityCritical, "email", base},
		{types.SeverityHigh, "endpoint", base},
		{types.SeverityMedium, "endpoint", base.Add(24 * time.Hour)},
		{types.SeverityLow, "network", base.Add(24 * time.Hour)},
	}
	for _, s := range seed {
		_, err := alertsUC.Ingest(ctx, &model.Alert{
			Title:     "Suspicious sign-in",
			Severity:  s.severity,
			Channel:   s.channel,
			CreatedAt: s.day,
		})
		gt.NoError(t, err).Required()
	}

	resp := getWithToken(t, ts.URL+"/", pair.AccessToken)
	defer resp.Body.Close()
	gt.Equal(t, http.StatusOK, resp.StatusCode)
	gt.S(t, resp.Header.Get("Content-Type")).Contains("text/html")

	body, err := io.ReadAll(resp.Body)
	gt.NoError(t, err).Required()
	html := string(body)

	// Section titles render unconditionally
	gt.S(t, html).Contains("Alerts Over Time")
	gt.S(t, html).Contains("Alerts by Severity")
	gt.S(t, html).Contains("Alerts by Channel")

	// Default cards carry the exact aggregate counts
	gt.S(t, html).Contains("Total Alerts")
	gt.S(t, html).Contains("Critical")
	gt.S(t, html).Contains(">5<")
	gt.S(t, html).Contains(">2<")
	gt.S(t, html).Contains(">1<")

	// Group keys appear in the chart tables
	gt.S(t, html).Contains("critical")
	gt.S(t, html).Contains("email")
	gt.S(t, html).Contains("2026-08-01")
	gt.S(t, html).Contains("2026-08-02")

	// Critical card carries its color class
	gt.S(t, html).Contains("stat-card-critical")
}

func TestDashboardPageAccess(t *testing.T) {
	ctx := context.Background()
	ts, authUC, repo := newTestServer(t)
	alertsUC := usecase.NewAlerts(repo)

	_, err := alertsUC.Ingest(ctx, &model.Alert{
		Title:    "Suspicious sign-in",
		Severity: types.SeverityCritical,
		Channel:  "email",
	})
	gt.NoError(t, err).Required()

	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/")
		gt.NoError(t, err).Required()
		defer resp.Body.Close()
		gt.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		gt.NoError(t, err).Required()
		gt.True(t, !containsStats(string(body)))
	})

	t.Run("non-supervisor is forbidden", func(t *testing.T) {
		_, err := authUC.EnsureUser(ctx, "junior", "junior@example.com", "s3cret",
			[]string{"analyst"})
		gt.NoError(t, err).Required()
		junior := loginAs(t, ts, "junior", "s3cret")

		resp := getWithToken(t, ts.URL+"/", junior.AccessToken)
		defer resp.Body.Close()
		gt.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestDashboardPageEmpty(t *testing.T) {
	ctx := context.Background()
	ts, authUC, _ := newTestServer(t)

	_, err := authUC.EnsureUser(ctx, "reviewer", "reviewer@example.com", "s3cret",
		[]string{types.RoleSupervisor})
	gt.NoError(t, err).Required()
	pair := loginAs(t, ts, "reviewer", "s3cret")

	resp := getWithToken(t, ts.URL+"/", pair.AccessToken)
	defer resp.Body.Close()
	gt.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	gt.NoError(t, err).Required()
	html := string(body)

	// Section titles render even with no data
	gt.S(t, html).Contains("Alerts Over Time")
	gt.S(t, html).Contains("Alerts by Severity")
	gt.S(t, html).Contains("Alerts by Channel")
	gt.S(t, html).Contains(">0<")
}

// containsStats reports whether a response body leaks rendered aggregates
func containsStats(body string) bool {
	for _, marker := range []string{"stat-card", "Alerts by Severity", "Total Alerts"} {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}
