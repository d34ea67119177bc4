package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	server "github.com/umbrella-sec/umbrella/pkg/controller/http"
	"github.com/umbrella-sec/umbrella/pkg/domain/interfaces"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
	"github.com/umbrella-sec/umbrella/pkg/metrics"
	"github.com/umbrella-sec/umbrella/pkg/repository"
	"github.com/umbrella-sec/umbrella/pkg/service/token"
	"github.com/umbrella-sec/umbrella/pkg/usecase"
)

func newTestServerWithRepo(t *testing.T, repo interfaces.Repository) (*httptest.Server, usecase.AuthUseCase) {
	t.Helper()

	tokens := token.New("test-secret", 15*time.Minute, 7*24*time.Hour)
	authUC := usecase.NewAuth(repo, tokens)
	alertsUC := usecase.NewAlerts(repo)

	srv, err := server.NewServer(
		context.Background(),
		"127.0.0.1:0",
		authUC,
		alertsUC,
		model.DefaultDashboardConfig(),
		metrics.New(),
	)
	gt.NoError(t, err).Required()

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, authUC
}

func newTestServer(t *testing.T) (*httptest.Server, usecase.AuthUseCase, interfaces.Repository) {
	t.Helper()
	repo := repository.NewMemory()
	ts, authUC := newTestServerWithRepo(t, repo)
	return ts, authUC, repo
}

func loginAs(t *testing.T, ts *httptest.Server, username, password string) *model.TokenPair {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/auth/login", model.Credentials{
		Username: username,
		Password: password,
	})
	gt.Equal(t, http.StatusOK, resp.StatusCode)
	pair := decodeJSON[model.TokenPair](t, resp)
	return &pair
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	encoded, err := json.Marshal(body)
	gt.NoError(t, err).Required()
	resp, err := http.Post(url, "application/json", bytes.NewReader(encoded))
	gt.NoError(t, err).Required()
	return resp
}

func getWithToken(t *testing.T, url, accessToken string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	gt.NoError(t, err).Required()
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err).Required()
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	gt.NoError(t, json.NewDecoder(resp.Body).Decode(&out)).Required()
	return out
}

func TestHealthCheck(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	gt.NoError(t, err).Required()
	gt.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON[map[string]string](t, resp)
	gt.Equal(t, "healthy", body["status"])
	gt.Equal(t, "umbrella", body["service"])
}

func TestAuthFlow(t *testing.T) {
	ctx := context.Background()
	ts, authUC, _ := newTestServer(t)

	user, err := authUC.EnsureUser(ctx, "reviewer", "reviewer@example.com", "s3cret", []string{"analyst"})
	gt.NoError(t, err).Required()

	var pair model.TokenPair

	t.Run("login returns a token pair", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/auth/login", model.Credentials{
			Username: "reviewer",
			Password: "s3cret",
		})
		gt.Equal(t, http.StatusOK, resp.StatusCode)

		pair = decodeJSON[model.TokenPair](t, resp)
		gt.True(t, pair.AccessToken != "")
		gt.Equal(t, "bearer", pair.TokenType)
	})

	t.Run("login with a wrong password is unauthorized", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/auth/login", model.Credentials{
			Username: "reviewer",
			Password: "wrong",
		})
		defer resp.Body.Close()
		gt.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("me requires a token", func(t *testing.T) {
		resp := getWithToken(t, ts.URL+"/api/auth/me", "")
		defer resp.Body.Close()
		gt.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("me returns the profile without the password hash", func(t *testing.T) {
		resp := getWithToken(t, ts.URL+"/api/auth/me", pair.AccessToken)
		gt.Equal(t, http.StatusOK, resp.StatusCode)

		raw := decodeJSON[map[string]any](t, resp)
		gt.Equal(t, user.ID.String(), raw["id"].(string))
		gt.Equal(t, "reviewer", raw["username"].(string))
		_, leaked := raw["password_hash"]
		gt.True(t, !leaked)
	})

	t.Run("refresh via authorization header", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/auth/refresh", nil)
		gt.NoError(t, err).Required()
		req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)

		resp, err := http.DefaultClient.Do(req)
		gt.NoError(t, err).Required()
		gt.Equal(t, http.StatusOK, resp.StatusCode)

		rotated := decodeJSON[model.TokenPair](t, resp)
		gt.True(t, rotated.AccessToken != "")
	})

	t.Run("refresh via json body", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/auth/refresh", map[string]string{
			"refresh_token": pair.RefreshToken,
		})
		gt.Equal(t, http.StatusOK, resp.StatusCode)

		rotated := decodeJSON[model.TokenPair](t, resp)
		gt.True(t, rotated.AccessToken != "")
	})

	t.Run("refresh with an access token is rejected", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/auth/refresh", map[string]string{
			"refresh_token": pair.AccessToken,
		})
		defer resp.Body.Close()
		gt.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAlertEndpoints(t *testing.T) {
	ctx := context.Background()
	ts, authUC, _ := newTestServer(t)

	_, err := authUC.EnsureUser(ctx, "reviewer", "reviewer@example.com", "s3cret",
		[]string{types.RoleSupervisor})
	gt.NoError(t, err).Required()
	_, err = authUC.EnsureUser(ctx, "junior", "junior@example.com", "s3cret",
		[]string{"analyst"})
	gt.NoError(t, err).Required()

	pair := loginAs(t, ts, "reviewer", "s3cret")

	t.Run("ingest hook stores the alert", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/hooks/alert", map[string]any{
			"title":      "Suspicious sign-in",
			"severity":   "critical",
			"channel":    "email",
			"risk_score": 87.5,
		})
		gt.Equal(t, http.StatusCreated, resp.StatusCode)

		saved := decodeJSON[model.Alert](t, resp)
		gt.True(t, saved.ID != "")
		gt.Equal(t, "open", saved.Status.String())
	})

	t.Run("ingest hook rejects an invalid severity", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/hooks/alert", map[string]any{
			"title":    "Broken",
			"severity": "apocalyptic",
			"channel":  "email",
		})
		defer resp.Body.Close()
		gt.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("stats require auth", func(t *testing.T) {
		resp := getWithToken(t, ts.URL+"/api/alerts/stats", "")
		defer resp.Body.Close()
		gt.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("stats require the supervisor role", func(t *testing.T) {
		junior := loginAs(t, ts, "junior", "s3cret")
		resp := getWithToken(t, ts.URL+"/api/alerts/stats", junior.AccessToken)
		defer resp.Body.Close()
		gt.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("stats reflect ingested alerts", func(t *testing.T) {
		resp := getWithToken(t, ts.URL+"/api/alerts/stats", pair.AccessToken)
		gt.Equal(t, http.StatusOK, resp.StatusCode)

		stats := decodeJSON[model.AlertStats](t, resp)
		gt.Equal(t, 1, stats.Total)
		gt.Equal(t, []model.StatsBucket{{Key: "critical", Count: 1}}, stats.BySeverity)
		gt.Equal(t, []model.StatsBucket{{Key: "email", Count: 1}}, stats.ByChannel)
		gt.Equal(t, 1, len(stats.OverTime))
	})

	t.Run("stats reject a malformed date filter", func(t *testing.T) {
		resp := getWithToken(t, ts.URL+"/api/alerts/stats?date_from=yesterday", pair.AccessToken)
		defer resp.Body.Close()
		gt.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list returns a paginated envelope", func(t *testing.T) {
		resp := getWithToken(t, ts.URL+"/api/alerts/", pair.AccessToken)
		gt.Equal(t, http.StatusOK, resp.StatusCode)

		list := decodeJSON[model.AlertList](t, resp)
		gt.Equal(t, 1, list.Total)
		gt.Equal(t, 1, len(list.Items))
	})

	t.Run("list rejects an invalid limit", func(t *testing.T) {
		resp := getWithToken(t, ts.URL+"/api/alerts/?limit=zero", pair.AccessToken)
		defer resp.Body.Close()
		gt.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

// brokenRepo fails every alert write to exercise storage error handling
type brokenRepo struct {
	interfaces.Repository
}

func (b *brokenRepo) SaveAlert(ctx context.Context, alert *model.Alert) error {
	return goerr.New("storage unavailable")
}

func TestIngestHookStorageFailure(t *testing.T) {
	ts, _ := newTestServerWithRepo(t, &brokenRepo{Repository: repository.NewMemory()})

	resp := postJSON(t, ts.URL+"/hooks/alert", map[string]any{
		"title":    "Suspicious sign-in",
		"severity": "high",
		"channel":  "email",
	})
	defer resp.Body.Close()
	gt.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
