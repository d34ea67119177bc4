package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
	"github.com/umbrella-sec/umbrella/pkg/metrics"
	"github.com/umbrella-sec/umbrella/pkg/usecase"
)

// AlertsHandler handles alert statistics, listing and ingestion endpoints
type AlertsHandler struct {
	alertsUC usecase.AlertsUseCase
	mtr      *metrics.Metrics
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(alertsUC usecase.AlertsUseCase, mtr *metrics.Metrics) *AlertsHandler {
	return &AlertsHandler{
		alertsUC: alertsUC,
		mtr:      mtr,
	}
}

// parseDate accepts RFC3339 timestamps and plain dates
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid date", goerr.V("value", value))
	}
	return t, nil
}

// HandleStats returns aggregate alert statistics
func (h *AlertsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	var filter model.StatsFilter

	q := r.URL.Query()
	if v := q.Get("date_from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		filter.DateFrom = t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		filter.DateTo = t
	}
	if v := q.Get("severity"); v != "" {
		filter.Severity = types.Severity(v)
	}

	stats, err := h.alertsUC.GetStats(r.Context(), &filter)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, stats)
}

// HandleList returns a filtered, paginated alert listing
func (h *AlertsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filter model.ListFilter

	q := r.URL.Query()
	if v := q.Get("severity"); v != "" {
		filter.Severity = types.Severity(v)
	}
	if v := q.Get("status"); v != "" {
		filter.Status = types.AlertStatus(v)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		filter.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		filter.Limit = n
	}

	list, err := h.alertsUC.List(r.Context(), &filter)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, list)
}

// HandleIngestHook accepts an alert from the upstream pipeline
func (h *AlertsHandler) HandleIngestHook(w http.ResponseWriter, r *http.Request) {
	var alert model.Alert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		return
	}

	saved, err := h.alertsUC.Ingest(r.Context(), &alert)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	h.mtr.RecordAlertIngested(saved.Severity.String())

	writeJSON(r.Context(), w, http.StatusCreated, saved)
}
