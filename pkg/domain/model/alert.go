package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

// Alert represents an alert raised by the detection pipeline
type Alert struct {
	ID        types.AlertID     `json:"id" firestore:"id"`
	Title     string            `json:"title" firestore:"title"`
	Channel   types.Channel     `json:"channel" firestore:"channel"`
	Severity  types.Severity    `json:"severity" firestore:"severity"`
	Status    types.AlertStatus `json:"status" firestore:"status"`
	RiskScore float64           `json:"risk_score,omitempty" firestore:"risk_score"`
	CreatedAt time.Time         `json:"created_at" firestore:"created_at"`
}

// Validate checks the alert fields required for persistence
func (a *Alert) Validate() error {
	if a.ID == "" {
		return goerr.New("alert ID is required")
	}
	if a.Title == "" {
		return goerr.New("alert title is required")
	}
	if !a.Severity.IsValid() {
		return goerr.New("invalid alert severity", goerr.V("severity", a.Severity))
	}
	if !a.Status.IsValid() {
		return goerr.New("invalid alert status", goerr.V("status", a.Status))
	}
	return nil
}
