package types

import (
	"github.com/google/uuid"
)

// UserID represents a user identifier
type UserID string

// String returns the string representation
func (id UserID) String() string {
	return string(id)
}

// NewUserID creates a new UserID
func NewUserID() UserID {
	return UserID(uuid.New().String())
}

// AlertID represents an alert identifier
type AlertID string

// String returns the string representation
func (id AlertID) String() string {
	return string(id)
}

// NewAlertID creates a new AlertID using UUID v7 (time-ordered)
func NewAlertID() (AlertID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return AlertID(id.String()), nil
}

// Severity represents an alert severity level
type Severity string

// Severity levels produced by the detection pipeline
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// String returns the string representation
func (s Severity) String() string {
	return string(s)
}

// IsValid checks whether the severity is one of the known levels
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// AlertStatus represents the review state of an alert
type AlertStatus string

// Alert review statuses
const (
	AlertStatusOpen     AlertStatus = "open"
	AlertStatusInReview AlertStatus = "in_review"
	AlertStatusClosed   AlertStatus = "closed"
)

// String returns the string representation
func (s AlertStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is one of the known states
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusOpen, AlertStatusInReview, AlertStatusClosed:
		return true
	}
	return false
}

// RoleSupervisor grants access to alert data and the dashboard
const RoleSupervisor = "supervisor"

// Channel represents the communication channel an alert originated from
type Channel string

// String returns the string representation
func (c Channel) String() string {
	return string(c)
}
