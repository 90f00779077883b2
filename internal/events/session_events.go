package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/interview-sim/interview-service/internal/models"
)

type SessionEventType string

const (
	SessionStarted   SessionEventType = "session.started"
	SessionSubmitted SessionEventType = "session.submitted"
	SessionEvaluated SessionEventType = "session.evaluated"
	SessionReset     SessionEventType = "session.reset"
)

// SessionEvent is published at each coarse step of a practice session so
// downstream consumers (analytics, notifications) can follow the flow without
// polling the service.
type SessionEvent struct {
	ID        string           `json:"id"`
	Type      SessionEventType `json:"type"`
	SessionID string           `json:"session_id"`
	Position  string           `json:"position,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Source    string           `json:"source"`
	Version   string           `json:"version"`

	// Evaluation summary, present on session.evaluated only.
	TotalScore *float64         `json:"total_score,omitempty"`
	TotalBand  models.ScoreBand `json:"total_band,omitempty"`
}

func newSessionEvent(eventType SessionEventType, sessionID, position string) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Position:  position,
		Timestamp: time.Now(),
		Source:    "interview-service",
		Version:   "1.0",
	}
}

func NewSessionStartedEvent(sessionID, position string) *SessionEvent {
	return newSessionEvent(SessionStarted, sessionID, position)
}

func NewSessionSubmittedEvent(sessionID, position string) *SessionEvent {
	return newSessionEvent(SessionSubmitted, sessionID, position)
}

func NewSessionEvaluatedEvent(sessionID, position string, totalScore float64, band models.ScoreBand) *SessionEvent {
	e := newSessionEvent(SessionEvaluated, sessionID, position)
	e.TotalScore = &totalScore
	e.TotalBand = band
	return e
}

func NewSessionResetEvent(sessionID string) *SessionEvent {
	return newSessionEvent(SessionReset, sessionID, "")
}
