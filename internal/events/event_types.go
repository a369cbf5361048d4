package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates audit event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserUpdated    EventType = "user_updated"
	EventUserDeleted    EventType = "user_deleted"
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventTokenRejected  EventType = "token_rejected"
)

// Event is an audit record emitted by the auth filter and services. Payloads
// carry identifiers and outcomes only, never tokens or passwords.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with an ID and timestamp.
func NewEvent(eventType EventType, subject string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// UserLifecyclePayload accompanies user_registered/updated/deleted events.
type UserLifecyclePayload struct {
	UserID int64  `json:"user_id"`
	Actor  string `json:"actor,omitempty"`
}

// LoginFailedPayload accompanies login_failed events.
type LoginFailedPayload struct {
	Reason string `json:"reason"`
}

// TokenRejectedPayload accompanies token_rejected events.
type TokenRejectedPayload struct {
	Reason string `json:"reason"`
	URI    string `json:"uri"`
}
