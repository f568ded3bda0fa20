package events

import (
	"time"

	"github.com/spec-kit/ledger-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTokenIssued   EventType = "token_issued"
	EventAuthValidated EventType = "auth_validated"
	EventAuthDenied    EventType = "auth_denied"
)

// Event represents a security event emitted by the auth service. Credentials
// are nil for anonymous denials; the raw API key and bearer values never
// appear in an event.
type Event struct {
	ID          string              `json:"id"`
	Type        EventType           `json:"type"`
	Credentials *domain.Credentials `json:"credentials,omitempty"`
	Reason      string              `json:"reason,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}
