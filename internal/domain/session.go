package domain

import (
	"github.com/google/uuid"
)

// TurnRole identifies who produced a conversation turn
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// Turn is one utterance in a negotiation conversation
type Turn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// Directive is a structured reschedule proposal extracted from assistant
// free text. Date and Time are trimmed but otherwise unvalidated; malformed
// values are accepted here and surface to the user later.
type Directive struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// ConversationSession holds the mutable state of one customer's reschedule
// negotiation over one work order. Purely in-memory; it lives exactly as
// long as the customer keeps the conversation open and does not survive a
// process restart.
//
// SystemContext is rendered once from the appointment snapshot at session
// start and stays fixed until the session is reset. History is append-only,
// insertion order significant. PendingDirective carries the most recent
// parsed proposal and is cleared when applied or superseded by a reset.
type ConversationSession struct {
	ID               uuid.UUID  `json:"id"`
	WorkOrder        string     `json:"work_order"`
	SystemContext    string     `json:"-"`
	History          []Turn     `json:"history"`
	PendingDirective *Directive `json:"pending_directive,omitempty"`
}
