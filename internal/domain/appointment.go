package domain

import (
	"context"
	"errors"
)

// Status represents the lifecycle state of an appointment
type Status string

const (
	StatusPending     Status = "Pending"
	StatusEmailSent   Status = "Email Sent"
	StatusConfirmed   Status = "Confirmed"
	StatusRescheduled Status = "Rescheduled"
	StatusCompleted   Status = "Completed"
)

// Appointment is one scheduled field-service job, keyed by work order.
// Date and time are kept as the raw strings the scheduling sheet carries;
// they may be empty when no slot has been set yet.
type Appointment struct {
	WorkOrder       string `json:"work_order"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	Address         string `json:"address"`
	PostalCode      string `json:"postal_code"`
	AppointmentDate string `json:"appointment_date,omitempty"`
	AppointmentTime string `json:"appointment_time,omitempty"`
	Status          Status `json:"status"`
	TechID          string `json:"tech_id"`
}

// Sentinel errors shared across layers. Handlers map these to HTTP statuses.
var (
	// ErrNotFound means no appointment matches the given work order.
	ErrNotFound = errors.New("appointment not found")

	// ErrSessionNotFound means the conversation session ID is unknown
	// (expired by restart, reset, or never created).
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoPendingDirective means confirm was called before the assistant
	// proposed a slot.
	ErrNoPendingDirective = errors.New("no pending reschedule directive")

	// ErrAssistantUnavailable covers any chat completion failure: auth,
	// quota, network, bad model name. Callers treat all of them uniformly.
	ErrAssistantUnavailable = errors.New("assistant unavailable")

	// ErrFeatureDisabled is returned when the credential a feature needs
	// was not configured at startup.
	ErrFeatureDisabled = errors.New("feature disabled: missing configuration")

	// ErrNotConfirmable means a quick-confirm was attempted on an
	// appointment that is not awaiting confirmation.
	ErrNotConfirmable = errors.New("appointment cannot be confirmed in its current status")
)

// AppointmentRepository defines the store contract: a table of appointment
// rows supporting read-all and update-by-key. Update must mutate exactly one
// row in place, never changing row count or key.
type AppointmentRepository interface {
	ReadAll(ctx context.Context) ([]Appointment, error)
	GetByWorkOrder(ctx context.Context, workOrder string) (*Appointment, error)
	UpdateSchedule(ctx context.Context, workOrder, date, timeOfDay string, status Status) error
}
