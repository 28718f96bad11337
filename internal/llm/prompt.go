package llm

import (
	"fmt"

	"github.com/fieldserve/appointments/internal/domain"
)

// DirectiveMarker is the literal token the assistant is instructed to emit
// when the customer has settled on a new slot. The parser in directive.go
// scans replies for this exact marker; the two sides of the contract must
// never drift apart.
const DirectiveMarker = "RESCHEDULE_REQUEST:"

// BuildSystemContext renders the fixed instruction template for one
// appointment. It is built once from the appointment snapshot at session
// start and constrains the assistant's otherwise free-form output into a
// single machine-parseable line when a reschedule is agreed.
func BuildSystemContext(appt domain.Appointment) string {
	date := appt.AppointmentDate
	if date == "" {
		date = "Not set"
	}
	timeOfDay := appt.AppointmentTime
	if timeOfDay == "" {
		timeOfDay = "Not set"
	}

	return fmt.Sprintf(`You are a helpful appointment scheduling assistant for a field service company.

Current appointment details:
- Work Order: %s
- Customer Name: %s
- Current Date: %s
- Current Time: %s
- Address: %s
- Status: %s

Your job is to:
1. Help the customer reschedule their appointment if needed
2. Ask for their preferred date and time
3. Confirm the new appointment details
4. Be friendly and professional

When the customer provides a new date and time, respond with EXACTLY this format:
%s [date] | [time]

Example: %s 2026-02-20 | 3:00 PM

Important:
- Always ask for BOTH date AND time
- Confirm details before finalizing
- Use format YYYY-MM-DD for dates
- Use 12-hour format for times (e.g., 2:00 PM)`,
		appt.WorkOrder,
		appt.CustomerName,
		date,
		timeOfDay,
		appt.Address,
		appt.Status,
		DirectiveMarker,
		DirectiveMarker,
	)
}
