package service

import (
	"context"
	"strings"

	"github.com/fieldserve/appointments/internal/domain"
	"github.com/fieldserve/appointments/internal/notifier"
	"github.com/rs/zerolog/log"
)

// DashboardService backs the technician view: listing, filtering, summary
// metrics and the per-row actions.
type DashboardService struct {
	repo   domain.AppointmentRepository
	mailer notifier.Notifier // nil when SMTP is not configured
}

// Summary holds the dashboard headline metrics.
type Summary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
}

// NewDashboardService creates a new dashboard service. mailer may be nil;
// the late-alert action then reports the feature as disabled.
func NewDashboardService(repo domain.AppointmentRepository, mailer notifier.Notifier) *DashboardService {
	return &DashboardService{repo: repo, mailer: mailer}
}

// List returns the filtered appointment table.
func (s *DashboardService) List(ctx context.Context, statuses []domain.Status, techIDs []string, search string) ([]domain.Appointment, error) {
	appts, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAppointments(appts, statuses, techIDs, search), nil
}

// Summarize computes the headline metrics over the whole table.
func (s *DashboardService) Summarize(ctx context.Context) (*Summary, error) {
	appts, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Total: len(appts)}
	for _, a := range appts {
		switch a.Status {
		case domain.StatusPending, domain.StatusEmailSent:
			sum.Pending++
		case domain.StatusConfirmed:
			sum.Confirmed++
		case domain.StatusCompleted:
			sum.Completed++
		}
	}
	return sum, nil
}

// MarkComplete sets an appointment's status to Completed, keeping its
// scheduled slot.
func (s *DashboardService) MarkComplete(ctx context.Context, workOrder string) error {
	appt, err := s.repo.GetByWorkOrder(ctx, workOrder)
	if err != nil {
		return err
	}
	return s.repo.UpdateSchedule(ctx, workOrder, appt.AppointmentDate, appt.AppointmentTime, domain.StatusCompleted)
}

// ConfirmAppointment is the customer quick-confirm: a Pending or Email Sent
// appointment keeps its slot and becomes Confirmed.
func (s *DashboardService) ConfirmAppointment(ctx context.Context, workOrder string) error {
	appt, err := s.repo.GetByWorkOrder(ctx, workOrder)
	if err != nil {
		return err
	}
	if appt.Status != domain.StatusPending && appt.Status != domain.StatusEmailSent {
		return domain.ErrNotConfirmable
	}
	return s.repo.UpdateSchedule(ctx, workOrder, appt.AppointmentDate, appt.AppointmentTime, domain.StatusConfirmed)
}

// SendLateAlert emails the customer that the technician is running behind.
func (s *DashboardService) SendLateAlert(ctx context.Context, workOrder string) error {
	if s.mailer == nil {
		return domain.ErrFeatureDisabled
	}

	appt, err := s.repo.GetByWorkOrder(ctx, workOrder)
	if err != nil {
		return err
	}

	subject, body, err := notifier.BuildLateAlert(*appt)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, appt.CustomerEmail, subject, body); err != nil {
		return err
	}

	log.Info().
		Str("work_order", workOrder).
		Str("to", appt.CustomerEmail).
		Msg("late alert sent")
	return nil
}

// FilterAppointments keeps rows whose status and technician match the
// selectors (an empty selector matches everything) and whose work order or
// customer name contains the search text, case-insensitively. Iteration
// order is preserved.
func FilterAppointments(appts []domain.Appointment, statuses []domain.Status, techIDs []string, search string) []domain.Appointment {
	statusSet := make(map[domain.Status]struct{}, len(statuses))
	for _, st := range statuses {
		statusSet[st] = struct{}{}
	}
	techSet := make(map[string]struct{}, len(techIDs))
	for _, id := range techIDs {
		techSet[id] = struct{}{}
	}
	search = strings.ToLower(strings.TrimSpace(search))

	filtered := make([]domain.Appointment, 0, len(appts))
	for _, a := range appts {
		if len(statusSet) > 0 {
			if _, ok := statusSet[a.Status]; !ok {
				continue
			}
		}
		if len(techSet) > 0 {
			if _, ok := techSet[a.TechID]; !ok {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.WorkOrder), search) &&
			!strings.Contains(strings.ToLower(a.CustomerName), search) {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}
