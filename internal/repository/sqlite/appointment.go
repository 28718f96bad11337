package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fieldserve/appointments/internal/domain"
)

// AppointmentRepository implements domain.AppointmentRepository on the
// appointments table. Rows come back in rowid order, matching the insertion
// order of the source sheet.
type AppointmentRepository struct {
	db *DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `work_order, customer_name, customer_email, address, postal_code,
	       appointment_date, appointment_time, status, tech_id`

func (r *AppointmentRepository) ReadAll(ctx context.Context) ([]domain.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments
		ORDER BY rowid
	`, appointmentColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read appointments: %w", err)
	}
	defer rows.Close()

	var appts []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) GetByWorkOrder(ctx context.Context, workOrder string) (*domain.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE work_order = ?
	`, appointmentColumns)

	row := r.db.QueryRowContext(ctx, query, workOrder)
	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &a, nil
}

// UpdateSchedule mutates the date, time and status of exactly one row,
// identified by work order. The key itself is never touched and a miss
// leaves the table byte-identical.
func (r *AppointmentRepository) UpdateSchedule(ctx context.Context, workOrder, date, timeOfDay string, status domain.Status) error {
	query := `
		UPDATE appointments
		SET appointment_date = ?, appointment_time = ?, status = ?
		WHERE work_order = ?
	`
	res, err := r.db.ExecContext(ctx, query, date, timeOfDay, string(status), workOrder)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(s rowScanner) (domain.Appointment, error) {
	var a domain.Appointment
	var date, timeOfDay sql.NullString
	err := s.Scan(
		&a.WorkOrder,
		&a.CustomerName,
		&a.CustomerEmail,
		&a.Address,
		&a.PostalCode,
		&date,
		&timeOfDay,
		&a.Status,
		&a.TechID,
	)
	if err != nil {
		return domain.Appointment{}, err
	}
	a.AppointmentDate = date.String
	a.AppointmentTime = timeOfDay.String
	return a, nil
}
