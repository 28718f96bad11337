package notifier

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/fieldserve/appointments/internal/domain"
)

var lateAlertTmpl = template.Must(template.New("late_alert").Parse(`
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #ff6b6b;">Service Update - Running Late</h2>

        <p>Dear {{.CustomerName}},</p>

        <p>We wanted to inform you that our technician is running slightly behind schedule and may arrive later than your scheduled appointment time.</p>

        <div style="background-color: #f8f9fa; padding: 15px; border-left: 4px solid #ff6b6b; margin: 20px 0;">
            <strong>Your Appointment Details:</strong><br>
            Work Order: {{.WorkOrder}}<br>
            Scheduled: {{.Date}} at {{.Time}}<br>
            Address: {{.Address}}<br>
            Technician: {{.TechID}}
        </div>

        <p>We apologize for any inconvenience this may cause. If you need to reschedule, please use the link provided in your original confirmation email.</p>

        <p>Thank you for your patience and understanding.</p>

        <p style="margin-top: 30px;">
            Best regards,<br>
            <strong>Field Service Team</strong>
        </p>
    </div>
</body>
</html>
`))

type lateAlertData struct {
	CustomerName string
	WorkOrder    string
	Date         string
	Time         string
	Address      string
	TechID       string
}

// BuildLateAlert renders the running-late email for one appointment.
func BuildLateAlert(appt domain.Appointment) (subject, htmlBody string, err error) {
	data := lateAlertData{
		CustomerName: appt.CustomerName,
		WorkOrder:    appt.WorkOrder,
		Date:         appt.AppointmentDate,
		Time:         appt.AppointmentTime,
		Address:      appt.Address,
		TechID:       appt.TechID,
	}
	if data.Date == "" {
		data.Date = "N/A"
	}
	if data.Time == "" {
		data.Time = "N/A"
	}

	var buf bytes.Buffer
	if err := lateAlertTmpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render late alert: %w", err)
	}

	subject = fmt.Sprintf("Update: Your Service Appointment - Work Order %s", appt.WorkOrder)
	return subject, buf.String(), nil
}
