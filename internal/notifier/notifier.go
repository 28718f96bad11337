package notifier

import "context"

// Notifier delivers a formatted email to a customer address.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
