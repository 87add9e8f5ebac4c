package port

import "context"

// Mailer delivers outbound mail. Implementations must honor the context
// deadline so a slow transport cannot stall the caller.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
