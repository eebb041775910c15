// Package notify delivers best-effort outbound notifications.
//
// Delivery is decidedly not transactional with the action that triggered
// it: a registration that committed stays committed whether or not the
// confirmation mail goes out. Failures are logged and dropped.
package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Notifier sends a single notification to a recipient.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPNotifier delivers mail through a plain SMTP relay.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPNotifier constructs an SMTPNotifier. auth may be nil for
// unauthenticated relays.
func NewSMTPNotifier(addr, from string, auth smtp.Auth) *SMTPNotifier {
	return &SMTPNotifier{addr: addr, from: from, auth: auth}
}

// Send delivers one message. The context deadline is not plumbed into
// net/smtp's dialer; the dispatcher bounds total send time instead.
func (n *SMTPNotifier) Send(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.from, to, subject, body)
	if err := smtp.SendMail(n.addr, n.auth, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogNotifier writes notifications to the log instead of delivering them.
// Used in development and tests when no SMTP relay is configured.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Send logs the notification and reports success.
func (n *LogNotifier) Send(_ context.Context, to, subject, body string) error {
	n.log.Info("notification (log sink)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}
