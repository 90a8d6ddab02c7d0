package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
)

// Mailer sends the lead notification to the sales inbox over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewMailer(cfg environments.NotifyConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
		to:     cfg.MailTo,
	}
}

func (m *Mailer) NotifyLead(_ context.Context, lead domain.Lead) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", leadSubject(lead))
	msg.SetBody("text/plain", leadBody(lead))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send notification mail: %w", err)
	}

	return nil
}
