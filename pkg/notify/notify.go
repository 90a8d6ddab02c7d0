// Package notify implements the single-attempt notification channel of the
// lead submission pipeline. The driver is chosen by configuration: an HTTP
// form relay (default), an SMTP mail to the sales inbox, or an AMQP publish
// for downstream consumers.
package notify

import (
	"context"
	"fmt"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
)

type Notifier interface {
	NotifyLead(ctx context.Context, lead domain.Lead) error
}

// NewFromConfig builds the configured notifier. The AMQP driver dials its
// broker here, so a broken broker surfaces at startup rather than mid-dialog.
func NewFromConfig(cfg environments.NotifyConfig) (Notifier, error) {
	switch cfg.Driver {
	case "formrelay":
		return NewFormRelay(cfg), nil
	case "smtp":
		return NewMailer(cfg), nil
	case "amqp":
		return NewPublisher(cfg)
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.Driver)
	}
}

// leadSubject and leadBody derive the human-readable notification content
// used by the formrelay and smtp drivers.
func leadSubject(lead domain.Lead) string {
	return fmt.Sprintf("New chatbot lead: %s", lead.Name)
}

func leadBody(lead domain.Lead) string {
	return fmt.Sprintf(
		"A new lead was captured by the website chatbot.\n\nName: %s\nPhone: %s\nLead ID: %s\nCaptured at: %s\n",
		lead.Name, lead.Phone, lead.ID, lead.CreatedAt.Format("2006-01-02 15:04:05"),
	)
}
