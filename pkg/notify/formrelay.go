package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/logger"
)

// FormRelay posts a subject/message pair to a third-party form-relay
// endpoint. Single attempt; the pipeline swallows failures.
type FormRelay struct {
	httpClient *resty.Client
	relayURL   string
}

type formRelayPayload struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	From    string `json:"from_name"`
}

func NewFormRelay(cfg environments.NotifyConfig) *FormRelay {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &FormRelay{
		httpClient: client,
		relayURL:   cfg.FormRelayURL,
	}
}

func (f *FormRelay) NotifyLead(ctx context.Context, lead domain.Lead) error {
	payload := formRelayPayload{
		Subject: leadSubject(lead),
		Message: leadBody(lead),
		From:    "Website Chatbot",
	}

	startTime := time.Now()

	resp, err := f.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(f.relayURL)

	duration := time.Since(startTime)

	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	logger.Infof("Form relay request for lead %s completed in %v (status: %d)", lead.ID, duration, resp.StatusCode())

	if !resp.IsSuccess() {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
