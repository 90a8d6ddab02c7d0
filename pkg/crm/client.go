package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/logger"
)

// Client talks to the primary lead store (the external CRM API). Retrying is
// owned by the caller's retry policy, so the client itself does exactly one
// request per call.
type Client struct {
	httpClient *resty.Client
	baseURL    string
}

func NewClient(cfg environments.CRMConfig) *Client {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(cfg.APIToken)

	return &Client{
		httpClient: client,
		baseURL:    cfg.URL,
	}
}

// SubmitLead POSTs the captured lead; any 2xx response counts as accepted.
func (c *Client) SubmitLead(ctx context.Context, lead domain.Lead) error {
	startTime := time.Now()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(lead).
		Post(c.baseURL + "/leads")

	duration := time.Since(startTime)

	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	logger.Infof("CRM request for lead %s completed in %v (status: %d)", lead.ID, duration, resp.StatusCode())

	if !resp.IsSuccess() {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode(), resp.String())
	}

	return nil
}

func (c *Client) GetURL() string {
	return c.baseURL
}
