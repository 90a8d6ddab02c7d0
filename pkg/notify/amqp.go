package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
)

// LeadCapturedPayload is the event published for downstream consumers
// (CRM sync workers, analytics) when a lead is captured.
type LeadCapturedPayload struct {
	LeadID     string    `json:"lead_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Status     string    `json:"status"`
	CapturedAt time.Time `json:"captured_at"`
}

// Publisher publishes lead-captured events to a RabbitMQ exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	key      string
}

func NewPublisher(cfg environments.NotifyConfig) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.AMQPExchange, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		ch:       ch,
		exchange: cfg.AMQPExchange,
		key:      cfg.AMQPKey,
	}, nil
}

func (p *Publisher) NotifyLead(ctx context.Context, lead domain.Lead) error {
	payload := LeadCapturedPayload{
		LeadID:     lead.ID,
		Name:       lead.Name,
		Phone:      lead.Phone,
		Status:     lead.Status,
		CapturedAt: lead.CreatedAt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		p.exchange,
		p.key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish lead event: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
