package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/arjunkapoor/chatbot-lead-service/environments"
	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/logger"
)

// Client caches submitted-lead outcomes in valkey. This is bookkeeping for
// operators, never a source of truth; the service runs fine without it.
type Client struct {
	client valkey.Client
}

const (
	submittedLeadKeyPrefix = "submitted_lead:"
	submittedLeadTTL       = 24 * time.Hour
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	return &Client{client: client}, nil
}

func (c *Client) CacheSubmittedLead(
	ctx context.Context,
	lead domain.Lead,
	outcome domain.SubmissionOutcome,
	at time.Time,
) error {
	entry := domain.SubmittedLeadCache{
		Lead:        lead,
		Outcome:     outcome,
		SubmittedAt: at,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	key := submittedLeadKeyPrefix + lead.ID

	err = c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(data)).Ex(submittedLeadTTL).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to cache submitted lead: %w", err)
	}

	logger.Debugf("Cached submitted lead %s in Redis", lead.ID)

	return nil
}

func (c *Client) GetSubmittedLead(ctx context.Context, leadID string) (*domain.SubmittedLeadCache, error) {
	key := submittedLeadKeyPrefix + leadID

	result := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if result.Error() != nil {
		if valkey.IsValkeyNil(result.Error()) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached lead: %w", result.Error())
	}

	data, err := result.ToString()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached lead: %w", err)
	}

	var entry domain.SubmittedLeadCache
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	return &entry, nil
}

func (c *Client) GetAllSubmittedLeads(ctx context.Context) (map[string]*domain.SubmittedLeadCache, error) {
	pattern := submittedLeadKeyPrefix + "*"

	var keys []string
	var cursor uint64
	for {
		result := c.client.Do(ctx, c.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build())
		if result.Error() != nil {
			return nil, fmt.Errorf("failed to scan cache keys: %w", result.Error())
		}

		scanResult, err := result.AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to parse scan result: %w", err)
		}

		keys = append(keys, scanResult.Elements...)
		cursor = scanResult.Cursor

		if cursor == 0 {
			break
		}
	}

	entries := make(map[string]*domain.SubmittedLeadCache)

	for _, key := range keys {
		getResult := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
		if getResult.Error() != nil {
			continue
		}

		data, err := getResult.ToString()
		if err != nil {
			continue
		}

		var entry domain.SubmittedLeadCache
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			continue
		}

		entries[entry.Lead.ID] = &entry
	}

	return entries, nil
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
