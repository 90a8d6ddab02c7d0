package service

import (
	"context"
	"time"

	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/logger"
)

// Small internal interfaces so the pipeline can be tested without real
// CRM/SMTP/DB/Redis backends.
type primaryClient interface {
	SubmitLead(ctx context.Context, lead domain.Lead) error
}

type notifier interface {
	NotifyLead(ctx context.Context, lead domain.Lead) error
}

type fallbackStore interface {
	Record(ctx context.Context, lead domain.Lead, primaryOk, notifyOk bool) error
}

// LeadCache is exported so main can pass a nil interface when Redis is
// unavailable instead of a typed-nil client.
type LeadCache interface {
	CacheSubmittedLead(ctx context.Context, lead domain.Lead, outcome domain.SubmissionOutcome, at time.Time) error
}

// Pipeline persists a captured lead across three independent channels:
// primary CRM store (with retry), notification, and the local fallback store.
// Channels are fault-isolated; no error ever escapes Submit.
type Pipeline struct {
	crm      primaryClient
	notifier notifier
	fallback fallbackStore
	cache    LeadCache // optional; nil disables post-submission bookkeeping
	retry    RetryPolicy
}

func NewPipeline(
	crm primaryClient,
	notifier notifier,
	fallback fallbackStore,
	cache LeadCache,
	retry RetryPolicy,
) *Pipeline {
	return &Pipeline{
		crm:      crm,
		notifier: notifier,
		fallback: fallback,
		cache:    cache,
		retry:    retry,
	}
}

// Submit attempts all three channels in order, never short-circuiting on
// failure. The outcome is a success when at least one channel accepted the
// lead; the fallback record always carries the two prior channel outcomes.
func (p *Pipeline) Submit(ctx context.Context, lead domain.Lead) domain.SubmissionOutcome {
	var outcome domain.SubmissionOutcome

	if err := p.retry.Do(ctx, func(ctx context.Context) error {
		return p.crm.SubmitLead(ctx, lead)
	}); err != nil {
		logger.Errorf("Primary store rejected lead %s after %d attempts: %v", lead.ID, p.retry.MaxAttempts, err)
	} else {
		outcome.PrimaryOk = true
	}

	if err := p.notifier.NotifyLead(ctx, lead); err != nil {
		logger.Warnf("Notification failed for lead %s: %v", lead.ID, err)
	} else {
		outcome.NotifyOk = true
	}

	if err := p.fallback.Record(ctx, lead, outcome.PrimaryOk, outcome.NotifyOk); err != nil {
		logger.Errorf("Fallback store write failed for lead %s: %v", lead.ID, err)
	} else {
		outcome.FallbackOk = true
	}

	if !outcome.Success() {
		logger.Errorf("All submission channels failed for lead %s", lead.ID)
	}

	if p.cache != nil {
		if err := p.cache.CacheSubmittedLead(ctx, lead, outcome, time.Now()); err != nil {
			logger.Warnf("Failed to cache submitted lead %s: %v", lead.ID, err)
		}
	}

	logger.Infof("Lead %s submitted (primary=%t notify=%t fallback=%t)",
		lead.ID, outcome.PrimaryOk, outcome.NotifyOk, outcome.FallbackOk)

	return outcome
}
