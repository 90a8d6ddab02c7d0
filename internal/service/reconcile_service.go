package service

import (
	"context"
	"fmt"

	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
	"github.com/arjunkapoor/chatbot-lead-service/pkg/logger"
)

type fallbackRepository interface {
	GetUnreconciled(ctx context.Context, limit int) ([]domain.FallbackRecord, error)
	MarkReconciled(ctx context.Context, id int64) error
}

// ReconcileService replays fallback-stored leads whose primary submission
// failed at capture time. It only retries channel 1; the dialog pipeline is
// never re-run, so the per-session exactly-once invariant holds.
type ReconcileService struct {
	repo      fallbackRepository
	crm       primaryClient
	batchSize int
}

func NewReconcileService(repo fallbackRepository, crm primaryClient, batchSize int) *ReconcileService {
	return &ReconcileService{
		repo:      repo,
		crm:       crm,
		batchSize: batchSize,
	}
}

// ReconcileFallbackLeads resubmits up to the batch size of pending fallback
// rows to the primary store and marks the accepted ones reconciled.
func (s *ReconcileService) ReconcileFallbackLeads(ctx context.Context) ([]domain.ReconcileResult, error) {
	records, err := s.repo.GetUnreconciled(ctx, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get unreconciled leads: %w", err)
	}

	if len(records) == 0 {
		logger.Debugf("No fallback leads to reconcile")
		return nil, nil
	}

	logger.Infof("Reconciling %d fallback leads", len(records))

	results := make([]domain.ReconcileResult, 0, len(records))
	for _, rec := range records {
		results = append(results, s.reconcile(ctx, rec))
	}

	return results, nil
}

func (s *ReconcileService) reconcile(ctx context.Context, rec domain.FallbackRecord) domain.ReconcileResult {
	result := domain.ReconcileResult{
		FallbackID: rec.ID,
		LeadID:     rec.LeadID,
	}

	lead := domain.Lead{
		ID:        rec.LeadID,
		Name:      rec.Name,
		Phone:     rec.Phone,
		Status:    "new",
		CreatedAt: rec.LeadCreatedAt,
	}

	if err := s.crm.SubmitLead(ctx, lead); err != nil {
		logger.Warnf("Reconcile attempt failed for lead %s: %v", rec.LeadID, err)
		result.Error = err
		return result
	}

	if err := s.repo.MarkReconciled(ctx, rec.ID); err != nil {
		logger.Errorf("Failed to mark lead %s reconciled: %v", rec.LeadID, err)
		result.Error = err
		return result
	}

	logger.Infof("Reconciled fallback lead %s into primary store", rec.LeadID)
	result.Success = true

	return result
}
