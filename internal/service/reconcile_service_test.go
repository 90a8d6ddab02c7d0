package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
)

type fakeFallbackRepo struct {
	records    []domain.FallbackRecord
	getErr     error
	markErr    error
	gotLimit   int
	reconciled []int64
}

func (f *fakeFallbackRepo) GetUnreconciled(ctx context.Context, limit int) ([]domain.FallbackRecord, error) {
	f.gotLimit = limit
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.records, nil
}

func (f *fakeFallbackRepo) MarkReconciled(ctx context.Context, id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.reconciled = append(f.reconciled, id)
	return nil
}

func pendingRecord(id int64, leadID string) domain.FallbackRecord {
	return domain.FallbackRecord{
		ID:            id,
		FallbackKey:   domain.FallbackKey(leadID),
		LeadID:        leadID,
		Name:          "Priya",
		Phone:         "9876543210",
		LeadCreatedAt: time.Now().Add(-time.Hour),
	}
}

func TestReconcileService_EmptyBacklog(t *testing.T) {
	repo := &fakeFallbackRepo{}
	svc := NewReconcileService(repo, &fakePrimary{}, 50)

	results, err := svc.ReconcileFallbackLeads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if repo.gotLimit != 50 {
		t.Errorf("expected batch size 50 passed down, got %d", repo.gotLimit)
	}
}

func TestReconcileService_RepoFailurePropagates(t *testing.T) {
	repo := &fakeFallbackRepo{getErr: errors.New("db down")}
	svc := NewReconcileService(repo, &fakePrimary{}, 50)

	if _, err := svc.ReconcileFallbackLeads(context.Background()); err == nil {
		t.Fatalf("expected an error when the backlog query fails")
	}
}

func TestReconcileService_SuccessMarksReconciled(t *testing.T) {
	repo := &fakeFallbackRepo{records: []domain.FallbackRecord{
		pendingRecord(1, "lead_1_aaaa"),
		pendingRecord(2, "lead_2_bbbb"),
	}}
	crm := &fakePrimary{}
	svc := NewReconcileService(repo, crm, 50)

	results, err := svc.ReconcileFallbackLeads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Success {
			t.Errorf("expected success for lead %s, got error %v", r.LeadID, r.Error)
		}
	}
	if len(repo.reconciled) != 2 {
		t.Errorf("expected 2 rows marked reconciled, got %d", len(repo.reconciled))
	}
	if crm.calls != 2 {
		t.Errorf("expected 2 primary submissions, got %d", crm.calls)
	}
}

func TestReconcileService_PrimaryFailureLeavesRowPending(t *testing.T) {
	repo := &fakeFallbackRepo{records: []domain.FallbackRecord{pendingRecord(7, "lead_7_cccc")}}
	crm := &fakePrimary{errs: []error{errors.New("still down")}}
	svc := NewReconcileService(repo, crm, 50)

	results, err := svc.ReconcileFallbackLeads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Success {
		t.Errorf("expected failure result")
	}
	if results[0].Error == nil {
		t.Errorf("expected the submit error on the result")
	}
	if len(repo.reconciled) != 0 {
		t.Errorf("expected no rows marked reconciled, got %d", len(repo.reconciled))
	}
}

func TestReconcileService_MarkFailureReported(t *testing.T) {
	repo := &fakeFallbackRepo{
		records: []domain.FallbackRecord{pendingRecord(3, "lead_3_dddd")},
		markErr: errors.New("db down"),
	}
	svc := NewReconcileService(repo, &fakePrimary{}, 50)

	results, err := svc.ReconcileFallbackLeads(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Success {
		t.Errorf("expected failure when the row could not be marked")
	}
}
