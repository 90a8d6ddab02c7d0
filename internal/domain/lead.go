package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lead is the contact record captured once phone validation succeeds.
// It is immutable after construction.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Service   string    `json:"service"`
	City      string    `json:"city"`
	Budget    string    `json:"budget"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewLead builds a lead with a collision-safe id (time prefix + random suffix).
func NewLead(name, phone string) Lead {
	now := time.Now()
	return Lead{
		ID:        fmt.Sprintf("lead_%d_%s", now.UnixMilli(), uuid.NewString()[:8]),
		Name:      name,
		Phone:     phone,
		Status:    "new",
		CreatedAt: now,
	}
}

// SubmissionOutcome records which of the three channels accepted the lead.
// Transient; it only drives the confirmation copy and the fallback record.
type SubmissionOutcome struct {
	PrimaryOk  bool `json:"primaryOk"`
	NotifyOk   bool `json:"notifyOk"`
	FallbackOk bool `json:"fallbackOk"`
}

// Success is true when at least one channel accepted the lead.
func (o SubmissionOutcome) Success() bool {
	return o.PrimaryOk || o.NotifyOk || o.FallbackOk
}

type ReconcileStatus string

const (
	ReconcilePending ReconcileStatus = "pending"
	ReconcileDone    ReconcileStatus = "reconciled"
	ReconcileSkipped ReconcileStatus = "skipped" // primary already succeeded at capture time
)

// FallbackRecord is a row of the local fallback store, keyed uniquely per lead.
type FallbackRecord struct {
	ID              int64           `db:"id" json:"id"`
	FallbackKey     string          `db:"fallback_key" json:"fallbackKey"`
	LeadID          string          `db:"lead_id" json:"leadId"`
	Name            string          `db:"name" json:"name"`
	Phone           string          `db:"phone" json:"phone"`
	PrimaryOk       bool            `db:"primary_ok" json:"primaryOk"`
	NotifyOk        bool            `db:"notify_ok" json:"notifyOk"`
	ReconcileStatus ReconcileStatus `db:"reconcile_status" json:"reconcileStatus"`
	RecordedAt      time.Time       `db:"recorded_at" json:"recordedAt"`
	ReconciledAt    *time.Time      `db:"reconciled_at" json:"reconciledAt,omitempty"`
	LeadCreatedAt   time.Time       `db:"lead_created_at" json:"leadCreatedAt"`
}

// FallbackKey derives the store key for a lead id.
func FallbackKey(leadID string) string {
	return "chatbot_lead_" + leadID
}

// SubmittedLeadCache is the valkey-side bookkeeping entry written after a
// pipeline run (bonus observability, never a source of truth).
type SubmittedLeadCache struct {
	Lead        Lead              `json:"lead"`
	Outcome     SubmissionOutcome `json:"outcome"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// ReconcileResult reports one reconciler replay attempt.
type ReconcileResult struct {
	FallbackID int64
	LeadID     string
	Success    bool
	Error      error
}
