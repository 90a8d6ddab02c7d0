package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/arjunkapoor/chatbot-lead-service/internal/domain"
)

// FallbackLeadRepository is the local fallback store: a keyed-write table
// that records every captured lead together with the outcomes of the two
// prior channels. It is an emergency durability net, not a source of truth.
type FallbackLeadRepository struct {
	db *sqlx.DB
}

func NewFallbackLeadRepository(db *sqlx.DB) *FallbackLeadRepository {
	return &FallbackLeadRepository{db: db}
}

// Record writes the fallback row for a lead. The key is unique per lead id,
// so concurrent sessions never collide. Rows whose primary submission already
// succeeded are marked skipped; the rest form the reconciliation backlog.
func (r *FallbackLeadRepository) Record(
	ctx context.Context,
	lead domain.Lead,
	primaryOk, notifyOk bool,
) error {
	status := domain.ReconcilePending
	if primaryOk {
		status = domain.ReconcileSkipped
	}

	query := `
		INSERT INTO fallback_leads
			(fallback_key, lead_id, name, phone, primary_ok, notify_ok, reconcile_status, recorded_at, lead_created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		domain.FallbackKey(lead.ID),
		lead.ID,
		lead.Name,
		lead.Phone,
		primaryOk,
		notifyOk,
		status,
		lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record fallback lead: %w", err)
	}

	return nil
}

func (r *FallbackLeadRepository) GetUnreconciled(ctx context.Context, limit int) ([]domain.FallbackRecord, error) {
	query := `
		SELECT id, fallback_key, lead_id, name, phone, primary_ok, notify_ok,
		       reconcile_status, recorded_at, reconciled_at, lead_created_at
		FROM fallback_leads
		WHERE reconcile_status = 'pending'
		ORDER BY recorded_at ASC
		LIMIT ?
	`

	var records []domain.FallbackRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get unreconciled leads: %w", err)
	}

	return records, nil
}

func (r *FallbackLeadRepository) MarkReconciled(ctx context.Context, id int64) error {
	query := `
		UPDATE fallback_leads
		SET reconcile_status = 'reconciled', reconciled_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark lead as reconciled: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("no fallback lead found with id %d", id)
	}

	return nil
}

func (r *FallbackLeadRepository) GetAll(
	ctx context.Context,
	status *domain.ReconcileStatus,
	page, pageSize int,
) ([]domain.FallbackRecord, int64, error) {
	offset := (page - 1) * pageSize
	var totalCount int64
	var records []domain.FallbackRecord

	if status != nil {
		countQuery := "SELECT COUNT(*) FROM fallback_leads WHERE reconcile_status = ?"
		if err := r.db.GetContext(ctx, &totalCount, countQuery, *status); err != nil {
			return nil, 0, fmt.Errorf("failed to count fallback leads: %w", err)
		}

		query := `
			SELECT id, fallback_key, lead_id, name, phone, primary_ok, notify_ok,
			       reconcile_status, recorded_at, reconciled_at, lead_created_at
			FROM fallback_leads
			WHERE reconcile_status = ?
			ORDER BY recorded_at DESC
			LIMIT ? OFFSET ?
		`
		if err := r.db.SelectContext(ctx, &records, query, *status, pageSize, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to get fallback leads: %w", err)
		}

		return records, totalCount, nil
	}

	countQuery := "SELECT COUNT(*) FROM fallback_leads"
	if err := r.db.GetContext(ctx, &totalCount, countQuery); err != nil {
		return nil, 0, fmt.Errorf("failed to count fallback leads: %w", err)
	}

	query := `
		SELECT id, fallback_key, lead_id, name, phone, primary_ok, notify_ok,
		       reconcile_status, recorded_at, reconciled_at, lead_created_at
		FROM fallback_leads
		ORDER BY recorded_at DESC
		LIMIT ? OFFSET ?
	`
	if err := r.db.SelectContext(ctx, &records, query, pageSize, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to get fallback leads: %w", err)
	}

	return records, totalCount, nil
}

// GetStats returns fallback row counts by reconcile status.
func (r *FallbackLeadRepository) GetStats(ctx context.Context) (pending, reconciled, skipped int64, err error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN reconcile_status = 'pending' THEN 1 ELSE 0 END), 0)    AS pending,
			COALESCE(SUM(CASE WHEN reconcile_status = 'reconciled' THEN 1 ELSE 0 END), 0) AS reconciled,
			COALESCE(SUM(CASE WHEN reconcile_status = 'skipped' THEN 1 ELSE 0 END), 0)    AS skipped
		FROM fallback_leads
	`

	var stats struct {
		Pending    int64 `db:"pending"`
		Reconciled int64 `db:"reconciled"`
		Skipped    int64 `db:"skipped"`
	}

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get fallback stats: %w", err)
	}

	return stats.Pending, stats.Reconciled, stats.Skipped, nil
}
