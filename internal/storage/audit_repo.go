package storage

import (
	"context"
	"fmt"

	"dealflow/internal/models"
)

type AuditRepo struct {
	db *DB
}

func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, rec models.RetrievalAudit) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO retrieval_audits(audit_id, user_id, message, company_id, web_triggered, internal_count, external_count, duration_ms)
VALUES (COALESCE(NULLIF($1,'')::uuid, gen_random_uuid()), $2, $3, NULLIF($4,''), $5, $6, $7, $8)`,
		rec.AuditID, rec.UserID, rec.Message, rec.CompanyID, rec.WebTriggered, rec.InternalCount, rec.ExternalCount, rec.DurationMS)
	if err != nil {
		return fmt.Errorf("insert retrieval audit: %w", err)
	}
	return nil
}

func (r *AuditRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.RetrievalAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT audit_id::text, user_id, message, COALESCE(company_id, ''), web_triggered, internal_count, external_count, duration_ms, created_at
FROM retrieval_audits
WHERE user_id=$1
ORDER BY created_at DESC
LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list retrieval audits: %w", err)
	}
	defer rows.Close()
	out := make([]models.RetrievalAudit, 0, limit)
	for rows.Next() {
		var a models.RetrievalAudit
		if err := rows.Scan(&a.AuditID, &a.UserID, &a.Message, &a.CompanyID, &a.WebTriggered, &a.InternalCount, &a.ExternalCount, &a.DurationMS, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan retrieval audit: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate retrieval audits: %w", err)
	}
	return out, nil
}
