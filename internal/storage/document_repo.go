package storage

import (
	"context"
	"fmt"

	"dealflow/internal/models"
)

// DocumentInsert pairs an index row with its embedding literal. A nil
// EmbeddingVector leaves the embedding column NULL.
type DocumentInsert struct {
	Record          models.DocumentRecord
	EmbeddingVector *string
}

type DocumentRepo struct {
	db *DB
}

func NewDocumentRepo(db *DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) InsertDocuments(ctx context.Context, docs []DocumentInsert) error {
	if len(docs) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx insert documents: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, d := range docs {
		rec := d.Record
		_, err := tx.Exec(ctx, `
INSERT INTO documents (document_id, user_id, source_kind, title, content, external_url, company_id, founder_id, embedding_version, embedding)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, CASE WHEN $10::text IS NULL THEN NULL ELSE $10::vector END)
ON CONFLICT (document_id)
DO UPDATE SET
  content = EXCLUDED.content,
  embedding_version = EXCLUDED.embedding_version,
  embedding = COALESCE(EXCLUDED.embedding, documents.embedding)`,
			rec.DocumentID, rec.UserID, rec.SourceKind, rec.Title, rec.Content, rec.ExternalURL, rec.CompanyID, rec.FounderID, rec.EmbeddingVersion, d.EmbeddingVector,
		)
		if err != nil {
			return fmt.Errorf("insert document %s: %w", rec.DocumentID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit documents tx: %w", err)
	}
	return nil
}

func (r *DocumentRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE user_id=$1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}
