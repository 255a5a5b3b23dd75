package vector

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

type Filters struct {
	CompanyID        string
	FounderID        string
	EmbeddingVersion string
}

// Hit is one row of a similarity search over the documents table.
type Hit struct {
	DocumentID  string
	SourceKind  string
	Title       string
	Content     string
	ExternalURL string
	CompanyID   string
	FounderID   string
	CreatedAt   string
	Score       float64
}

type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Index runs cosine similarity search over pgvector embeddings. Every query
// is scoped to a user namespace, so one user's documents can never surface
// for another.
type Index struct {
	q Queryer
}

func NewIndex(q Queryer) *Index {
	return &Index{q: q}
}

func (ix *Index) Search(ctx context.Context, userID string, queryVec []float32, topK int, filters Filters) ([]Hit, error) {
	if topK <= 0 {
		topK = 15
	}
	args := []any{userID, ToLiteral(queryVec), topK}
	filterSQL := ""
	if strings.TrimSpace(filters.CompanyID) != "" {
		args = append(args, filters.CompanyID)
		filterSQL += fmt.Sprintf(" AND d.company_id = $%d", len(args))
	}
	if strings.TrimSpace(filters.FounderID) != "" {
		args = append(args, filters.FounderID)
		filterSQL += fmt.Sprintf(" AND d.founder_id = $%d", len(args))
	}
	if strings.TrimSpace(filters.EmbeddingVersion) != "" {
		args = append(args, filters.EmbeddingVersion)
		filterSQL += fmt.Sprintf(" AND d.embedding_version = $%d", len(args))
	}

	query := `
SELECT d.document_id,
       d.source_kind,
       COALESCE(d.title, '') AS title,
       d.content,
       COALESCE(d.external_url, '') AS external_url,
       COALESCE(d.company_id, '') AS company_id,
       COALESCE(d.founder_id, '') AS founder_id,
       to_char(d.created_at, 'YYYY-MM-DD') AS created_at,
       1 - (d.embedding <=> $2::vector) AS score
FROM documents d
WHERE d.user_id = $1
  AND d.embedding IS NOT NULL` + filterSQL + `
ORDER BY d.embedding <=> $2::vector
LIMIT $3`

	rows, err := ix.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vector search: %w", err)
	}
	defer rows.Close()

	hits := make([]Hit, 0, topK)
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.DocumentID, &h.SourceKind, &h.Title, &h.Content, &h.ExternalURL, &h.CompanyID, &h.FounderID, &h.CreatedAt, &h.Score); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return hits, nil
}

func ToLiteral(v []float32) string {
	parts := make([]string, 0, len(v))
	for _, x := range v {
		parts = append(parts, fmt.Sprintf("%f", x))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
