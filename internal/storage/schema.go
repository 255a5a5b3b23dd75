package storage

import (
	"context"
	"fmt"
)

// EnsureSchema creates the tables the service needs. Safe to run on every
// start; requires the pgvector extension to be installed.
func EnsureSchema(ctx context.Context, db *DB, embedDim int) error {
	ddl := fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS documents (
  document_id UUID PRIMARY KEY,
  user_id TEXT NOT NULL,
  source_kind TEXT NOT NULL,
  title TEXT,
  content TEXT NOT NULL,
  external_url TEXT,
  company_id TEXT,
  founder_id TEXT,
  embedding_version TEXT NOT NULL,
  embedding vector(%d),
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_documents_company ON documents(user_id, company_id);

CREATE TABLE IF NOT EXISTS retrieval_audits (
  audit_id UUID PRIMARY KEY,
  user_id TEXT NOT NULL,
  message TEXT NOT NULL,
  company_id TEXT,
  web_triggered BOOLEAN NOT NULL,
  internal_count INT NOT NULL,
  external_count INT NOT NULL,
  duration_ms BIGINT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_retrieval_audits_user ON retrieval_audits(user_id, created_at DESC);
`, embedDim)
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
