package models

import "time"

type SourceOrigin string

const (
	OriginInternal SourceOrigin = "internal"
	OriginWeb      SourceOrigin = "web"
)

// Source is one retrieved unit of knowledge, internal note or web page.
type Source struct {
	ID               string       `json:"id"`
	Origin           SourceOrigin `json:"origin"`
	SourceKind       string       `json:"source_kind"`
	Title            string       `json:"title"`
	Content          string       `json:"content"`
	URL              string       `json:"url,omitempty"`
	Date             string       `json:"date,omitempty"`
	SubjectCompanyID string       `json:"subject_company_id,omitempty"`
	SubjectFounderID string       `json:"subject_founder_id,omitempty"`
	Score            float64      `json:"score,omitempty"`
}

// ContextPack is the citation-indexed result of one retrieval call. It is
// built once per request and never mutated after it is returned.
type ContextPack struct {
	InternalSources []Source          `json:"internal_sources"`
	ExternalSources []Source          `json:"external_sources"`
	CitationMap     map[string]Source `json:"citation_map"`
	CitationList    string            `json:"citation_list"`
	ContextText     string            `json:"context_text"`
}

// NewsItem is a feed entry subject to near-duplicate collapsing.
type NewsItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Outlet      string `json:"outlet,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// DocumentRecord is one row of the semantic index.
type DocumentRecord struct {
	DocumentID       string    `json:"document_id"`
	UserID           string    `json:"user_id"`
	SourceKind       string    `json:"source_kind"`
	Title            string    `json:"title,omitempty"`
	Content          string    `json:"content"`
	ExternalURL      string    `json:"external_url,omitempty"`
	CompanyID        string    `json:"company_id,omitempty"`
	FounderID        string    `json:"founder_id,omitempty"`
	EmbeddingVersion string    `json:"embedding_version"`
	CreatedAt        time.Time `json:"created_at"`
}

// RetrievalAudit records one context build for later inspection.
type RetrievalAudit struct {
	AuditID       string    `json:"audit_id"`
	UserID        string    `json:"user_id"`
	Message       string    `json:"message"`
	CompanyID     string    `json:"company_id,omitempty"`
	WebTriggered  bool      `json:"web_triggered"`
	InternalCount int       `json:"internal_count"`
	ExternalCount int       `json:"external_count"`
	DurationMS    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}
