package workflows

import "dealflow/internal/activities"

type FlywheelPersistInput struct {
	UserID    string                     `json:"user_id"`
	CompanyID string                     `json:"company_id,omitempty"`
	FounderID string                     `json:"founder_id,omitempty"`
	Sources   []activities.WebSourceItem `json:"sources"`
}

type DocumentIngestInput struct {
	UserID       string `json:"user_id"`
	CompanyID    string `json:"company_id,omitempty"`
	FounderID    string `json:"founder_id,omitempty"`
	Title        string `json:"title,omitempty"`
	DocumentPath string `json:"document_path"`
}

type DocumentIngestProgress struct {
	CurrentStep string            `json:"current_step"`
	Status      string            `json:"status"`
	ChunkCount  int               `json:"chunk_count"`
	Steps       map[string]string `json:"steps"`
}
