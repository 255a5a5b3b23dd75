package activities

// WebSourceItem is the slice of a retrieved web source the flywheel needs.
type WebSourceItem struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	URL        string  `json:"url"`
	Date       string  `json:"date,omitempty"`
	Score      float64 `json:"score,omitempty"`
	SourceKind string  `json:"source_kind,omitempty"`
}

type PersistWebSourcesInput struct {
	UserID    string          `json:"user_id"`
	CompanyID string          `json:"company_id,omitempty"`
	FounderID string          `json:"founder_id,omitempty"`
	Sources   []WebSourceItem `json:"sources"`
}

type PersistWebSourcesOutput struct {
	Persisted int `json:"persisted"`
}

type ExtractDocumentTextInput struct {
	DocumentPath string `json:"document_path"`
}

type ExtractDocumentTextOutput struct {
	Text string `json:"text"`
}

type ChunkDocumentInput struct {
	UserID       string `json:"user_id"`
	CompanyID    string `json:"company_id,omitempty"`
	FounderID    string `json:"founder_id,omitempty"`
	Title        string `json:"title,omitempty"`
	Text         string `json:"text"`
	ChunkSize    int    `json:"chunk_size"`
	ChunkOverlap int    `json:"chunk_overlap"`
}

type DocumentChunk struct {
	ChunkID    string `json:"chunk_id"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

type ChunkDocumentOutput struct {
	Chunks []DocumentChunk `json:"chunks"`
}

type EmbedTextsInput struct {
	Operation string   `json:"operation"`
	Inputs    []string `json:"inputs"`
}

type EmbedTextsOutput struct {
	Vectors      [][]float32 `json:"vectors"`
	ProviderName string      `json:"provider_name"`
	Model        string      `json:"model"`
}

type UpsertDocumentChunksInput struct {
	UserID    string          `json:"user_id"`
	CompanyID string          `json:"company_id,omitempty"`
	FounderID string          `json:"founder_id,omitempty"`
	Title     string          `json:"title,omitempty"`
	Chunks    []DocumentChunk `json:"chunks"`
	Vectors   [][]float32     `json:"vectors,omitempty"`
}

type UpsertDocumentChunksOutput struct {
	Upserted int `json:"upserted"`
}
