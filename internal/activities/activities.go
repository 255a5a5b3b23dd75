package activities

import (
	"context"
	"fmt"
	"io"
	"strings"

	"dealflow/internal/config"
	"dealflow/internal/models"
	"dealflow/internal/providers"
	"dealflow/internal/storage"
	"dealflow/internal/util"
	"dealflow/internal/vector"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// documentInserter is the slice of the document repo the activities need.
type documentInserter interface {
	InsertDocuments(ctx context.Context, docs []storage.DocumentInsert) error
}

type Activities struct {
	cfg       config.Config
	docRepo   documentInserter
	providers *providers.Manager
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	pm, err := providers.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	return &Activities{
		cfg:       cfg,
		docRepo:   storage.NewDocumentRepo(db),
		providers: pm,
	}, nil
}

// PersistWebSourcesActivity writes accepted web sources back into the
// user's semantic index as fresh internal documents. Each run creates new
// identities; the source URL is kept as the external identifier.
func (a *Activities) PersistWebSourcesActivity(ctx context.Context, in PersistWebSourcesInput) (PersistWebSourcesOutput, error) {
	limit := a.cfg.FlywheelWriteCap
	if limit <= 0 {
		limit = 3
	}
	sources := in.Sources
	if len(sources) > limit {
		sources = sources[:limit]
	}
	if len(sources) == 0 {
		return PersistWebSourcesOutput{}, nil
	}

	inputs := make([]string, 0, len(sources))
	for _, s := range sources {
		inputs = append(inputs, util.SanitizeText(s.Content))
	}
	vectors, _, err := a.providers.FirstEmbedProvider().Embed(ctx, providers.EmbedRequest{
		Operation: "flywheel_persist",
		Inputs:    inputs,
		Dimension: a.cfg.EmbedDim,
	})
	if err != nil {
		return PersistWebSourcesOutput{}, fmt.Errorf("embed web sources: %w", err)
	}

	docs := make([]storage.DocumentInsert, 0, len(sources))
	for i, s := range sources {
		var embedding *string
		if i < len(vectors) && len(vectors[i]) > 0 {
			lit := vector.ToLiteral(vectors[i])
			embedding = &lit
		}
		kind := s.SourceKind
		if kind == "" {
			kind = "web_document"
		}
		docs = append(docs, storage.DocumentInsert{
			Record: models.DocumentRecord{
				DocumentID:       uuid.NewString(),
				UserID:           in.UserID,
				SourceKind:       kind,
				Title:            s.Title,
				Content:          util.SanitizeText(s.Content),
				ExternalURL:      s.URL,
				CompanyID:        in.CompanyID,
				FounderID:        in.FounderID,
				EmbeddingVersion: a.cfg.EmbedVersion,
			},
			EmbeddingVector: embedding,
		})
	}
	if err := a.docRepo.InsertDocuments(ctx, docs); err != nil {
		return PersistWebSourcesOutput{}, err
	}
	return PersistWebSourcesOutput{Persisted: len(docs)}, nil
}

func (a *Activities) ExtractDocumentTextActivity(ctx context.Context, in ExtractDocumentTextInput) (ExtractDocumentTextOutput, error) {
	_ = ctx
	f, r, err := pdf.Open(in.DocumentPath)
	if err != nil {
		return ExtractDocumentTextOutput{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return ExtractDocumentTextOutput{}, fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return ExtractDocumentTextOutput{}, fmt.Errorf("read extracted text: %w", err)
	}
	text := util.SanitizeText(strings.TrimSpace(buf.String()))
	if text == "" {
		return ExtractDocumentTextOutput{}, util.ErrNoExtractableText
	}
	return ExtractDocumentTextOutput{Text: text}, nil
}

func (a *Activities) ChunkDocumentActivity(ctx context.Context, in ChunkDocumentInput) (ChunkDocumentOutput, error) {
	_ = ctx
	if in.ChunkSize <= 0 {
		in.ChunkSize = a.cfg.DocumentChunkSize
	}
	if in.ChunkOverlap < 0 || in.ChunkOverlap >= in.ChunkSize {
		in.ChunkOverlap = a.cfg.DocumentChunkOverlap
	}
	rawChunks := util.ChunkText(in.Text, in.ChunkSize, in.ChunkOverlap)
	chunks := make([]DocumentChunk, 0, len(rawChunks))
	for idx, part := range rawChunks {
		part = util.SanitizeText(part)
		if part == "" {
			continue
		}
		chunkID := util.SHA256Hex([]byte(fmt.Sprintf("%s:%s:%d:%s", in.UserID, in.Title, idx, util.SHA256Hex([]byte(part)))))
		chunks = append(chunks, DocumentChunk{ChunkID: chunkID, ChunkIndex: idx, Text: part})
	}
	return ChunkDocumentOutput{Chunks: chunks}, nil
}

func (a *Activities) EmbedTextsActivity(ctx context.Context, in EmbedTextsInput) (EmbedTextsOutput, error) {
	vectors, info, err := a.providers.FirstEmbedProvider().Embed(ctx, providers.EmbedRequest{
		Operation: in.Operation,
		Inputs:    in.Inputs,
		Dimension: a.cfg.EmbedDim,
	})
	if err != nil {
		return EmbedTextsOutput{}, err
	}
	return EmbedTextsOutput{Vectors: vectors, ProviderName: info.Name, Model: info.Model}, nil
}

func (a *Activities) UpsertDocumentChunksActivity(ctx context.Context, in UpsertDocumentChunksInput) (UpsertDocumentChunksOutput, error) {
	docs := make([]storage.DocumentInsert, 0, len(in.Chunks))
	for i, c := range in.Chunks {
		var embedding *string
		if i < len(in.Vectors) && len(in.Vectors[i]) > 0 {
			lit := vector.ToLiteral(in.Vectors[i])
			embedding = &lit
		}
		title := in.Title
		if len(in.Chunks) > 1 {
			title = fmt.Sprintf("%s (part %d)", in.Title, c.ChunkIndex+1)
		}
		docs = append(docs, storage.DocumentInsert{
			Record: models.DocumentRecord{
				DocumentID:       deterministicDocumentID(c.ChunkID),
				UserID:           in.UserID,
				SourceKind:       "deal_document",
				Title:            title,
				Content:          c.Text,
				CompanyID:        in.CompanyID,
				FounderID:        in.FounderID,
				EmbeddingVersion: a.cfg.EmbedVersion,
			},
			EmbeddingVector: embedding,
		})
	}
	if err := a.docRepo.InsertDocuments(ctx, docs); err != nil {
		return UpsertDocumentChunksOutput{}, err
	}
	return UpsertDocumentChunksOutput{Upserted: len(docs)}, nil
}

// deterministicDocumentID derives a UUID from the chunk id so re-running an
// ingestion upserts instead of duplicating.
func deterministicDocumentID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}
