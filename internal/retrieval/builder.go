package retrieval

import (
	"context"
	"log"
	"time"

	"dealflow/internal/models"
)

// BuildRequest is the full input of one context build. Entity fields are
// optional; retrieval degrades with whatever is known.
type BuildRequest struct {
	UserID             string `json:"user_id"`
	Message            string `json:"message"`
	CompanyID          string `json:"company_id,omitempty"`
	CompanyName        string `json:"company_name,omitempty"`
	CompanyWebsite     string `json:"company_website,omitempty"`
	CompanyDescription string `json:"company_description,omitempty"`
	FounderID          string `json:"founder_id,omitempty"`
	FounderName        string `json:"founder_name,omitempty"`
	IncludeWebSearch   *bool  `json:"include_web_search,omitempty"`
	TopK               int    `json:"top_k,omitempty"`
}

// FlywheelStarter kicks off background persistence of accepted web sources.
// Implementations must not block the response path.
type FlywheelStarter interface {
	StartPersist(ctx context.Context, req PersistRequest) error
}

type PersistRequest struct {
	UserID    string
	CompanyID string
	FounderID string
	Sources   []models.Source
}

// AuditSink records completed builds. Failures are the sink's problem, the
// builder only logs them.
type AuditSink interface {
	Insert(ctx context.Context, rec models.RetrievalAudit) error
}

// Builder is the retrieval orchestrator behind the chat and report layers.
type Builder struct {
	internal *InternalRetriever
	external *ExternalRetriever
	flywheel FlywheelStarter
	audit    AuditSink
}

func NewBuilder(internal *InternalRetriever, external *ExternalRetriever, flywheel FlywheelStarter, audit AuditSink) *Builder {
	return &Builder{internal: internal, external: external, flywheel: flywheel, audit: audit}
}

// BuildContext assembles the citation-addressable context for one message.
// It never fails: every upstream error degrades to fewer sources, and an
// empty pack is the intended answer when nothing was found.
func (b *Builder) BuildContext(ctx context.Context, req BuildRequest) models.ContextPack {
	start := time.Now()

	internalSources := b.internal.Retrieve(ctx, req.UserID, req.Message, req.CompanyID, req.FounderID, req.TopK)

	includeWeb := req.IncludeWebSearch == nil || *req.IncludeWebSearch
	webTriggered := includeWeb && ShouldSearchWeb(req.Message, len(internalSources))

	var externalSources []models.Source
	if webTriggered {
		log.Printf("retrieval: web search triggered user=%s intents=%v internal=%d", req.UserID, MatchedIntents(req.Message), len(internalSources))
		entity := Entity{
			CompanyName: req.CompanyName,
			Domain:      ParseDomain(req.CompanyWebsite),
			Description: req.CompanyDescription,
			Keywords:    ExtractKeywords(req.CompanyDescription),
			FounderName: req.FounderName,
		}
		externalSources = b.external.Retrieve(ctx, EntityQuery{
			CompanyName:        req.CompanyName,
			CompanyWebsite:     req.CompanyWebsite,
			CompanyDescription: req.CompanyDescription,
			FounderName:        req.FounderName,
			Message:            req.Message,
		}, entity)
	}

	pack := FormatContext(internalSources, externalSources)

	if b.flywheel != nil && len(externalSources) > 0 {
		if err := b.flywheel.StartPersist(ctx, PersistRequest{
			UserID:    req.UserID,
			CompanyID: req.CompanyID,
			FounderID: req.FounderID,
			Sources:   externalSources,
		}); err != nil {
			log.Printf("flywheel: start persist failed user=%s err=%v", req.UserID, err)
		}
	}
	if b.audit != nil {
		rec := models.RetrievalAudit{
			UserID:        req.UserID,
			Message:       req.Message,
			CompanyID:     req.CompanyID,
			WebTriggered:  webTriggered,
			InternalCount: len(internalSources),
			ExternalCount: len(externalSources),
			DurationMS:    time.Since(start).Milliseconds(),
		}
		if err := b.audit.Insert(ctx, rec); err != nil {
			log.Printf("retrieval audit: insert failed user=%s err=%v", req.UserID, err)
		}
	}
	return pack
}
