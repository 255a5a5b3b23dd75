package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealflow/internal/models"
	"dealflow/internal/providers"
	"dealflow/internal/websearch"
)

type fakeFlywheel struct {
	calls []PersistRequest
	err   error
}

func (f *fakeFlywheel) StartPersist(ctx context.Context, req PersistRequest) error {
	f.calls = append(f.calls, req)
	return f.err
}

type fakeAudit struct {
	records []models.RetrievalAudit
}

func (f *fakeAudit) Insert(ctx context.Context, rec models.RetrievalAudit) error {
	f.records = append(f.records, rec)
	return nil
}

func newTestBuilder(idx SemanticIndex, web websearch.Client, fw FlywheelStarter, audit AuditSink) *Builder {
	mock := providers.NewMockProvider(32)
	internal := NewInternalRetriever(idx, mock, mock, 32, "v1", 0)
	external := NewExternalRetriever(web, time.Second, 0, 0, 0)
	return NewBuilder(internal, external, fw, audit)
}

func TestBuildContextNeverFailsOnUpstreamErrors(t *testing.T) {
	idx := &fakeIndex{err: errors.New("connection refused")}
	web := websearch.NewMockClient(nil).Fail(errors.New("upstream down"))
	audit := &fakeAudit{}
	b := newTestBuilder(idx, web, &fakeFlywheel{}, audit)

	pack := b.BuildContext(context.Background(), BuildRequest{UserID: "u1", Message: "What's their pricing?", CompanyName: "Acme"})
	if len(pack.InternalSources) != 0 || len(pack.ExternalSources) != 0 {
		t.Fatalf("expected empty pack, got %+v", pack)
	}
	if pack.ContextText != "" {
		t.Fatal("empty retrieval must produce empty context text")
	}
	if len(audit.records) != 1 || !audit.records[0].WebTriggered {
		t.Fatalf("audit should record the triggered-but-empty build: %+v", audit.records)
	}
}

func TestBuildContextFlywheelReceivesExternalSources(t *testing.T) {
	web := websearch.NewMockClient([]websearch.Result{
		{ID: "1", URL: "https://acme.io/news", Title: "Acme Launches Climate Platform Update", Text: "Acme climate data"},
	})
	fw := &fakeFlywheel{}
	b := newTestBuilder(&fakeIndex{}, web, fw, &fakeAudit{})

	pack := b.BuildContext(context.Background(), BuildRequest{
		UserID:         "u1",
		Message:        "any recent news?",
		CompanyName:    "Acme",
		CompanyWebsite: "https://acme.io",
	})
	if len(pack.ExternalSources) == 0 {
		t.Fatal("expected accepted web sources")
	}
	if len(fw.calls) != 1 {
		t.Fatalf("flywheel must be started once, got %d", len(fw.calls))
	}
	if fw.calls[0].UserID != "u1" || len(fw.calls[0].Sources) != len(pack.ExternalSources) {
		t.Fatalf("flywheel request mismatch: %+v", fw.calls[0])
	}
}

func TestBuildContextRespectsIncludeWebSearch(t *testing.T) {
	web := websearch.NewMockClient([]websearch.Result{
		{ID: "1", URL: "https://acme.io/news", Title: "Acme Launches Climate Platform Update", Text: "Acme climate data"},
	})
	off := false
	b := newTestBuilder(&fakeIndex{}, web, &fakeFlywheel{}, &fakeAudit{})
	pack := b.BuildContext(context.Background(), BuildRequest{
		UserID:           "u1",
		Message:          "any recent news?",
		CompanyName:      "Acme",
		CompanyWebsite:   "https://acme.io",
		IncludeWebSearch: &off,
	})
	if len(pack.ExternalSources) != 0 {
		t.Fatal("include_web_search=false must disable external retrieval")
	}
	if len(web.Queries()) != 0 {
		t.Fatalf("no web queries expected, saw %v", web.Queries())
	}
}

func TestBuildContextFlywheelFailureDoesNotSurface(t *testing.T) {
	web := websearch.NewMockClient([]websearch.Result{
		{ID: "1", URL: "https://acme.io/news", Title: "Acme Launches Climate Platform Update", Text: "Acme climate data"},
	})
	fw := &fakeFlywheel{err: errors.New("temporal unreachable")}
	b := newTestBuilder(&fakeIndex{}, web, fw, &fakeAudit{})
	pack := b.BuildContext(context.Background(), BuildRequest{
		UserID:         "u1",
		Message:        "any recent news?",
		CompanyName:    "Acme",
		CompanyWebsite: "https://acme.io",
	})
	if len(pack.ExternalSources) == 0 {
		t.Fatal("flywheel failure must not affect the returned pack")
	}
}
