package workflows

import (
	"time"

	"dealflow/internal/activities"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const QueryGetIngestProgress = "GetIngestProgress"

// DocumentIngestWorkflow turns one uploaded deal document (PDF) into
// embedded chunks in the owner's semantic index.
func DocumentIngestWorkflow(ctx workflow.Context, input DocumentIngestInput) (string, error) {
	progress := DocumentIngestProgress{
		CurrentStep: "init",
		Status:      "processing",
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetIngestProgress, func() (DocumentIngestProgress, error) {
		return progress, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	progress.CurrentStep = "extract"
	var extracted activities.ExtractDocumentTextOutput
	if err := workflow.ExecuteActivity(ctx, "ExtractDocumentTextActivity", activities.ExtractDocumentTextInput{
		DocumentPath: input.DocumentPath,
	}).Get(ctx, &extracted); err != nil {
		progress.Status = "failed"
		progress.Steps["extract"] = "failed"
		return "failed", nil
	}
	progress.Steps["extract"] = "done"

	progress.CurrentStep = "chunk"
	var chunked activities.ChunkDocumentOutput
	if err := workflow.ExecuteActivity(ctx, "ChunkDocumentActivity", activities.ChunkDocumentInput{
		UserID:    input.UserID,
		CompanyID: input.CompanyID,
		FounderID: input.FounderID,
		Title:     input.Title,
		Text:      extracted.Text,
	}).Get(ctx, &chunked); err != nil {
		progress.Status = "failed"
		progress.Steps["chunk"] = "failed"
		return "failed", nil
	}
	progress.Steps["chunk"] = "done"
	progress.ChunkCount = len(chunked.Chunks)
	if len(chunked.Chunks) == 0 {
		progress.Status = "failed"
		return "failed", nil
	}

	progress.CurrentStep = "embed"
	inputs := make([]string, 0, len(chunked.Chunks))
	for _, c := range chunked.Chunks {
		inputs = append(inputs, c.Text)
	}
	var embedded activities.EmbedTextsOutput
	if err := workflow.ExecuteActivity(ctx, "EmbedTextsActivity", activities.EmbedTextsInput{
		Operation: "document_ingest",
		Inputs:    inputs,
	}).Get(ctx, &embedded); err != nil {
		progress.Status = "failed"
		progress.Steps["embed"] = "failed"
		return "failed", nil
	}
	progress.Steps["embed"] = "done"

	progress.CurrentStep = "upsert"
	var upserted activities.UpsertDocumentChunksOutput
	if err := workflow.ExecuteActivity(ctx, "UpsertDocumentChunksActivity", activities.UpsertDocumentChunksInput{
		UserID:    input.UserID,
		CompanyID: input.CompanyID,
		FounderID: input.FounderID,
		Title:     input.Title,
		Chunks:    chunked.Chunks,
		Vectors:   embedded.Vectors,
	}).Get(ctx, &upserted); err != nil {
		progress.Status = "failed"
		progress.Steps["upsert"] = "failed"
		return "failed", nil
	}
	progress.Steps["upsert"] = "done"
	progress.CurrentStep = "done"
	progress.Status = "processed"
	return "processed", nil
}
