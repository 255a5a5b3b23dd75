package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.PersistWebSourcesActivity)
	w.RegisterActivity(a.ExtractDocumentTextActivity)
	w.RegisterActivity(a.ChunkDocumentActivity)
	w.RegisterActivity(a.EmbedTextsActivity)
	w.RegisterActivity(a.UpsertDocumentChunksActivity)
}
