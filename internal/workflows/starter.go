package workflows

import (
	"context"
	"fmt"

	"dealflow/internal/activities"
	"dealflow/internal/retrieval"

	"github.com/google/uuid"
	tclient "go.temporal.io/sdk/client"
)

// FlywheelStarter starts FlywheelPersistWorkflow on the task queue. It
// satisfies retrieval.FlywheelStarter; starting the workflow is the only
// synchronous part, the persistence itself runs on the worker.
type FlywheelStarter struct {
	client    tclient.Client
	taskQueue string
}

func NewFlywheelStarter(client tclient.Client, taskQueue string) *FlywheelStarter {
	return &FlywheelStarter{client: client, taskQueue: taskQueue}
}

func (f *FlywheelStarter) StartPersist(ctx context.Context, req retrieval.PersistRequest) error {
	items := make([]activities.WebSourceItem, 0, len(req.Sources))
	for _, s := range req.Sources {
		items = append(items, activities.WebSourceItem{
			Title:   s.Title,
			Content: s.Content,
			URL:     s.URL,
			Date:    s.Date,
			Score:   s.Score,
		})
	}
	opts := tclient.StartWorkflowOptions{
		ID:        "flywheel-" + req.UserID + "-" + uuid.NewString(),
		TaskQueue: f.taskQueue,
	}
	_, err := f.client.ExecuteWorkflow(ctx, opts, FlywheelPersistWorkflow, FlywheelPersistInput{
		UserID:    req.UserID,
		CompanyID: req.CompanyID,
		FounderID: req.FounderID,
		Sources:   items,
	})
	if err != nil {
		return fmt.Errorf("start flywheel workflow: %w", err)
	}
	return nil
}
