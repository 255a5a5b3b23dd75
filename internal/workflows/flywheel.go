package workflows

import (
	"time"

	"dealflow/internal/activities"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// FlywheelPersistWorkflow writes accepted web sources into the internal
// index after a retrieval completed. It runs detached from the response
// path; retries are bounded and a final failure ends the workflow without
// surfacing anywhere near the caller.
func FlywheelPersistWorkflow(ctx workflow.Context, input FlywheelPersistInput) (string, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	logger := workflow.GetLogger(ctx)
	var out activities.PersistWebSourcesOutput
	err := workflow.ExecuteActivity(ctx, "PersistWebSourcesActivity", activities.PersistWebSourcesInput{
		UserID:    input.UserID,
		CompanyID: input.CompanyID,
		FounderID: input.FounderID,
		Sources:   input.Sources,
	}).Get(ctx, &out)
	if err != nil {
		logger.Warn("flywheel persist failed", "user_id", input.UserID, "error", err)
		return "failed", nil
	}
	logger.Info("flywheel persist done", "user_id", input.UserID, "persisted", out.Persisted)
	return "persisted", nil
}
