package workflows

import (
	"context"
	"errors"
	"testing"

	"dealflow/internal/activities"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func TestFlywheelPersistWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(FlywheelPersistWorkflow)
	registerActivityName(env, "PersistWebSourcesActivity", func(context.Context, activities.PersistWebSourcesInput) (activities.PersistWebSourcesOutput, error) {
		return activities.PersistWebSourcesOutput{}, nil
	})

	input := FlywheelPersistInput{
		UserID: "u1",
		Sources: []activities.WebSourceItem{
			{Title: "Acme Launches", Content: "body", URL: "https://acme.io/news"},
		},
	}
	env.OnActivity("PersistWebSourcesActivity", mock.Anything, mock.Anything).Return(activities.PersistWebSourcesOutput{Persisted: 1}, nil)

	env.ExecuteWorkflow(FlywheelPersistWorkflow, input)
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "persisted", out)
}

func TestFlywheelPersistWorkflowFailureEndsQuietly(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(FlywheelPersistWorkflow)
	registerActivityName(env, "PersistWebSourcesActivity", func(context.Context, activities.PersistWebSourcesInput) (activities.PersistWebSourcesOutput, error) {
		return activities.PersistWebSourcesOutput{}, nil
	})
	env.OnActivity("PersistWebSourcesActivity", mock.Anything, mock.Anything).Return(activities.PersistWebSourcesOutput{}, errors.New("postgres down"))

	env.ExecuteWorkflow(FlywheelPersistWorkflow, FlywheelPersistInput{UserID: "u1"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
}
