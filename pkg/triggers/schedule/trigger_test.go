package schedule

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrigger(t *testing.T) {
	logger := slog.Default()

	trigger, err := NewTrigger(map[string]any{
		"id":          "nightly",
		"cron":        "0 2 * * *",
		"workflow_id": "wf-1",
	}, logger)
	require.NoError(t, err)

	assert.Equal(t, "nightly", trigger.ID)
	assert.Equal(t, "wf-1", trigger.WorkflowID)
	assert.Equal(t, "0 2 * * *", trigger.CronExpr)
	assert.True(t, trigger.Enabled)
}

func TestNewTriggerDisabled(t *testing.T) {
	trigger, err := NewTrigger(map[string]any{
		"id":          "paused",
		"cron":        "*/5 * * * *",
		"workflow_id": "wf-1",
		"enabled":     false,
	}, slog.Default())
	require.NoError(t, err)

	assert.False(t, trigger.Enabled)
}

func TestNewTriggerValidation(t *testing.T) {
	logger := slog.Default()

	tests := []struct {
		name   string
		config map[string]any
	}{
		{
			name:   "missing id",
			config: map[string]any{"cron": "* * * * *", "workflow_id": "wf-1"},
		},
		{
			name:   "missing workflow",
			config: map[string]any{"id": "t1", "cron": "* * * * *"},
		},
		{
			name:   "missing cron",
			config: map[string]any{"id": "t1", "workflow_id": "wf-1"},
		},
		{
			name:   "malformed cron",
			config: map[string]any{"id": "t1", "workflow_id": "wf-1", "cron": "not a schedule"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTrigger(tt.config, logger)
			assert.Error(t, err)
		})
	}
}

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory()
	assert.Equal(t, "schedule", factory.ID())

	trigger, err := factory.Create(map[string]any{
		"id":          "hourly",
		"cron":        "0 * * * *",
		"workflow_id": "wf-2",
	}, slog.Default())
	require.NoError(t, err)
	require.NoError(t, trigger.Validate())

	_, err = factory.Create(nil, slog.Default())
	assert.ErrorIs(t, err, ErrConfigNil)
}
