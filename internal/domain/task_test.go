package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	for _, valid := range []string{"Not Started", "In Progress", "Overdue", "Completed"} {
		status, err := ParseTaskStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, TaskStatus(valid), status)
	}

	for _, invalid := range []string{"", "done", "completed", "NOT STARTED"} {
		_, err := ParseTaskStatus(invalid)
		require.Error(t, err, "status %q should be rejected", invalid)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "status", ve.Field)
	}
}

func TestTaskToggle(t *testing.T) {
	tests := []struct {
		from TaskStatus
		want TaskStatus
	}{
		{TaskCompleted, TaskNotStarted},
		{TaskNotStarted, TaskCompleted},
		{TaskInProgress, TaskCompleted},
		{TaskOverdue, TaskCompleted},
	}

	for _, tt := range tests {
		task := Task{Status: tt.from}
		assert.Equal(t, tt.want, task.Toggled())
	}

	// Two toggles round-trip for the flip pair.
	task := Task{Status: TaskNotStarted}
	task.Status = task.Toggled()
	task.Status = task.Toggled()
	assert.Equal(t, TaskNotStarted, task.Status)
}

func TestTaskDurationAllowsBackwardDates(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	// Unlike sprints, a task's start/due pair has no ordering constraint.
	task := Task{StartDate: tp(base), DueDate: tp(base.Add(36 * time.Hour))}
	require.NotNil(t, task.Duration())
	assert.Equal(t, "2 days", *task.Duration())
}

func TestTaskMarshalIncludesDuration(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	task := Task{
		ID:        7,
		FeatureID: 3,
		Name:      "write docs",
		Status:    TaskInProgress,
		CreatedBy: 1,
		StartDate: tp(base),
		DueDate:   tp(base.Add(6 * time.Hour)),
	}

	raw, err := json.Marshal(task)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "6 hours", decoded["duration"])
	assert.Equal(t, "In Progress", decoded["status"])
}
