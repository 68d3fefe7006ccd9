package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Clone_IsDeep(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task := &Task{
		ID:      "t1",
		Title:   "Plan rollout",
		Variant: VariantProject,
		Tags:    []string{"project"},
		DueDate: &due,
		Project: &ProjectFields{
			Phase:        "planning",
			Dependencies: []string{"t2"},
			Assignees:    []string{"sam"},
			StoryPoints:  3,
		},
	}

	clone := task.Clone()
	clone.Tags[0] = "changed"
	clone.Project.Dependencies[0] = "changed"
	*clone.DueDate = clone.DueDate.Add(time.Hour)

	assert.Equal(t, "project", task.Tags[0])
	assert.Equal(t, "t2", task.Project.Dependencies[0])
	assert.Equal(t, due, *task.DueDate)
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	task := &Task{Status: TaskStatusInProgress, DueDate: &past}
	assert.True(t, task.IsOverdue(now))

	task.Status = TaskStatusCompleted
	assert.False(t, task.IsOverdue(now), "completed tasks are never overdue")

	task.Status = TaskStatusPending
	task.DueDate = nil
	assert.False(t, task.IsOverdue(now))
}

func TestTask_StatusChanged_WorkApprovalGate(t *testing.T) {
	task := &Task{
		Variant: VariantWork,
		Work:    &WorkFields{RequiresApproval: true},
	}
	err := task.StatusChanged(TaskStatusInProgress, TaskStatusCompleted)
	require.ErrorIs(t, err, ErrApprovalRequired)

	task.Work.ApprovedBy = "lead"
	require.NoError(t, task.StatusChanged(TaskStatusInProgress, TaskStatusCompleted))
}

func TestTask_StatusChanged_ProjectUnblocksOnClose(t *testing.T) {
	task := &Task{
		Variant: VariantProject,
		Project: &ProjectFields{IsBlocked: true},
	}
	require.NoError(t, task.StatusChanged(TaskStatusInProgress, TaskStatusCompleted))
	assert.False(t, task.Project.IsBlocked)
}

func TestTask_Describe(t *testing.T) {
	work := &Task{
		Variant: VariantWork,
		Work:    &WorkFields{RequiresApproval: true},
	}
	meta := work.Describe()
	assert.NotEmpty(t, meta.Icon)
	assert.NotEmpty(t, meta.Color)
	assert.Contains(t, meta.Badges, "awaiting-approval")

	blocked := &Task{
		Variant: VariantProject,
		Project: &ProjectFields{IsBlocked: true, Phase: "build"},
	}
	assert.Equal(t, []string{"blocked", "build"}, blocked.Describe().Badges)

	unknown := &Task{Variant: TaskVariant("chore")}
	assert.Equal(t, (&Task{Variant: VariantGeneric}).Describe().Icon, unknown.Describe().Icon)
}

func TestTask_ToRecord_RoundTripFields(t *testing.T) {
	due := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	task := &Task{
		ID:        "t1",
		Title:     "Quarterly invoice",
		Variant:   VariantWork,
		Priority:  TaskPriorityHigh,
		Status:    TaskStatusInProgress,
		Progress:  40,
		DueDate:   &due,
		CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		Tags:      []string{"work", "billing"},
		Work:      &WorkFields{BillableHours: 2.5, HourlyRate: 80, RequiresApproval: true, ApprovedBy: "lead"},
	}

	rec := task.ToRecord()
	assert.Equal(t, "t1", rec.ID)
	assert.Equal(t, "work", rec.Variant)
	assert.Equal(t, "high", rec.Priority)
	require.NotNil(t, rec.DueDate)
	assert.Equal(t, due.Format("2006-01-02T15:04:05Z"), *rec.DueDate)
	require.NotNil(t, rec.BillableHours)
	assert.Equal(t, 2.5, *rec.BillableHours)
	require.NotNil(t, rec.ApprovedBy)
	assert.Equal(t, "lead", *rec.ApprovedBy)
	assert.Nil(t, rec.MotivationLevel)
	assert.Nil(t, rec.Phase)
}
