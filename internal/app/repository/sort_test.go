package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskforge/internal/core/domain"
)

func sortFixtureTasks() []*domain.Task {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	due := base.Add(24 * time.Hour)
	return []*domain.Task{
		{ID: "a", Title: "banana", Priority: domain.TaskPriorityLow, Status: domain.TaskStatusPending, Progress: 10, CreatedAt: base},
		{ID: "b", Title: "Apple", Priority: domain.TaskPriorityHigh, Status: domain.TaskStatusCompleted, Progress: 100, CreatedAt: base.Add(time.Minute), DueDate: &due},
		{ID: "c", Title: "cherry", Priority: domain.TaskPriorityMedium, Status: domain.TaskStatusInProgress, Progress: 50, CreatedAt: base.Add(2 * time.Minute)},
	}
}

func ids(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}

func TestSortTasks(t *testing.T) {
	tasks := sortFixtureTasks()

	cases := []struct {
		key  string
		want []string
	}{
		{key: "created-asc", want: []string{"a", "b", "c"}},
		{key: "created", want: []string{"c", "b", "a"}},
		{key: "title-asc", want: []string{"b", "a", "c"}},
		{key: "title-desc", want: []string{"c", "a", "b"}},
		{key: "priority-desc", want: []string{"b", "c", "a"}},
		{key: "priority-asc", want: []string{"a", "c", "b"}},
		{key: "progress-asc", want: []string{"a", "c", "b"}},
		{key: "status-asc", want: []string{"a", "c", "b"}},
		{key: "due-date-asc", want: []string{"b", "a", "c"}},
		{key: "unknown-key", want: []string{"c", "b", "a"}},
	}

	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(SortTasks(tasks, tc.key)))
		})
	}
}

func TestSortTasks_DoesNotMutateInput(t *testing.T) {
	tasks := sortFixtureTasks()
	original := ids(tasks)

	_ = SortTasks(tasks, "title-asc")
	assert.Equal(t, original, ids(tasks))
}

func TestSortTasks_StableOnEqualKeys(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tasks := []*domain.Task{
		{ID: "x", Priority: domain.TaskPriorityMedium, CreatedAt: base},
		{ID: "y", Priority: domain.TaskPriorityMedium, CreatedAt: base},
		{ID: "z", Priority: domain.TaskPriorityMedium, CreatedAt: base},
	}

	sorted := SortTasks(tasks, "priority-asc")
	require.Equal(t, []string{"x", "y", "z"}, ids(sorted))

	sorted = SortTasks(tasks, "priority-desc")
	assert.Equal(t, []string{"x", "y", "z"}, ids(sorted))
}
