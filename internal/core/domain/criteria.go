package domain

import "time"

// FindCriteria narrows the task collection. Every non-zero field must match
// (logical AND); the zero criteria selects everything.
type FindCriteria struct {
	Variant  *TaskVariant
	Status   *TaskStatus
	Priority *TaskPriority
	// Tags requires every listed tag to be present.
	Tags []string
	// DueDate matches tasks due on the same calendar day.
	DueDate *time.Time
	// Overdue selects tasks with a past due date that are still active.
	Overdue *bool
	// Search is a case-insensitive substring match across title,
	// description and tags.
	Search string
	// CreatedAfter/CreatedBefore are inclusive bounds.
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// TaskStats is the aggregate snapshot of the collection.
type TaskStats struct {
	Total          int                  `json:"total"`
	ByStatus       map[TaskStatus]int   `json:"by_status"`
	ByVariant      map[TaskVariant]int  `json:"by_variant"`
	ByPriority     map[TaskPriority]int `json:"by_priority"`
	CompletionRate float64              `json:"completion_rate"`
	Overdue        int                  `json:"overdue"`
	DueToday       int                  `json:"due_today"`
}

// CompleteResult is the outcome of completing a task: the completed task and
// the tasks whose dependencies just became fully satisfied. Unblocked is
// informational; the engine does not mutate those tasks.
type CompleteResult struct {
	Task      *Task
	Unblocked []*Task
}

// ImportResult reports a bulk import: how many records made it in and the
// per-record failures for the rest.
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}
