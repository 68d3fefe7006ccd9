package domain

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// statusTransitions is the full transition table. Reopening a completed
// task is allowed; a cancelled task can be picked back up.
var statusTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusInProgress, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusCompleted, TaskStatusPending, TaskStatusCancelled},
	TaskStatusCompleted:  {TaskStatusInProgress},
	TaskStatusCancelled:  {TaskStatusPending, TaskStatusInProgress},
}

// CanTransitionTo reports whether the status machine allows moving from s to
// target. A no-op transition (s == target) is always allowed.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	if s == target {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// Ordinal returns the fixed sort position of the status.
func (s TaskStatus) Ordinal() int {
	switch s {
	case TaskStatusPending:
		return 0
	case TaskStatusInProgress:
		return 1
	case TaskStatusCompleted:
		return 2
	case TaskStatusCancelled:
		return 3
	}
	return 4
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Weight returns the numeric weight used for priority sorting.
func (p TaskPriority) Weight() int {
	switch p {
	case TaskPriorityLow:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityHigh:
		return 3
	}
	return 0
}

type EnergyLevel string

const (
	EnergyLevelLow    EnergyLevel = "low"
	EnergyLevelMedium EnergyLevel = "medium"
	EnergyLevelHigh   EnergyLevel = "high"
)

func (e EnergyLevel) Valid() bool {
	switch e {
	case EnergyLevelLow, EnergyLevelMedium, EnergyLevelHigh:
		return true
	}
	return false
}
