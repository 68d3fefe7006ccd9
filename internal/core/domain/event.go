package domain

type EventType string

const (
	EventCreated      EventType = "created"
	EventUpdated      EventType = "updated"
	EventDeleted      EventType = "deleted"
	EventTasksDeleted EventType = "tasksDeleted"
	EventCleared      EventType = "cleared"
)

// Event is a repository change notification. Events are delivered
// synchronously, in emission order, after the in-memory mutation and the
// persistence attempt; there is no buffering or replay.
type Event struct {
	Type  EventType
	Task  *Task
	Tasks []*Task
	Patch *TaskPatch
	Count int
}
