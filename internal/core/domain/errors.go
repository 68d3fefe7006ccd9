package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrUnknownVariant         = errors.New("unknown task variant")
	ErrLimitExceeded          = errors.New("task limit exceeded")
	ErrModificationNotAllowed = errors.New("modification not allowed")
	ErrApprovalRequired       = errors.New("approval required before completion")
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrQuotaExceeded          = errors.New("storage quota exceeded")
)

// FieldError is a single validation finding tied to a field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates the blocking findings of a validation run.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// InvalidStatusTransitionError reports a status change the transition table
// does not allow.
type InvalidStatusTransitionError struct {
	From TaskStatus
	To   TaskStatus
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// CircularDependencyError reports a dependency edit that would create a cycle.
// Path holds the task ids along the detected cycle, starting and ending at
// the task under edit.
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	return "circular dependency: " + strings.Join(e.Path, " -> ")
}

// HasDependenciesError blocks deletion of a task that active tasks depend on.
type HasDependenciesError struct {
	TaskID   string
	Blockers []string
}

func (e *HasDependenciesError) Error() string {
	return fmt.Sprintf("task %s has %d active dependent task(s)", e.TaskID, len(e.Blockers))
}

// DependenciesIncompleteError blocks completion of a project task while some
// of its dependencies are still open.
type DependenciesIncompleteError struct {
	TaskID     string
	Incomplete []string
}

func (e *DependenciesIncompleteError) Error() string {
	return fmt.Sprintf("task %s has %d incomplete dependency(ies)", e.TaskID, len(e.Incomplete))
}
