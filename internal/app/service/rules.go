package service

import (
	"context"
	"fmt"

	"taskforge/internal/core/domain"
)

// ruleCollectionCeiling rejects creation once the collection reached the
// configured ceiling.
func (s *TaskService) ruleCollectionCeiling(ctx context.Context, _ *domain.CreateTaskInput) error {
	if s.taskRepository.Count(ctx) >= s.maxTasks {
		return fmt.Errorf("%w: collection ceiling is %d", domain.ErrLimitExceeded, s.maxTasks)
	}
	return nil
}

// ruleStatusTransition enforces the transition table on caller-supplied
// status changes.
func (s *TaskService) ruleStatusTransition(_ context.Context, existing *domain.Task, patch *domain.TaskPatch) error {
	if patch.Status == nil || *patch.Status == existing.Status {
		return nil
	}
	if !existing.Status.CanTransitionTo(*patch.Status) {
		return &domain.InvalidStatusTransitionError{From: existing.Status, To: *patch.Status}
	}
	return nil
}

// ruleCompletedLock freezes variant and createdAt once a task is completed.
// The variant is additionally immutable on every task: it is fixed at
// creation.
func (s *TaskService) ruleCompletedLock(_ context.Context, existing *domain.Task, patch *domain.TaskPatch) error {
	if existing.Status == domain.TaskStatusCompleted && (patch.Variant != nil || patch.CreatedAt != nil) {
		return fmt.Errorf("%w: completed tasks are frozen", domain.ErrModificationNotAllowed)
	}
	if patch.Variant != nil && *patch.Variant != existing.Variant {
		return fmt.Errorf("%w: variant is fixed at creation", domain.ErrModificationNotAllowed)
	}
	return nil
}

// ruleAutoComplete turns a plain progress=100 edit into a completion. This
// is an engine-initiated transition, so it runs after the transition table
// check rather than through it.
func (s *TaskService) ruleAutoComplete(_ context.Context, existing *domain.Task, patch *domain.TaskPatch) error {
	if patch.Progress == nil || *patch.Progress < 100 || patch.Status != nil {
		return nil
	}
	if existing.Status == domain.TaskStatusCompleted || existing.Status == domain.TaskStatusCancelled {
		return nil
	}
	status := domain.TaskStatusCompleted
	patch.Status = &status
	return nil
}

// ruleAcyclicDependencies rejects a dependency edit that would make the
// project graph cyclic.
func (s *TaskService) ruleAcyclicDependencies(ctx context.Context, existing *domain.Task, patch *domain.TaskPatch) error {
	if !patch.DependenciesSet || existing.Project == nil {
		return nil
	}
	for _, dep := range patch.Dependencies {
		if dep == existing.ID {
			return &domain.CircularDependencyError{Path: []string{existing.ID, existing.ID}}
		}
	}

	graph := dependencyGraph(s.taskRepository.GetAll(ctx))
	graph[existing.ID] = append([]string(nil), patch.Dependencies...)
	if path := findCycle(graph, existing.ID); path != nil {
		return &domain.CircularDependencyError{Path: path}
	}
	return nil
}
