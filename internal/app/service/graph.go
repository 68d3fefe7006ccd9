package service

import (
	"context"

	"go.uber.org/zap"

	"taskforge/internal/core/domain"
)

// dependencyGraph builds the adjacency map of project dependency edges.
func dependencyGraph(tasks []*domain.Task) map[string][]string {
	graph := make(map[string][]string)
	for _, task := range tasks {
		if task.Project != nil {
			graph[task.ID] = append([]string(nil), task.Project.Dependencies...)
		}
	}
	return graph
}

// findCycle runs a depth-first search from start and returns the ids along
// a cycle reachable from it, or nil. The visited and recursion-stack sets
// are fresh per call, so earlier chains cannot mask a cycle found later.
func findCycle(graph map[string][]string, start string) []string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, dep := range graph[id] {
			if onStack[dep] {
				// Close the loop for the reported path.
				for i, node := range path {
					if node == dep {
						return append(append([]string(nil), path[i:]...), dep)
					}
				}
				return []string{id, dep}
			}
			if !visited[dep] {
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}

		onStack[id] = false
		path = path[:len(path)-1]
		return nil
	}

	return visit(start)
}

// activeDependents returns the ids of active tasks that depend on id,
// skipping any task in the excluded set.
func (s *TaskService) activeDependents(ctx context.Context, id string, excluded map[string]bool) []string {
	var blockers []string
	for _, task := range s.taskRepository.GetAll(ctx) {
		if task.ID == id || excluded[task.ID] {
			continue
		}
		if task.IsActive() && task.DependsOn(id) {
			blockers = append(blockers, task.ID)
		}
	}
	return blockers
}

// incompleteDependencies returns the dependency ids of the task that are not
// yet completed. Dangling references count as incomplete.
func (s *TaskService) incompleteDependencies(ctx context.Context, task *domain.Task) []string {
	if task.Project == nil {
		return nil
	}
	var incomplete []string
	for _, depID := range task.Project.Dependencies {
		dep, err := s.taskRepository.Get(ctx, depID)
		if err != nil || dep.Status != domain.TaskStatusCompleted {
			incomplete = append(incomplete, depID)
		}
	}
	return incomplete
}

// unblockedBy returns the active tasks whose dependencies became fully
// satisfied once completedID finished. Informational only; the tasks are
// not mutated.
func (s *TaskService) unblockedBy(ctx context.Context, completedID string) []*domain.Task {
	var unblocked []*domain.Task
	for _, task := range s.taskRepository.GetAll(ctx) {
		if task.ID == completedID || !task.IsActive() || !task.DependsOn(completedID) {
			continue
		}
		if len(s.incompleteDependencies(ctx, task)) == 0 {
			unblocked = append(unblocked, task)
		}
	}
	return unblocked
}

// stripDependencyReferences removes the deleted ids from every remaining
// dependency set. This is cascade cleanup, not a cascading delete.
func (s *TaskService) stripDependencyReferences(ctx context.Context, deleted map[string]bool) {
	for _, task := range s.taskRepository.GetAll(ctx) {
		if task.Project == nil {
			continue
		}
		kept := make([]string, 0, len(task.Project.Dependencies))
		for _, dep := range task.Project.Dependencies {
			if !deleted[dep] {
				kept = append(kept, dep)
			}
		}
		if len(kept) == len(task.Project.Dependencies) {
			continue
		}
		patch := domain.TaskPatch{Dependencies: kept, DependenciesSet: true}
		if _, err := s.taskRepository.Update(ctx, task.ID, patch); err != nil {
			zap.L().Warn("failed to strip dangling dependency reference",
				zap.String("task_id", task.ID),
				zap.Error(err),
			)
		}
	}
}
