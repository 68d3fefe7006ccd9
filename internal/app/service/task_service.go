// Package service is the business rule engine in front of the repository:
// ordered rule pipelines per operation, the status transition machine,
// dependency cycle detection and mutation cascades.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"taskforge/internal/app/repository"
	"taskforge/internal/core/domain"
	"taskforge/internal/core/factory"
	"taskforge/internal/core/ports"
)

const DefaultMaxTasks = 1000

type Config struct {
	// MaxTasks is the collection-size ceiling enforced on create,
	// duplicate and import. Zero means DefaultMaxTasks.
	MaxTasks int
}

type createRule func(ctx context.Context, input *domain.CreateTaskInput) error
type updateRule func(ctx context.Context, existing *domain.Task, patch *domain.TaskPatch) error

type TaskService struct {
	taskRepository ports.TaskRepository
	taskFactory    *factory.Factory
	maxTasks       int

	createRules []createRule
	updateRules []updateRule
}

var _ ports.TaskService = (*TaskService)(nil)

func NewTaskService(taskRepository ports.TaskRepository, taskFactory *factory.Factory, cfg Config) *TaskService {
	maxTasks := cfg.MaxTasks
	if maxTasks <= 0 {
		maxTasks = DefaultMaxTasks
	}
	s := &TaskService{
		taskRepository: taskRepository,
		taskFactory:    taskFactory,
		maxTasks:       maxTasks,
	}
	s.createRules = []createRule{
		s.ruleCollectionCeiling,
	}
	s.updateRules = []updateRule{
		s.ruleStatusTransition,
		s.ruleCompletedLock,
		s.ruleAutoComplete,
		s.ruleAcyclicDependencies,
	}
	return s
}

// CreateTask runs the create pipeline and delegates to the repository.
// Variant defaults and shape validation happen in the factory; an empty
// variant triggers best-effort auto-detection.
func (s *TaskService) CreateTask(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	for _, rule := range s.createRules {
		if err := rule(ctx, &input); err != nil {
			return nil, err
		}
	}
	return s.taskRepository.CreateAuto(ctx, input)
}

// UpdateTask runs the update pipeline against the existing task before the
// repository applies the patch.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	existing, err := s.taskRepository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, rule := range s.updateRules {
		if err := rule(ctx, existing, &patch); err != nil {
			return nil, err
		}
	}
	return s.taskRepository.Update(ctx, id, patch)
}

// DeleteTask refuses to remove a task that active tasks still depend on;
// on success the id is stripped from every remaining dependency set.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.taskRepository.Get(ctx, id); err != nil {
		return err
	}
	if blockers := s.activeDependents(ctx, id, nil); len(blockers) > 0 {
		return &domain.HasDependenciesError{TaskID: id, Blockers: blockers}
	}

	removed, err := s.taskRepository.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrTaskNotFound
	}
	s.stripDependencyReferences(ctx, map[string]bool{id: true})
	return nil
}

// DeleteTasks removes every existing task in ids; unknown ids are silently
// ignored. Dependencies between members of the batch do not block it.
func (s *TaskService) DeleteTasks(ctx context.Context, ids []string) (int, error) {
	deleting := make(map[string]bool, len(ids))
	for _, id := range ids {
		deleting[id] = true
	}
	for _, id := range ids {
		if _, err := s.taskRepository.Get(ctx, id); err != nil {
			continue
		}
		if blockers := s.activeDependents(ctx, id, deleting); len(blockers) > 0 {
			return 0, &domain.HasDependenciesError{TaskID: id, Blockers: blockers}
		}
	}

	count, err := s.taskRepository.DeleteMany(ctx, ids)
	if err != nil {
		return count, err
	}
	if count > 0 {
		s.stripDependencyReferences(ctx, deleting)
	}
	return count, nil
}

// CompleteTask is the update specialization for finishing a task. Beyond the
// update rules it gates on outstanding work approval and incomplete project
// dependencies, and reports which tasks the completion unblocked.
func (s *TaskService) CompleteTask(ctx context.Context, id string) (domain.CompleteResult, error) {
	existing, err := s.taskRepository.Get(ctx, id)
	if err != nil {
		return domain.CompleteResult{}, err
	}
	if existing.Status == domain.TaskStatusCompleted {
		return domain.CompleteResult{Task: existing}, nil
	}

	if existing.Work != nil && existing.Work.RequiresApproval && existing.Work.ApprovedBy == "" {
		return domain.CompleteResult{}, domain.ErrApprovalRequired
	}
	if existing.Project != nil {
		if incomplete := s.incompleteDependencies(ctx, existing); len(incomplete) > 0 {
			return domain.CompleteResult{}, &domain.DependenciesIncompleteError{TaskID: id, Incomplete: incomplete}
		}
	}

	// Engine-initiated transition: bypasses the caller-facing transition
	// table the same way the progress auto-complete does.
	status := domain.TaskStatusCompleted
	task, err := s.taskRepository.Update(ctx, id, domain.TaskPatch{Status: &status})
	if err != nil {
		return domain.CompleteResult{}, err
	}

	unblocked := s.unblockedBy(ctx, id)
	if len(unblocked) > 0 {
		zap.L().Info("task completion unblocked dependents",
			zap.String("task_id", id),
			zap.Int("unblocked", len(unblocked)),
		)
	}
	return domain.CompleteResult{Task: task, Unblocked: unblocked}, nil
}

// DuplicateTask copies the task with a fresh id and a reset lifecycle.
func (s *TaskService) DuplicateTask(ctx context.Context, id string) (*domain.Task, error) {
	existing, err := s.taskRepository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.taskRepository.Count(ctx) >= s.maxTasks {
		return nil, fmt.Errorf("%w: collection ceiling is %d", domain.ErrLimitExceeded, s.maxTasks)
	}
	return s.taskRepository.Insert(ctx, s.taskFactory.Duplicate(existing))
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.taskRepository.Get(ctx, id)
}

// ListTasks filters and, when sortKey is non-empty, sorts the collection.
func (s *TaskService) ListTasks(ctx context.Context, criteria domain.FindCriteria, sortKey string) ([]*domain.Task, error) {
	tasks := s.taskRepository.Find(ctx, criteria)
	if sortKey != "" {
		tasks = repository.SortTasks(tasks, sortKey)
	}
	return tasks, nil
}

func (s *TaskService) Stats(ctx context.Context) (domain.TaskStats, error) {
	return s.taskRepository.Stats(ctx), nil
}

// ImportTasks rebuilds each record through the factory, re-assigning a fresh
// id to avoid collisions. Failures are collected per record; one bad record
// does not abort the batch.
func (s *TaskService) ImportTasks(ctx context.Context, records []domain.Record) (domain.ImportResult, error) {
	var result domain.ImportResult
	for i, rec := range records {
		if s.taskRepository.Count(ctx) >= s.maxTasks {
			result.Errors = append(result.Errors,
				fmt.Sprintf("record %d (%s): collection ceiling of %d reached", i, rec.ID, s.maxTasks))
			continue
		}
		task, err := s.taskFactory.FromRecord(rec)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d (%s): %v", i, rec.ID, err))
			continue
		}
		task.ID = s.taskFactory.NewID()
		if _, err := s.taskRepository.Insert(ctx, task); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %d (%s): %v", i, rec.ID, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *TaskService) ExportTasks(ctx context.Context) ([]domain.Record, error) {
	return domain.ToRecords(s.taskRepository.GetAll(ctx)), nil
}
