// Package repository owns the canonical in-memory task collection. Every
// mutation mirrors the full collection to the persistence provider; the map
// stays the source of truth when the mirror write fails.
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskforge/internal/core/domain"
	"taskforge/internal/core/factory"
	"taskforge/internal/core/ports"
	"taskforge/internal/core/validation"
)

type TaskRepository struct {
	mu        sync.RWMutex
	factory   *factory.Factory
	validator *validation.Engine
	store     ports.Store

	tasks map[string]*domain.Task

	subMu       sync.Mutex
	subscribers map[int]func(domain.Event)
	nextSubID   int

	now func() time.Time
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(f *factory.Factory, validator *validation.Engine, store ports.Store) *TaskRepository {
	return &TaskRepository{
		factory:     f,
		validator:   validator,
		store:       store,
		tasks:       make(map[string]*domain.Task),
		subscribers: make(map[int]func(domain.Event)),
		now:         time.Now,
	}
}

// Load rebuilds the collection from the store. Records that fail
// reconstruction are skipped with a warning so one corrupt entry cannot
// block startup.
func (r *TaskRepository) Load(ctx context.Context) error {
	records, err := r.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	tasks := make(map[string]*domain.Task, len(records))
	skipped := 0
	for _, rec := range records {
		task, err := r.factory.FromRecord(rec)
		if err != nil {
			skipped++
			zap.L().Warn("skipping unreadable task record",
				zap.String("task_id", rec.ID),
				zap.Error(err),
			)
			continue
		}
		tasks[task.ID] = task
	}

	r.mu.Lock()
	r.tasks = tasks
	r.mu.Unlock()

	zap.L().Info("task collection loaded",
		zap.Int("loaded", len(tasks)),
		zap.Int("skipped", skipped),
	)
	return nil
}

func (r *TaskRepository) Create(ctx context.Context, variant domain.TaskVariant, input domain.CreateTaskInput) (*domain.Task, error) {
	task, err := r.factory.Create(variant, input)
	if err != nil {
		return nil, err
	}
	return r.Insert(ctx, task)
}

func (r *TaskRepository) CreateAuto(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	task, err := r.factory.CreateAuto(input)
	if err != nil {
		return nil, err
	}
	return r.Insert(ctx, task)
}

// Insert stores an already-built task and mirrors the collection.
func (r *TaskRepository) Insert(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	r.tasks[task.ID] = task.Clone()
	r.mu.Unlock()

	if err := r.persist(ctx); err != nil {
		return task.Clone(), err
	}
	r.publish(domain.Event{Type: domain.EventCreated, Task: task.Clone()})
	return task.Clone(), nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	existing, ok := r.tasks[id]
	if !ok {
		r.mu.Unlock()
		return nil, domain.ErrTaskNotFound
	}

	updated := existing.Clone()
	oldStatus := updated.Status
	applyPatch(updated, patch, r.now())

	result := r.validator.ValidateTask(updated)
	if !result.Valid {
		r.mu.Unlock()
		return nil, &domain.ValidationError{Errors: result.Errors}
	}
	updated = result.Sanitized

	if updated.Status != oldStatus {
		if err := updated.StatusChanged(oldStatus, updated.Status); err != nil {
			r.mu.Unlock()
			return nil, err
		}
	}

	r.tasks[id] = updated
	r.mu.Unlock()

	if err := r.persist(ctx); err != nil {
		return updated.Clone(), err
	}
	r.publish(domain.Event{Type: domain.EventUpdated, Task: updated.Clone(), Patch: &patch})
	return updated.Clone(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	task, ok := r.tasks[id]
	if !ok {
		r.mu.Unlock()
		return false, nil
	}
	delete(r.tasks, id)
	r.mu.Unlock()

	if err := r.persist(ctx); err != nil {
		return true, err
	}
	r.publish(domain.Event{Type: domain.EventDeleted, Task: task})
	return true, nil
}

// DeleteMany removes every listed task that exists; unknown ids are silently
// ignored. Returns the number of tasks actually removed.
func (r *TaskRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	r.mu.Lock()
	var removed []*domain.Task
	for _, id := range ids {
		if task, ok := r.tasks[id]; ok {
			removed = append(removed, task)
			delete(r.tasks, id)
		}
	}
	r.mu.Unlock()

	if len(removed) == 0 {
		return 0, nil
	}
	if err := r.persist(ctx); err != nil {
		return len(removed), err
	}
	r.publish(domain.Event{Type: domain.EventTasksDeleted, Tasks: removed, Count: len(removed)})
	return len(removed), nil
}

func (r *TaskRepository) Clear(ctx context.Context) (int, error) {
	r.mu.Lock()
	count := len(r.tasks)
	r.tasks = make(map[string]*domain.Task)
	r.mu.Unlock()

	if err := r.persist(ctx); err != nil {
		return count, err
	}
	r.publish(domain.Event{Type: domain.EventCleared, Count: count})
	return count, nil
}

func (r *TaskRepository) Get(_ context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return task.Clone(), nil
}

func (r *TaskRepository) GetAll(_ context.Context) []*domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

func (r *TaskRepository) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

// Subscribe registers a synchronous change listener. The returned function
// removes it again.
func (r *TaskRepository) Subscribe(fn func(domain.Event)) func() {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = fn
	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		delete(r.subscribers, id)
	}
}

func (r *TaskRepository) publish(event domain.Event) {
	r.subMu.Lock()
	ids := make([]int, 0, len(r.subscribers))
	for id := range r.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(domain.Event), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, r.subscribers[id])
	}
	r.subMu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

// persist mirrors the whole collection to the store. The in-memory state is
// already mutated when this runs; a failure surfaces to the caller but is
// not rolled back.
func (r *TaskRepository) persist(ctx context.Context) error {
	r.mu.RLock()
	tasks := r.snapshot()
	r.mu.RUnlock()

	if err := r.store.SaveAll(ctx, domain.ToRecords(tasks)); err != nil {
		zap.L().Error("failed to mirror task collection", zap.Error(err))
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// snapshot returns cloned tasks in a deterministic order. Callers must hold
// at least a read lock.
func (r *TaskRepository) snapshot() []*domain.Task {
	tasks := make([]*domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task.Clone())
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks
}

// applyPatch merges the patch into the task and keeps the completion
// invariants: entering completed forces progress to 100 and stamps
// CompletedAt, leaving completed clears it.
func applyPatch(task *domain.Task, patch domain.TaskPatch, now time.Time) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.DescriptionSet {
		if patch.Description != nil {
			task.Description = *patch.Description
		} else {
			task.Description = ""
		}
	}
	if patch.Variant != nil {
		task.Variant = *patch.Variant
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Progress != nil {
		task.Progress = *patch.Progress
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.DueDateSet {
		task.DueDate = patch.DueDate
	}
	if patch.CreatedAt != nil {
		task.CreatedAt = *patch.CreatedAt
	}
	if patch.TagsSet {
		task.Tags = append([]string(nil), patch.Tags...)
	}
	if patch.EstimatedMinutes != nil {
		task.EstimatedMinutes = *patch.EstimatedMinutes
	}
	if patch.ActualMinutes != nil {
		task.ActualMinutes = *patch.ActualMinutes
	}

	if task.Work != nil {
		if patch.BillableHours != nil {
			task.Work.BillableHours = *patch.BillableHours
		}
		if patch.HourlyRate != nil {
			task.Work.HourlyRate = *patch.HourlyRate
		}
		if patch.RequiresApproval != nil {
			task.Work.RequiresApproval = *patch.RequiresApproval
		}
		if patch.ApprovedBySet {
			if patch.ApprovedBy != nil {
				task.Work.ApprovedBy = *patch.ApprovedBy
			} else {
				task.Work.ApprovedBy = ""
			}
		}
	}
	if task.Personal != nil {
		if patch.MotivationLevel != nil {
			task.Personal.MotivationLevel = *patch.MotivationLevel
		}
		if patch.EnergyLevel != nil {
			task.Personal.EnergyLevel = *patch.EnergyLevel
		}
	}
	if task.Project != nil {
		if patch.Phase != nil {
			task.Project.Phase = *patch.Phase
		}
		if patch.DependenciesSet {
			task.Project.Dependencies = append([]string(nil), patch.Dependencies...)
		}
		if patch.AssigneesSet {
			task.Project.Assignees = append([]string(nil), patch.Assignees...)
		}
		if patch.StoryPoints != nil {
			task.Project.StoryPoints = *patch.StoryPoints
		}
		if patch.IsBlocked != nil {
			task.Project.IsBlocked = *patch.IsBlocked
		}
	}

	if task.Status == domain.TaskStatusCompleted {
		task.Progress = 100
		if task.CompletedAt == nil {
			completed := now
			task.CompletedAt = &completed
		}
	} else {
		task.CompletedAt = nil
	}
	task.UpdatedAt = now
}
