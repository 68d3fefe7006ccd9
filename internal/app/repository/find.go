package repository

import (
	"context"
	"strings"
	"time"

	"taskforge/internal/core/domain"
)

// Find returns the tasks matching every present criterion. The zero
// criteria returns the whole collection.
func (r *TaskRepository) Find(_ context.Context, criteria domain.FindCriteria) []*domain.Task {
	r.mu.RLock()
	tasks := r.snapshot()
	r.mu.RUnlock()

	now := r.now()
	matched := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if matches(task, criteria, now) {
			matched = append(matched, task)
		}
	}
	return matched
}

func matches(task *domain.Task, c domain.FindCriteria, now time.Time) bool {
	if c.Variant != nil && task.Variant != *c.Variant {
		return false
	}
	if c.Status != nil && task.Status != *c.Status {
		return false
	}
	if c.Priority != nil && task.Priority != *c.Priority {
		return false
	}
	for _, tag := range c.Tags {
		if !task.HasTag(strings.ToLower(tag)) {
			return false
		}
	}
	if c.DueDate != nil {
		if task.DueDate == nil || !sameDay(*task.DueDate, *c.DueDate) {
			return false
		}
	}
	if c.Overdue != nil && task.IsOverdue(now) != *c.Overdue {
		return false
	}
	if c.Search != "" && !matchesSearch(task, c.Search) {
		return false
	}
	if c.CreatedAfter != nil && task.CreatedAt.Before(*c.CreatedAfter) {
		return false
	}
	if c.CreatedBefore != nil && task.CreatedAt.After(*c.CreatedBefore) {
		return false
	}
	return true
}

func matchesSearch(task *domain.Task, query string) bool {
	query = strings.ToLower(query)
	if strings.Contains(strings.ToLower(task.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(task.Description), query) {
		return true
	}
	for _, tag := range task.Tags {
		if strings.Contains(tag, query) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
