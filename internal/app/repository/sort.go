package repository

import (
	"sort"
	"strings"

	"taskforge/internal/core/domain"
)

// SortTasks returns a stably sorted copy of tasks. The key optionally
// carries an "-asc"/"-desc" suffix; without one the direction is descending.
// Unknown keys fall back to creation time.
func SortTasks(tasks []*domain.Task, key string) []*domain.Task {
	ascending := false
	switch {
	case strings.HasSuffix(key, "-asc"):
		ascending = true
		key = strings.TrimSuffix(key, "-asc")
	case strings.HasSuffix(key, "-desc"):
		key = strings.TrimSuffix(key, "-desc")
	}

	less := lessFunc(key)
	sorted := append([]*domain.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return less(sorted[i], sorted[j])
		}
		return less(sorted[j], sorted[i])
	})
	return sorted
}

// lessFunc returns the ascending comparison for the base key.
func lessFunc(key string) func(a, b *domain.Task) bool {
	switch key {
	case "updated":
		return func(a, b *domain.Task) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "title":
		return func(a, b *domain.Task) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case "priority":
		return func(a, b *domain.Task) bool { return a.Priority.Weight() < b.Priority.Weight() }
	case "due-date":
		// Tasks without a due date sort as far-future.
		return func(a, b *domain.Task) bool {
			if a.DueDate == nil {
				return false
			}
			if b.DueDate == nil {
				return true
			}
			return a.DueDate.Before(*b.DueDate)
		}
	case "status":
		return func(a, b *domain.Task) bool { return a.Status.Ordinal() < b.Status.Ordinal() }
	case "progress":
		return func(a, b *domain.Task) bool { return a.Progress < b.Progress }
	default:
		return func(a, b *domain.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}
