package repository

import (
	"context"
	"math"

	"taskforge/internal/core/domain"
)

// Stats aggregates the collection into the dashboard snapshot.
func (r *TaskRepository) Stats(_ context.Context) domain.TaskStats {
	r.mu.RLock()
	tasks := r.snapshot()
	r.mu.RUnlock()

	now := r.now()
	stats := domain.TaskStats{
		Total:      len(tasks),
		ByStatus:   make(map[domain.TaskStatus]int),
		ByVariant:  make(map[domain.TaskVariant]int),
		ByPriority: make(map[domain.TaskPriority]int),
	}

	completed := 0
	for _, task := range tasks {
		stats.ByStatus[task.Status]++
		stats.ByVariant[task.Variant]++
		stats.ByPriority[task.Priority]++
		if task.Status == domain.TaskStatusCompleted {
			completed++
		}
		if task.IsOverdue(now) {
			stats.Overdue++
		}
		if task.DueDate != nil && sameDay(*task.DueDate, now) {
			stats.DueToday++
		}
	}

	if stats.Total > 0 {
		rate := float64(completed) / float64(stats.Total) * 100
		stats.CompletionRate = math.Round(rate*100) / 100
	}
	return stats
}
