package mapper

import (
	"time"

	"taskforge/internal/adapter/http/dto"
	"taskforge/internal/core/domain"
)

func ToTaskItems(tasks []*domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task *domain.Task) dto.TaskItem {
	meta := task.Describe()
	item := dto.TaskItem{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		Variant:          string(task.Variant),
		Priority:         string(task.Priority),
		Status:           string(task.Status),
		Progress:         task.Progress,
		CreatedAt:        task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        task.UpdatedAt.Format(time.RFC3339),
		Tags:             append([]string(nil), task.Tags...),
		EstimatedMinutes: task.EstimatedMinutes,
		ActualMinutes:    task.ActualMinutes,
		Display: dto.DisplayMeta{
			Icon:   meta.Icon,
			Color:  meta.Color,
			Badges: meta.Badges,
		},
	}

	if task.DueDate != nil {
		value := task.DueDate.Format(time.RFC3339)
		item.DueDate = &value
	}
	if task.CompletedAt != nil {
		value := task.CompletedAt.Format(time.RFC3339)
		item.CompletedAt = &value
	}

	if task.Work != nil {
		item.Work = &dto.WorkItem{
			BillableHours:    task.Work.BillableHours,
			HourlyRate:       task.Work.HourlyRate,
			RequiresApproval: task.Work.RequiresApproval,
			ApprovedBy:       task.Work.ApprovedBy,
		}
	}
	if task.Personal != nil {
		item.Personal = &dto.PersonalItem{
			MotivationLevel: task.Personal.MotivationLevel,
			EnergyLevel:     string(task.Personal.EnergyLevel),
		}
	}
	if task.Project != nil {
		item.Project = &dto.ProjectItem{
			Phase:        task.Project.Phase,
			Dependencies: append([]string(nil), task.Project.Dependencies...),
			Assignees:    append([]string(nil), task.Project.Assignees...),
			StoryPoints:  task.Project.StoryPoints,
			IsBlocked:    task.Project.IsBlocked,
		}
	}

	return item
}
