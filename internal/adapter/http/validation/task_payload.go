package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"taskforge/internal/adapter/http/dto"
	"taskforge/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

// Accepted due date layouts: a plain day or a full timestamp.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

func BuildCreateTaskInput(req dto.CreateTaskRequest) (domain.CreateTaskInput, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	input := domain.CreateTaskInput{
		Title: title,
		Tags:  req.Tags,
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Variant != nil {
		input.Variant = domain.TaskVariant(*req.Variant)
	}
	if req.Priority != nil {
		input.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.Status != nil {
		input.Status = domain.TaskStatus(*req.Status)
	}
	if req.Progress != nil {
		input.Progress = *req.Progress
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
		input.DueDate = &dueDate
	}
	if req.EstimatedMinutes != nil {
		input.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.ActualMinutes != nil {
		input.ActualMinutes = *req.ActualMinutes
	}

	if req.Work != nil {
		work := &domain.WorkFields{}
		if req.Work.BillableHours != nil {
			work.BillableHours = *req.Work.BillableHours
		}
		if req.Work.HourlyRate != nil {
			work.HourlyRate = *req.Work.HourlyRate
		}
		if req.Work.RequiresApproval != nil {
			work.RequiresApproval = *req.Work.RequiresApproval
		}
		if req.Work.ApprovedBy != nil {
			work.ApprovedBy = *req.Work.ApprovedBy
		}
		input.Work = work
	}
	if req.Personal != nil {
		personal := &domain.PersonalFields{}
		if req.Personal.MotivationLevel != nil {
			personal.MotivationLevel = *req.Personal.MotivationLevel
		}
		if req.Personal.EnergyLevel != nil {
			personal.EnergyLevel = domain.EnergyLevel(*req.Personal.EnergyLevel)
		}
		input.Personal = personal
	}
	if req.Project != nil {
		input.Project = &domain.ProjectFields{
			Dependencies: req.Project.Dependencies,
			Assignees:    req.Project.Assignees,
		}
		if req.Project.Phase != nil {
			input.Project.Phase = *req.Project.Phase
		}
		if req.Project.StoryPoints != nil {
			input.Project.StoryPoints = *req.Project.StoryPoints
		}
		if req.Project.IsBlocked != nil {
			input.Project.IsBlocked = *req.Project.IsBlocked
		}
	}

	return input, nil
}

// BuildTaskPatch turns the request into a patch, using the raw message map
// to tell an absent field from an explicit null on clearable fields.
func BuildTaskPatch(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.TaskPatch, error) {
	if len(raw) == 0 {
		return domain.TaskPatch{}, ErrInvalidTaskPayload
	}

	var patch domain.TaskPatch

	if hasJSONField(raw, "title") {
		if req.Title == nil {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
		patch.Title = &title
	}

	if hasJSONField(raw, "description") {
		patch.DescriptionSet = true
		if !isJSONNull(raw["description"]) {
			if req.Description == nil {
				return domain.TaskPatch{}, ErrInvalidTaskPayload
			}
			patch.Description = req.Description
		}
	}

	if hasJSONField(raw, "priority") {
		if req.Priority == nil {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}

	if hasJSONField(raw, "status") {
		if req.Status == nil {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}

	if hasJSONField(raw, "progress") {
		if req.Progress == nil {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
		patch.Progress = req.Progress
	}

	if hasJSONField(raw, "due_date") {
		patch.DueDateSet = true
		if !isJSONNull(raw["due_date"]) {
			if req.DueDate == nil {
				return domain.TaskPatch{}, ErrInvalidTaskPayload
			}
			dueDate, err := parseDueDate(*req.DueDate)
			if err != nil {
				return domain.TaskPatch{}, ErrInvalidTaskPayload
			}
			patch.DueDate = &dueDate
		}
	}

	if hasJSONField(raw, "tags") {
		patch.TagsSet = true
		patch.Tags = req.Tags
	}

	if hasJSONField(raw, "estimated_minutes") {
		if req.EstimatedMinutes == nil {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
		patch.EstimatedMinutes = req.EstimatedMinutes
	}
	if hasJSONField(raw, "actual_minutes") {
		if req.ActualMinutes == nil {
			return domain.TaskPatch{}, ErrInvalidTaskPayload
		}
		patch.ActualMinutes = req.ActualMinutes
	}

	if req.Work != nil {
		patch.BillableHours = req.Work.BillableHours
		patch.HourlyRate = req.Work.HourlyRate
		patch.RequiresApproval = req.Work.RequiresApproval
		if workRaw, ok := rawObject(raw, "work"); ok && hasJSONField(workRaw, "approved_by") {
			patch.ApprovedBySet = true
			patch.ApprovedBy = req.Work.ApprovedBy
		}
	}
	if req.Personal != nil {
		patch.MotivationLevel = req.Personal.MotivationLevel
		if req.Personal.EnergyLevel != nil {
			energy := domain.EnergyLevel(*req.Personal.EnergyLevel)
			patch.EnergyLevel = &energy
		}
	}
	if req.Project != nil {
		patch.Phase = req.Project.Phase
		patch.StoryPoints = req.Project.StoryPoints
		patch.IsBlocked = req.Project.IsBlocked
		if projectRaw, ok := rawObject(raw, "project"); ok {
			if hasJSONField(projectRaw, "dependencies") {
				patch.DependenciesSet = true
				patch.Dependencies = req.Project.Dependencies
			}
			if hasJSONField(projectRaw, "assignees") {
				patch.AssigneesSet = true
				patch.Assignees = req.Project.Assignees
			}
		}
	}

	if patch.Empty() {
		return domain.TaskPatch{}, ErrInvalidTaskPayload
	}
	return patch, nil
}

func parseDueDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dueDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func rawObject(raw map[string]json.RawMessage, field string) (map[string]json.RawMessage, bool) {
	value, ok := raw[field]
	if !ok || isJSONNull(value) {
		return nil, false
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(value, &nested); err != nil {
		return nil, false
	}
	return nested, true
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
