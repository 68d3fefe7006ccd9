// Package factory builds typed tasks: variant defaults merged under caller
// data, validation, post-creation setup, and reconstruction from the flat
// persistence shape.
package factory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskforge/internal/core/domain"
	"taskforge/internal/core/validation"
)

const defaultDueDateLead = 24 * time.Hour

type Factory struct {
	registry  *Registry
	validator *validation.Engine

	// Overridable in tests.
	now   func() time.Time
	newID func() string
}

func New(registry *Registry, validator *validation.Engine) *Factory {
	return &Factory{
		registry:  registry,
		validator: validator,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Create builds a task of the requested variant. Variant defaults fill only
// fields the caller left empty; validation runs on the merged result.
func (f *Factory) Create(variant domain.TaskVariant, input domain.CreateTaskInput) (*domain.Task, error) {
	spec, ok := f.registry.Lookup(variant)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, variant)
	}

	now := f.now()
	task := &domain.Task{
		ID:               f.newID(),
		Title:            input.Title,
		Description:      input.Description,
		Variant:          variant,
		Priority:         input.Priority,
		Status:           input.Status,
		Progress:         input.Progress,
		DueDate:          input.DueDate,
		CreatedAt:        now,
		UpdatedAt:        now,
		Tags:             append([]string(nil), input.Tags...),
		EstimatedMinutes: input.EstimatedMinutes,
		ActualMinutes:    input.ActualMinutes,
		Work:             input.Work,
		Personal:         input.Personal,
		Project:          input.Project,
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if spec.Defaults != nil {
		spec.Defaults(task)
	}
	if task.Status == domain.TaskStatusCompleted {
		task.Progress = 100
		completed := now
		task.CompletedAt = &completed
	}

	result := f.validator.ValidateTask(task)
	if spec.Validate != nil {
		result.Errors = append(result.Errors, spec.Validate(result.Sanitized)...)
		result.Valid = len(result.Errors) == 0
	}
	if !result.Valid {
		return nil, &domain.ValidationError{Errors: result.Errors}
	}
	task = result.Sanitized

	f.postSetup(task, spec)
	return task, nil
}

// CreateAuto classifies the input when no variant was supplied. Best-effort:
// a keyword heuristic, not a guarantee; ties fall back to personal.
func (f *Factory) CreateAuto(input domain.CreateTaskInput) (*domain.Task, error) {
	if input.Variant != "" {
		return f.Create(input.Variant, input)
	}
	return f.Create(DetectVariant(input), input)
}

// postSetup attaches the variant tag plus variant-conditional tags and fills
// a default due date for variants that conventionally carry one.
func (f *Factory) postSetup(task *domain.Task, spec VariantSpec) {
	task.AddTag(string(task.Variant))
	for _, tag := range spec.ExtraTags {
		task.AddTag(tag)
	}
	if task.DueDate == nil && task.Variant.NeedsDefaultDueDate() {
		due := f.now().Add(defaultDueDateLead)
		task.DueDate = &due
	}
}

// Duplicate builds a fresh copy of the task: new id, reset lifecycle, title
// suffixed with " (Copy)".
func (f *Factory) Duplicate(t *domain.Task) *domain.Task {
	now := f.now()
	copy := t.Clone()
	copy.ID = f.newID()
	copy.Title = t.Title + " (Copy)"
	copy.Status = domain.TaskStatusPending
	copy.Progress = 0
	copy.CompletedAt = nil
	copy.CreatedAt = now
	copy.UpdatedAt = now
	return copy
}

// NewID mints a fresh task id.
func (f *Factory) NewID() string {
	return f.newID()
}

// FromRecord reconstructs a typed task from the flat persistence shape. The
// factory is the only place this happens; a record that fails to parse or
// validate is rejected here and skipped by the caller.
func (f *Factory) FromRecord(rec domain.Record) (*domain.Task, error) {
	variant := domain.TaskVariant(rec.Variant)
	if !f.registry.Registered(variant) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, rec.Variant)
	}
	if rec.ID == "" {
		return nil, fmt.Errorf("record has no id")
	}

	createdAt, err := parseTime(rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	updatedAt, err := parseTime(rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}

	task := &domain.Task{
		ID:               rec.ID,
		Title:            rec.Title,
		Description:      rec.Description,
		Variant:          variant,
		Priority:         domain.TaskPriority(rec.Priority),
		Status:           domain.TaskStatus(rec.Status),
		Progress:         rec.Progress,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
		Tags:             append([]string(nil), rec.Tags...),
		EstimatedMinutes: rec.EstimatedMinutes,
		ActualMinutes:    rec.ActualMinutes,
	}

	if rec.DueDate != nil {
		due, err := parseTime(*rec.DueDate)
		if err != nil {
			return nil, fmt.Errorf("due_date: %w", err)
		}
		task.DueDate = &due
	}
	if rec.CompletedAt != nil {
		completed, err := parseTime(*rec.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("completed_at: %w", err)
		}
		task.CompletedAt = &completed
	}

	switch variant {
	case domain.VariantWork:
		work := &domain.WorkFields{}
		if rec.BillableHours != nil {
			work.BillableHours = *rec.BillableHours
		}
		if rec.HourlyRate != nil {
			work.HourlyRate = *rec.HourlyRate
		}
		if rec.RequiresApproval != nil {
			work.RequiresApproval = *rec.RequiresApproval
		}
		if rec.ApprovedBy != nil {
			work.ApprovedBy = *rec.ApprovedBy
		}
		task.Work = work
	case domain.VariantPersonal:
		personal := &domain.PersonalFields{MotivationLevel: 5, EnergyLevel: domain.EnergyLevelMedium}
		if rec.MotivationLevel != nil {
			personal.MotivationLevel = *rec.MotivationLevel
		}
		if rec.EnergyLevel != nil {
			personal.EnergyLevel = domain.EnergyLevel(*rec.EnergyLevel)
		}
		task.Personal = personal
	case domain.VariantProject:
		project := &domain.ProjectFields{
			Dependencies: append([]string(nil), rec.Dependencies...),
			Assignees:    append([]string(nil), rec.Assignees...),
		}
		if rec.Phase != nil {
			project.Phase = *rec.Phase
		}
		if rec.StoryPoints != nil {
			project.StoryPoints = *rec.StoryPoints
		}
		if rec.IsBlocked != nil {
			project.IsBlocked = *rec.IsBlocked
		}
		task.Project = project
	}

	result := f.validator.ValidateTask(task)
	if !result.Valid {
		return nil, &domain.ValidationError{Errors: result.Errors}
	}
	return result.Sanitized, nil
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	return time.Parse(time.RFC3339Nano, value)
}
