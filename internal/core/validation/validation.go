// Package validation checks task fields against declarative rules and
// variant-specific invariants. Errors block the operation; warnings are
// advisory and returned alongside the sanitized task.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"taskforge/internal/core/domain"
)

var tagPattern = regexp.MustCompile(`^[a-z0-9\-_ ]+$`)

// Result is the outcome of a validation run. Sanitized holds a cleaned copy
// of the input task (trimmed strings, lowercased tags) regardless of Valid.
type Result struct {
	Valid     bool
	Errors    []domain.FieldError
	Warnings  []domain.FieldError
	Sanitized *domain.Task
}

// Rule is a single declarative field check. A nil return means the rule
// passed.
type Rule func() *domain.FieldError

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// ValidateTask sanitizes the task, runs the generic field rules, the
// cross-field checks and finally the variant dispatch table.
func (e *Engine) ValidateTask(t *domain.Task) Result {
	sanitized := sanitize(t)

	rules := []Rule{
		required("title", sanitized.Title),
		maxLength("title", sanitized.Title, domain.TitleMaxLength),
		maxLength("description", sanitized.Description, domain.DescriptionMaxLength),
		intRange("progress", sanitized.Progress, 0, 100),
		nonNegativeInt("estimatedMinutes", sanitized.EstimatedMinutes),
		nonNegativeInt("actualMinutes", sanitized.ActualMinutes),
		oneOf("priority", string(sanitized.Priority), sanitized.Priority.Valid()),
		oneOf("status", string(sanitized.Status), sanitized.Status.Valid()),
		tagRules(sanitized.Tags),
		timestamps(sanitized),
	}

	var result Result
	for _, rule := range rules {
		if fe := rule(); fe != nil {
			result.Errors = append(result.Errors, *fe)
		}
	}

	result.Warnings = append(result.Warnings, crossFieldWarnings(sanitized)...)

	if dispatch, ok := variantChecks[sanitized.Variant]; ok {
		errs, warns := dispatch(sanitized)
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warns...)
	}

	result.Valid = len(result.Errors) == 0
	result.Sanitized = sanitized
	return result
}

// Err converts a failed result into a *domain.ValidationError, or nil when
// the result is valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &domain.ValidationError{Errors: r.Errors}
}

func sanitize(t *domain.Task) *domain.Task {
	clean := t.Clone()
	clean.Title = strings.TrimSpace(clean.Title)
	clean.Description = strings.TrimSpace(clean.Description)

	tags := make([]string, 0, len(clean.Tags))
	seen := make(map[string]bool, len(clean.Tags))
	for _, tag := range clean.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	clean.Tags = tags
	return clean
}

func required(field, value string) Rule {
	return func() *domain.FieldError {
		if strings.TrimSpace(value) == "" {
			return &domain.FieldError{Field: field, Message: "is required"}
		}
		return nil
	}
}

func maxLength(field, value string, max int) Rule {
	return func() *domain.FieldError {
		if len(value) > max {
			return &domain.FieldError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)}
		}
		return nil
	}
}

func intRange(field string, value, min, max int) Rule {
	return func() *domain.FieldError {
		if value < min || value > max {
			return &domain.FieldError{Field: field, Message: fmt.Sprintf("must be between %d and %d", min, max)}
		}
		return nil
	}
}

func nonNegativeInt(field string, value int) Rule {
	return func() *domain.FieldError {
		if value < 0 {
			return &domain.FieldError{Field: field, Message: "must not be negative"}
		}
		return nil
	}
}

func nonNegativeFloat(field string, value float64) *domain.FieldError {
	if value < 0 {
		return &domain.FieldError{Field: field, Message: "must not be negative"}
	}
	return nil
}

func oneOf(field, value string, valid bool) Rule {
	return func() *domain.FieldError {
		if !valid {
			return &domain.FieldError{Field: field, Message: fmt.Sprintf("has unsupported value %q", value)}
		}
		return nil
	}
}

// tagRules applies the per-element tag constraints plus the collection cap.
func tagRules(tags []string) Rule {
	return func() *domain.FieldError {
		if len(tags) > domain.TagsMaxCount {
			return &domain.FieldError{Field: "tags", Message: fmt.Sprintf("at most %d tags allowed", domain.TagsMaxCount)}
		}
		for _, tag := range tags {
			if len(tag) > domain.TagMaxLength {
				return &domain.FieldError{Field: "tags", Message: fmt.Sprintf("tag %q exceeds %d characters", tag, domain.TagMaxLength)}
			}
			if !tagPattern.MatchString(tag) {
				return &domain.FieldError{Field: "tags", Message: fmt.Sprintf("tag %q contains unsupported characters", tag)}
			}
		}
		return nil
	}
}

func timestamps(t *domain.Task) Rule {
	return func() *domain.FieldError {
		if !t.CreatedAt.IsZero() && !t.UpdatedAt.IsZero() && t.UpdatedAt.Before(t.CreatedAt) {
			return &domain.FieldError{Field: "updatedAt", Message: "must not precede createdAt"}
		}
		return nil
	}
}

func crossFieldWarnings(t *domain.Task) []domain.FieldError {
	var warnings []domain.FieldError
	if t.Status == domain.TaskStatusCompleted && t.Progress < 100 {
		warnings = append(warnings, domain.FieldError{Field: "progress", Message: "completed task has progress below 100"})
	}
	if t.Status != domain.TaskStatusCompleted && t.CompletedAt != nil {
		warnings = append(warnings, domain.FieldError{Field: "completedAt", Message: "set on a task that is not completed"})
	}
	return warnings
}

// variantChecks dispatches the extra invariant of each builtin variant after
// the generic rules. Variants registered at runtime bring their own check
// through the factory registry.
var variantChecks = map[domain.TaskVariant]func(*domain.Task) ([]domain.FieldError, []domain.FieldError){
	domain.VariantWork:     checkWork,
	domain.VariantPersonal: checkPersonal,
	domain.VariantProject:  checkProject,
	domain.VariantReminder: checkDueDateExpected,
	domain.VariantMeeting:  checkDueDateExpected,
}

func checkWork(t *domain.Task) ([]domain.FieldError, []domain.FieldError) {
	if t.Work == nil {
		return []domain.FieldError{{Field: "work", Message: "work fields missing"}}, nil
	}
	var errs []domain.FieldError
	if fe := nonNegativeFloat("billableHours", t.Work.BillableHours); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := nonNegativeFloat("hourlyRate", t.Work.HourlyRate); fe != nil {
		errs = append(errs, *fe)
	}
	if t.Status == domain.TaskStatusCompleted && t.Work.RequiresApproval && t.Work.ApprovedBy == "" {
		errs = append(errs, domain.FieldError{Field: "approvedBy", Message: "completion requires approval"})
	}
	return errs, nil
}

func checkPersonal(t *domain.Task) ([]domain.FieldError, []domain.FieldError) {
	if t.Personal == nil {
		return []domain.FieldError{{Field: "personal", Message: "personal fields missing"}}, nil
	}
	var errs []domain.FieldError
	if t.Personal.MotivationLevel < 1 || t.Personal.MotivationLevel > 10 {
		errs = append(errs, domain.FieldError{Field: "motivationLevel", Message: "must be between 1 and 10"})
	}
	if !t.Personal.EnergyLevel.Valid() {
		errs = append(errs, domain.FieldError{Field: "energyLevel", Message: fmt.Sprintf("has unsupported value %q", t.Personal.EnergyLevel)})
	}
	return errs, nil
}

func checkProject(t *domain.Task) ([]domain.FieldError, []domain.FieldError) {
	if t.Project == nil {
		return []domain.FieldError{{Field: "project", Message: "project fields missing"}}, nil
	}
	var errs []domain.FieldError
	if t.Project.StoryPoints < 0 {
		errs = append(errs, domain.FieldError{Field: "storyPoints", Message: "must not be negative"})
	}
	if t.DependsOn(t.ID) {
		errs = append(errs, domain.FieldError{Field: "dependencies", Message: "task cannot depend on itself"})
	}
	return errs, nil
}

func checkDueDateExpected(t *domain.Task) ([]domain.FieldError, []domain.FieldError) {
	if t.DueDate == nil {
		return nil, []domain.FieldError{{Field: "dueDate", Message: "expected for this variant"}}
	}
	return nil, nil
}
