package domain

import (
	"time"
)

const (
	TitleMaxLength       = 200
	DescriptionMaxLength = 1000
	TagMaxLength         = 30
	TagsMaxCount         = 20
)

// Task is the canonical in-memory record. The variant discriminant plus the
// optional extension structs form a tagged union: exactly the extension
// matching Variant is non-nil, all others stay nil.
type Task struct {
	ID               string
	Title            string
	Description      string
	Variant          TaskVariant
	Priority         TaskPriority
	Status           TaskStatus
	Progress         int
	DueDate          *time.Time
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Tags             []string
	EstimatedMinutes int
	ActualMinutes    int

	Work     *WorkFields
	Personal *PersonalFields
	Project  *ProjectFields
}

type WorkFields struct {
	BillableHours    float64
	HourlyRate       float64
	RequiresApproval bool
	ApprovedBy       string
}

type PersonalFields struct {
	MotivationLevel int
	EnergyLevel     EnergyLevel
}

type ProjectFields struct {
	Phase        string
	Dependencies []string
	Assignees    []string
	StoryPoints  int
	IsBlocked    bool
}

// IsActive reports whether the task still counts as open work. Completed and
// cancelled tasks do not block deletion of their dependencies.
func (t *Task) IsActive() bool {
	return t.Status != TaskStatusCompleted && t.Status != TaskStatusCancelled
}

// IsOverdue reports whether the task has a due date in the past and is still
// active.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.IsActive() && t.DueDate.Before(now)
}

func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// AddTag appends the tag unless already present.
func (t *Task) AddTag(tag string) {
	if !t.HasTag(tag) {
		t.Tags = append(t.Tags, tag)
	}
}

// DependsOn reports whether the task (project variant) lists id as a
// dependency.
func (t *Task) DependsOn(id string) bool {
	if t.Project == nil {
		return false
	}
	for _, dep := range t.Project.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

// Describe returns the display metadata for the task's variant.
func (t *Task) Describe() DisplayMeta {
	caps, ok := variantTable[t.Variant]
	if !ok {
		caps = variantTable[VariantGeneric]
	}
	meta := DisplayMeta{Icon: caps.icon, Color: caps.color}
	if caps.badges != nil {
		meta.Badges = caps.badges(t)
	}
	return meta
}

// StatusChanged runs the variant's post-transition hook. An error means the
// transition must be rejected, not merely warned about.
func (t *Task) StatusChanged(old, next TaskStatus) error {
	if caps, ok := variantTable[t.Variant]; ok && caps.statusHook != nil {
		return caps.statusHook(t, old, next)
	}
	return nil
}

// Clone returns a deep copy so callers can hand tasks out without aliasing
// the repository's canonical copy.
func (t *Task) Clone() *Task {
	clone := *t
	clone.Tags = append([]string(nil), t.Tags...)
	if t.DueDate != nil {
		due := *t.DueDate
		clone.DueDate = &due
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		clone.CompletedAt = &completed
	}
	if t.Work != nil {
		work := *t.Work
		clone.Work = &work
	}
	if t.Personal != nil {
		personal := *t.Personal
		clone.Personal = &personal
	}
	if t.Project != nil {
		project := *t.Project
		project.Dependencies = append([]string(nil), t.Project.Dependencies...)
		project.Assignees = append([]string(nil), t.Project.Assignees...)
		clone.Project = &project
	}
	return &clone
}

// CreateTaskInput carries caller-supplied fields for a new task. Zero values
// fall back to variant defaults in the factory.
type CreateTaskInput struct {
	Title            string
	Description      string
	Variant          TaskVariant
	Priority         TaskPriority
	Status           TaskStatus
	Progress         int
	DueDate          *time.Time
	Tags             []string
	EstimatedMinutes int
	ActualMinutes    int

	Work     *WorkFields
	Personal *PersonalFields
	Project  *ProjectFields
}

// TaskPatch is a partial update. Nil pointers mean "leave unchanged"; the
// Set flags distinguish explicit nulls for clearable fields, mirroring how
// the HTTP payload builder reads raw JSON.
type TaskPatch struct {
	Title            *string
	Description      *string
	DescriptionSet   bool
	Variant          *TaskVariant
	Priority         *TaskPriority
	Status           *TaskStatus
	Progress         *int
	DueDate          *time.Time
	DueDateSet       bool
	CreatedAt        *time.Time
	Tags             []string
	TagsSet          bool
	EstimatedMinutes *int
	ActualMinutes    *int

	BillableHours    *float64
	HourlyRate       *float64
	RequiresApproval *bool
	ApprovedBy       *string
	ApprovedBySet    bool

	MotivationLevel *int
	EnergyLevel     *EnergyLevel

	Phase           *string
	Dependencies    []string
	DependenciesSet bool
	Assignees       []string
	AssigneesSet    bool
	StoryPoints     *int
	IsBlocked       *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && !p.DescriptionSet && p.Variant == nil &&
		p.Priority == nil && p.Status == nil && p.Progress == nil &&
		!p.DueDateSet && p.CreatedAt == nil && !p.TagsSet &&
		p.EstimatedMinutes == nil && p.ActualMinutes == nil &&
		p.BillableHours == nil && p.HourlyRate == nil &&
		p.RequiresApproval == nil && !p.ApprovedBySet &&
		p.MotivationLevel == nil && p.EnergyLevel == nil &&
		p.Phase == nil && !p.DependenciesSet && !p.AssigneesSet &&
		p.StoryPoints == nil && p.IsBlocked == nil
}
