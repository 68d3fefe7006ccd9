package domain

import "time"

// Record is the flat wire shape shared by the persistence providers and the
// import/export format: primitives only, dates as RFC3339 strings. The
// factory is the only component that turns a Record back into a Task.
type Record struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Variant          string   `json:"variant"`
	Priority         string   `json:"priority"`
	Status           string   `json:"status"`
	Progress         int      `json:"progress"`
	DueDate          *string  `json:"due_date,omitempty"`
	CompletedAt      *string  `json:"completed_at,omitempty"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
	Tags             []string `json:"tags,omitempty"`
	EstimatedMinutes int      `json:"estimated_minutes,omitempty"`
	ActualMinutes    int      `json:"actual_minutes,omitempty"`

	BillableHours    *float64 `json:"billable_hours,omitempty"`
	HourlyRate       *float64 `json:"hourly_rate,omitempty"`
	RequiresApproval *bool    `json:"requires_approval,omitempty"`
	ApprovedBy       *string  `json:"approved_by,omitempty"`

	MotivationLevel *int    `json:"motivation_level,omitempty"`
	EnergyLevel     *string `json:"energy_level,omitempty"`

	Phase        *string  `json:"phase,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Assignees    []string `json:"assignees,omitempty"`
	StoryPoints  *int     `json:"story_points,omitempty"`
	IsBlocked    *bool    `json:"is_blocked,omitempty"`
}

// ToRecord flattens the task into the persistence shape.
func (t *Task) ToRecord() Record {
	rec := Record{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		Variant:          string(t.Variant),
		Priority:         string(t.Priority),
		Status:           string(t.Status),
		Progress:         t.Progress,
		CreatedAt:        t.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:        t.UpdatedAt.Format(time.RFC3339Nano),
		Tags:             append([]string(nil), t.Tags...),
		EstimatedMinutes: t.EstimatedMinutes,
		ActualMinutes:    t.ActualMinutes,
	}

	if t.DueDate != nil {
		value := t.DueDate.Format(time.RFC3339Nano)
		rec.DueDate = &value
	}
	if t.CompletedAt != nil {
		value := t.CompletedAt.Format(time.RFC3339Nano)
		rec.CompletedAt = &value
	}

	if t.Work != nil {
		rec.BillableHours = &t.Work.BillableHours
		rec.HourlyRate = &t.Work.HourlyRate
		rec.RequiresApproval = &t.Work.RequiresApproval
		approvedBy := t.Work.ApprovedBy
		rec.ApprovedBy = &approvedBy
	}
	if t.Personal != nil {
		rec.MotivationLevel = &t.Personal.MotivationLevel
		energy := string(t.Personal.EnergyLevel)
		rec.EnergyLevel = &energy
	}
	if t.Project != nil {
		phase := t.Project.Phase
		rec.Phase = &phase
		rec.Dependencies = append([]string(nil), t.Project.Dependencies...)
		rec.Assignees = append([]string(nil), t.Project.Assignees...)
		rec.StoryPoints = &t.Project.StoryPoints
		rec.IsBlocked = &t.Project.IsBlocked
	}

	return rec
}

// ToRecords flattens a slice of tasks, preserving order.
func ToRecords(tasks []*Task) []Record {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, t.ToRecord())
	}
	return records
}
