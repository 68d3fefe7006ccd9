package dto

type DisplayMeta struct {
	Icon   string   `json:"icon"`
	Color  string   `json:"color"`
	Badges []string `json:"badges,omitempty"`
}

type WorkItem struct {
	BillableHours    float64 `json:"billable_hours"`
	HourlyRate       float64 `json:"hourly_rate"`
	RequiresApproval bool    `json:"requires_approval"`
	ApprovedBy       string  `json:"approved_by,omitempty"`
}

type PersonalItem struct {
	MotivationLevel int    `json:"motivation_level"`
	EnergyLevel     string `json:"energy_level"`
}

type ProjectItem struct {
	Phase        string   `json:"phase"`
	Dependencies []string `json:"dependencies,omitempty"`
	Assignees    []string `json:"assignees,omitempty"`
	StoryPoints  int      `json:"story_points"`
	IsBlocked    bool     `json:"is_blocked"`
}

type TaskItem struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	Variant          string      `json:"variant"`
	Priority         string      `json:"priority"`
	Status           string      `json:"status"`
	Progress         int         `json:"progress"`
	DueDate          *string     `json:"due_date,omitempty"`
	CompletedAt      *string     `json:"completed_at,omitempty"`
	CreatedAt        string      `json:"created_at"`
	UpdatedAt        string      `json:"updated_at"`
	Tags             []string    `json:"tags,omitempty"`
	EstimatedMinutes int         `json:"estimated_minutes"`
	ActualMinutes    int         `json:"actual_minutes"`
	Display          DisplayMeta `json:"display"`

	Work     *WorkItem     `json:"work,omitempty"`
	Personal *PersonalItem `json:"personal,omitempty"`
	Project  *ProjectItem  `json:"project,omitempty"`
}

type WorkPayload struct {
	BillableHours    *float64 `json:"billable_hours" binding:"omitempty,gte=0"`
	HourlyRate       *float64 `json:"hourly_rate" binding:"omitempty,gte=0"`
	RequiresApproval *bool    `json:"requires_approval"`
	ApprovedBy       *string  `json:"approved_by"`
}

type PersonalPayload struct {
	MotivationLevel *int    `json:"motivation_level" binding:"omitempty,gte=1,lte=10"`
	EnergyLevel     *string `json:"energy_level" binding:"omitempty,oneof=low medium high"`
}

type ProjectPayload struct {
	Phase        *string  `json:"phase"`
	Dependencies []string `json:"dependencies"`
	Assignees    []string `json:"assignees"`
	StoryPoints  *int     `json:"story_points" binding:"omitempty,gte=0"`
	IsBlocked    *bool    `json:"is_blocked"`
}

type CreateTaskRequest struct {
	Title            string           `json:"title" binding:"required,max=200"`
	Description      *string          `json:"description" binding:"omitempty,max=1000"`
	Variant          *string          `json:"variant"`
	Priority         *string          `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status           *string          `json:"status" binding:"omitempty,oneof=pending in-progress completed cancelled"`
	Progress         *int             `json:"progress" binding:"omitempty,gte=0,lte=100"`
	DueDate          *string          `json:"due_date"`
	Tags             []string         `json:"tags" binding:"omitempty,max=20,dive,max=30"`
	EstimatedMinutes *int             `json:"estimated_minutes" binding:"omitempty,gte=0"`
	ActualMinutes    *int             `json:"actual_minutes" binding:"omitempty,gte=0"`
	Work             *WorkPayload     `json:"work"`
	Personal         *PersonalPayload `json:"personal"`
	Project          *ProjectPayload  `json:"project"`
}

type UpdateTaskRequest struct {
	Title            *string          `json:"title" binding:"omitempty,max=200"`
	Description      *string          `json:"description" binding:"omitempty,max=1000"`
	Priority         *string          `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status           *string          `json:"status" binding:"omitempty,oneof=pending in-progress completed cancelled"`
	Progress         *int             `json:"progress" binding:"omitempty,gte=0,lte=100"`
	DueDate          *string          `json:"due_date"`
	Tags             []string         `json:"tags" binding:"omitempty,max=20,dive,max=30"`
	EstimatedMinutes *int             `json:"estimated_minutes" binding:"omitempty,gte=0"`
	ActualMinutes    *int             `json:"actual_minutes" binding:"omitempty,gte=0"`
	Work             *WorkPayload     `json:"work"`
	Personal         *PersonalPayload `json:"personal"`
	Project          *ProjectPayload  `json:"project"`
}

type DeleteTasksRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

type DeleteTasksResponse struct {
	Deleted int `json:"deleted"`
}

type CompleteTaskResponse struct {
	Task      TaskItem   `json:"task"`
	Unblocked []TaskItem `json:"unblocked,omitempty"`
}
