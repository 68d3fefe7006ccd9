package domain

type TaskVariant string

const (
	VariantGeneric  TaskVariant = "generic"
	VariantWork     TaskVariant = "work"
	VariantPersonal TaskVariant = "personal"
	VariantProject  TaskVariant = "project"
	VariantReminder TaskVariant = "reminder"
	VariantMeeting  TaskVariant = "meeting"
	VariantGoal     TaskVariant = "goal"
)

// BuiltinVariants lists every variant known to the domain, in a stable order.
func BuiltinVariants() []TaskVariant {
	return []TaskVariant{
		VariantGeneric,
		VariantWork,
		VariantPersonal,
		VariantProject,
		VariantReminder,
		VariantMeeting,
		VariantGoal,
	}
}

// DisplayMeta is the presentation metadata a UI layer renders for a task.
type DisplayMeta struct {
	Icon   string   `json:"icon"`
	Color  string   `json:"color"`
	Badges []string `json:"badges,omitempty"`
}

type variantCaps struct {
	icon         string
	color        string
	badges       func(t *Task) []string
	statusHook   func(t *Task, old, next TaskStatus) error
	needsDueDate bool
}

// variantTable is the capability table for the closed variant set. Variant
// behavior dispatches through here instead of a type hierarchy.
var variantTable = map[TaskVariant]variantCaps{
	VariantGeneric: {icon: "📋", color: "#64748b"},
	VariantWork: {
		icon:  "💼",
		color: "#2563eb",
		badges: func(t *Task) []string {
			if t.Work == nil {
				return nil
			}
			if t.Work.RequiresApproval && t.Work.ApprovedBy == "" {
				return []string{"awaiting-approval"}
			}
			if t.Work.BillableHours > 0 {
				return []string{"billable"}
			}
			return nil
		},
		statusHook: workStatusHook,
	},
	VariantPersonal: {
		icon:  "🏠",
		color: "#16a34a",
		badges: func(t *Task) []string {
			if t.Personal != nil && t.Personal.EnergyLevel == EnergyLevelHigh {
				return []string{"high-energy"}
			}
			return nil
		},
	},
	VariantProject: {
		icon:  "📦",
		color: "#9333ea",
		badges: func(t *Task) []string {
			if t.Project == nil {
				return nil
			}
			var badges []string
			if t.Project.IsBlocked {
				badges = append(badges, "blocked")
			}
			if t.Project.Phase != "" {
				badges = append(badges, t.Project.Phase)
			}
			return badges
		},
		statusHook: projectStatusHook,
	},
	VariantReminder: {icon: "⏰", color: "#f59e0b", needsDueDate: true},
	VariantMeeting:  {icon: "🗓️", color: "#0891b2", needsDueDate: true},
	VariantGoal:     {icon: "🎯", color: "#dc2626"},
}

// workStatusHook refuses completion while approval is outstanding. This is a
// hard error, not a silent no-op, so callers can surface it.
func workStatusHook(t *Task, _, next TaskStatus) error {
	if next == TaskStatusCompleted && t.Work != nil && t.Work.RequiresApproval && t.Work.ApprovedBy == "" {
		return ErrApprovalRequired
	}
	return nil
}

func projectStatusHook(t *Task, _, next TaskStatus) error {
	// A finished or abandoned project is by definition no longer blocked.
	if next == TaskStatusCompleted || next == TaskStatusCancelled {
		if t.Project != nil {
			t.Project.IsBlocked = false
		}
	}
	return nil
}

// NeedsDefaultDueDate reports whether the variant conventionally carries a
// due date even when the caller did not supply one.
func (v TaskVariant) NeedsDefaultDueDate() bool {
	return variantTable[v].needsDueDate
}
