package factory

import (
	"sync"

	"taskforge/internal/core/domain"
)

// VariantSpec describes how the factory builds and checks one task variant.
type VariantSpec struct {
	// Defaults fills variant defaults on fields the caller left at their
	// zero value. Caller-supplied data always wins.
	Defaults func(t *domain.Task)
	// Validate runs after the generic validation engine. Optional.
	Validate func(t *domain.Task) []domain.FieldError
	// ExtraTags are attached after creation in addition to the variant name.
	ExtraTags []string
}

// Registry is the mutable variant table. It is built once at the composition
// root and passed to the factory explicitly; there is no package-level state.
type Registry struct {
	mu       sync.RWMutex
	variants map[domain.TaskVariant]VariantSpec
}

// NewRegistry returns a registry seeded with the builtin variants.
func NewRegistry() *Registry {
	r := &Registry{variants: make(map[domain.TaskVariant]VariantSpec)}
	r.Register(domain.VariantGeneric, VariantSpec{})
	r.Register(domain.VariantWork, VariantSpec{
		Defaults: func(t *domain.Task) {
			if t.Work == nil {
				t.Work = &domain.WorkFields{}
			}
		},
		ExtraTags: []string{"professional"},
	})
	r.Register(domain.VariantPersonal, VariantSpec{
		Defaults: func(t *domain.Task) {
			if t.Personal == nil {
				t.Personal = &domain.PersonalFields{}
			}
			if t.Personal.MotivationLevel == 0 {
				t.Personal.MotivationLevel = 5
			}
			if t.Personal.EnergyLevel == "" {
				t.Personal.EnergyLevel = domain.EnergyLevelMedium
			}
		},
		ExtraTags: []string{"self-care"},
	})
	r.Register(domain.VariantProject, VariantSpec{
		Defaults: func(t *domain.Task) {
			if t.Project == nil {
				t.Project = &domain.ProjectFields{}
			}
			if t.Project.Phase == "" {
				t.Project.Phase = "planning"
			}
			if t.Project.StoryPoints == 0 {
				t.Project.StoryPoints = 1
			}
		},
	})
	r.Register(domain.VariantReminder, VariantSpec{})
	r.Register(domain.VariantMeeting, VariantSpec{})
	r.Register(domain.VariantGoal, VariantSpec{})
	return r
}

func (r *Registry) Register(name domain.TaskVariant, spec VariantSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[name] = spec
}

func (r *Registry) Unregister(name domain.TaskVariant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.variants, name)
}

func (r *Registry) Lookup(name domain.TaskVariant) (VariantSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.variants[name]
	return spec, ok
}

func (r *Registry) Registered(name domain.TaskVariant) bool {
	_, ok := r.Lookup(name)
	return ok
}
