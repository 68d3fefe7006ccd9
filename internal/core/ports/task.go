package ports

import (
	"context"

	"taskforge/internal/core/domain"
)

// Store is the persistence provider contract. Providers hold a mirrored,
// eventually-consistent serialized copy of the collection; the repository's
// in-memory map stays the source of truth.
type Store interface {
	LoadAll(ctx context.Context) ([]domain.Record, error)
	SaveAll(ctx context.Context, records []domain.Record) error
}

// TaskRepository owns the canonical in-memory collection.
type TaskRepository interface {
	// Load rebuilds the collection from the store, skipping records that
	// fail reconstruction.
	Load(ctx context.Context) error

	Create(ctx context.Context, variant domain.TaskVariant, input domain.CreateTaskInput) (*domain.Task, error)
	CreateAuto(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error)
	// Insert stores an already-built task (duplicates, imports).
	Insert(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
	Clear(ctx context.Context) (int, error)

	Get(ctx context.Context, id string) (*domain.Task, error)
	GetAll(ctx context.Context) []*domain.Task
	Find(ctx context.Context, criteria domain.FindCriteria) []*domain.Task
	Count(ctx context.Context) int
	Stats(ctx context.Context) domain.TaskStats

	// Subscribe registers a synchronous change listener and returns its
	// unsubscribe function.
	Subscribe(fn func(domain.Event)) func()
}

// TaskService is the business rule engine in front of the repository.
type TaskService interface {
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	DeleteTasks(ctx context.Context, ids []string) (int, error)
	CompleteTask(ctx context.Context, id string) (domain.CompleteResult, error)
	DuplicateTask(ctx context.Context, id string) (*domain.Task, error)

	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, criteria domain.FindCriteria, sortKey string) ([]*domain.Task, error)
	Stats(ctx context.Context) (domain.TaskStats, error)

	ImportTasks(ctx context.Context, records []domain.Record) (domain.ImportResult, error)
	ExportTasks(ctx context.Context) ([]domain.Record, error)
}
