package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskforge/internal/app/repository"
	"taskforge/internal/core/domain"
	"taskforge/internal/core/factory"
	"taskforge/internal/core/ports"
	"taskforge/internal/core/validation"
)

type memStore struct {
	records []domain.Record
}

func (m *memStore) LoadAll(_ context.Context) ([]domain.Record, error) {
	return m.records, nil
}

func (m *memStore) SaveAll(_ context.Context, records []domain.Record) error {
	m.records = records
	return nil
}

var _ ports.Store = (*memStore)(nil)

type fixture struct {
	service *TaskService
	repo    *repository.TaskRepository
	factory *factory.Factory
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	validator := validation.NewEngine()
	f := factory.New(factory.NewRegistry(), validator)
	repo := repository.NewTaskRepository(f, validator, &memStore{})
	return &fixture{
		service: NewTaskService(repo, f, cfg),
		repo:    repo,
		factory: f,
	}
}

func (fx *fixture) create(t *testing.T, input domain.CreateTaskInput) *domain.Task {
	t.Helper()
	task, err := fx.service.CreateTask(context.Background(), input)
	require.NoError(t, err)
	return task
}

func (fx *fixture) project(t *testing.T, title string, deps ...string) *domain.Task {
	t.Helper()
	return fx.create(t, domain.CreateTaskInput{
		Title:   title,
		Variant: domain.VariantProject,
		Project: &domain.ProjectFields{Dependencies: deps},
	})
}

func TestCreateTask_AutoDetectsVariant(t *testing.T) {
	fx := newFixture(t, Config{})

	task := fx.create(t, domain.CreateTaskInput{Title: "Client invoice follow-up"})
	assert.Equal(t, domain.VariantWork, task.Variant)
}

func TestCreateTask_CollectionCeiling(t *testing.T) {
	fx := newFixture(t, Config{MaxTasks: 2})

	fx.create(t, domain.CreateTaskInput{Title: "One", Variant: domain.VariantGeneric})
	fx.create(t, domain.CreateTaskInput{Title: "Two", Variant: domain.VariantGeneric})

	_, err := fx.service.CreateTask(context.Background(), domain.CreateTaskInput{
		Title: "Three", Variant: domain.VariantGeneric,
	})
	require.ErrorIs(t, err, domain.ErrLimitExceeded)
}

func TestUpdateTask_AllowedTransition(t *testing.T) {
	fx := newFixture(t, Config{})
	task := fx.create(t, domain.CreateTaskInput{Title: "One", Variant: domain.VariantGeneric})

	status := domain.TaskStatusInProgress
	updated, err := fx.service.UpdateTask(context.Background(), task.ID, domain.TaskPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
}

func TestUpdateTask_ForbiddenTransition(t *testing.T) {
	fx := newFixture(t, Config{})
	task := fx.create(t, domain.CreateTaskInput{Title: "One", Variant: domain.VariantGeneric})

	status := domain.TaskStatusCompleted
	_, err := fx.service.UpdateTask(context.Background(), task.ID, domain.TaskPatch{Status: &status})

	var terr *domain.InvalidStatusTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, domain.TaskStatusPending, terr.From)
	assert.Equal(t, domain.TaskStatusCompleted, terr.To)
}

func TestUpdateTask_ProgressAutoCompletes(t *testing.T) {
	fx := newFixture(t, Config{})
	task := fx.create(t, domain.CreateTaskInput{Title: "One", Variant: domain.VariantGeneric})

	progress := 100
	updated, err := fx.service.UpdateTask(context.Background(), task.ID, domain.TaskPatch{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestUpdateTask_ProgressOnCancelledStaysPut(t *testing.T) {
	fx := newFixture(t, Config{})
	task := fx.create(t, domain.CreateTaskInput{
		Title: "One", Variant: domain.VariantGeneric, Status: domain.TaskStatusCancelled,
	})

	progress := 100
	updated, err := fx.service.UpdateTask(context.Background(), task.ID, domain.TaskPatch{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCancelled, updated.Status)
}

func TestUpdateTask_VariantIsImmutable(t *testing.T) {
	fx := newFixture(t, Config{})
	task := fx.create(t, domain.CreateTaskInput{Title: "One", Variant: domain.VariantGeneric})

	variant := domain.VariantWork
	_, err := fx.service.UpdateTask(context.Background(), task.ID, domain.TaskPatch{Variant: &variant})
	require.ErrorIs(t, err, domain.ErrModificationNotAllowed)
}

func TestUpdateTask_CompletedTasksAreFrozen(t *testing.T) {
	fx := newFixture(t, Config{})
	task := fx.create(t, domain.CreateTaskInput{
		Title: "One", Variant: domain.VariantGeneric, Status: domain.TaskStatusCompleted, Progress: 100,
	})

	created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := fx.service.UpdateTask(context.Background(), task.ID, domain.TaskPatch{CreatedAt: &created})
	require.ErrorIs(t, err, domain.ErrModificationNotAllowed)

	// Non-frozen fields stay editable.
	title := "Renamed"
	updated, err := fx.service.UpdateTask(context.Background(), task.ID, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestUpdateTask_RejectsDependencyCycle(t *testing.T) {
	fx := newFixture(t, Config{})
	a := fx.project(t, "A")
	b := fx.project(t, "B", a.ID)

	_, err := fx.service.UpdateTask(context.Background(), a.ID, domain.TaskPatch{
		Dependencies:    []string{b.ID},
		DependenciesSet: true,
	})

	var cerr *domain.CircularDependencyError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Path, a.ID)
	assert.Contains(t, cerr.Path, b.ID)
}

func TestUpdateTask_RejectsSelfDependency(t *testing.T) {
	fx := newFixture(t, Config{})
	a := fx.project(t, "A")

	_, err := fx.service.UpdateTask(context.Background(), a.ID, domain.TaskPatch{
		Dependencies:    []string{a.ID},
		DependenciesSet: true,
	})
	var cerr *domain.CircularDependencyError
	require.ErrorAs(t, err, &cerr)
}

func TestUpdateTask_LongerCycleDetectedAfterCleanChains(t *testing.T) {
	fx := newFixture(t, Config{})
	a := fx.project(t, "A")
	b := fx.project(t, "B", a.ID)
	c := fx.project(t, "C", b.ID)
	fx.project(t, "D") // independent chain root, visited first is fine

	_, err := fx.service.UpdateTask(context.Background(), a.ID, domain.TaskPatch{
		Dependencies:    []string{c.ID},
		DependenciesSet: true,
	})
	var cerr *domain.CircularDependencyError
	require.ErrorAs(t, err, &cerr)
}

func TestUpdateTask_AcyclicDependencyEditPasses(t *testing.T) {
	fx := newFixture(t, Config{})
	a := fx.project(t, "A")
	b := fx.project(t, "B")

	updated, err := fx.service.UpdateTask(context.Background(), b.ID, domain.TaskPatch{
		Dependencies:    []string{a.ID},
		DependenciesSet: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, updated.Project.Dependencies)
}

func TestCompleteTask_ApprovalGate(t *testing.T) {
	fx := newFixture(t, Config{})
	task := fx.create(t, domain.CreateTaskInput{
		Title:   "Audit",
		Variant: domain.VariantWork,
		Work:    &domain.WorkFields{RequiresApproval: true},
	})

	_, err := fx.service.CompleteTask(context.Background(), task.ID)
	require.ErrorIs(t, err, domain.ErrApprovalRequired)

	approver := "alice"
	_, err = fx.service.UpdateTask(context.Background(), task.ID, domain.TaskPatch{
		ApprovedBy: &approver, ApprovedBySet: true,
	})
	require.NoError(t, err)

	result, err := fx.service.CompleteTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, result.Task.Status)
	assert.Equal(t, 100, result.Task.Progress)
}

func TestCompleteTask_IncompleteDependencies(t *testing.T) {
	fx := newFixture(t, Config{})
	dep := fx.project(t, "Dep")
	main := fx.project(t, "Main", dep.ID)

	_, err := fx.service.CompleteTask(context.Background(), main.ID)
	var derr *domain.DependenciesIncompleteError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, []string{dep.ID}, derr.Incomplete)
}

func TestCompleteTask_ReportsUnblockedDependents(t *testing.T) {
	fx := newFixture(t, Config{})
	dep := fx.project(t, "Dep")
	main := fx.project(t, "Main", dep.ID)

	result, err := fx.service.CompleteTask(context.Background(), dep.ID)
	require.NoError(t, err)
	require.Len(t, result.Unblocked, 1)
	assert.Equal(t, main.ID, result.Unblocked[0].ID)
}

func TestCompleteTask_AlreadyCompletedIsNoOp(t *testing.T) {
	fx := newFixture(t, Config{})
	task := fx.create(t, domain.CreateTaskInput{
		Title: "Done", Variant: domain.VariantGeneric, Status: domain.TaskStatusCompleted, Progress: 100,
	})

	result, err := fx.service.CompleteTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, result.Task.ID)
	assert.Empty(t, result.Unblocked)
}

func TestCompleteTask_DanglingDependencyCountsAsIncomplete(t *testing.T) {
	fx := newFixture(t, Config{})
	main := fx.project(t, "Main", "ghost")

	_, err := fx.service.CompleteTask(context.Background(), main.ID)
	var derr *domain.DependenciesIncompleteError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, []string{"ghost"}, derr.Incomplete)
}

func TestDeleteTask_BlockedByActiveDependents(t *testing.T) {
	fx := newFixture(t, Config{})
	dep := fx.project(t, "Dep")
	main := fx.project(t, "Main", dep.ID)

	err := fx.service.DeleteTask(context.Background(), dep.ID)
	var herr *domain.HasDependenciesError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, []string{main.ID}, herr.Blockers)
}

func TestDeleteTask_InactiveDependentsDoNotBlock(t *testing.T) {
	fx := newFixture(t, Config{})
	dep := fx.project(t, "Dep")
	main := fx.project(t, "Main", dep.ID)

	status := domain.TaskStatusCancelled
	_, err := fx.service.UpdateTask(context.Background(), main.ID, domain.TaskPatch{Status: &status})
	require.NoError(t, err)

	require.NoError(t, fx.service.DeleteTask(context.Background(), dep.ID))

	got, err := fx.service.GetTask(context.Background(), main.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Project.Dependencies)
}

func TestDeleteTask_NotFound(t *testing.T) {
	fx := newFixture(t, Config{})
	err := fx.service.DeleteTask(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTasks_InBatchDependenciesDoNotBlock(t *testing.T) {
	fx := newFixture(t, Config{})
	dep := fx.project(t, "Dep")
	main := fx.project(t, "Main", dep.ID)

	count, err := fx.service.DeleteTasks(context.Background(), []string{dep.ID, main.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeleteTasks_ExternalBlockerAbortsBatch(t *testing.T) {
	fx := newFixture(t, Config{})
	dep := fx.project(t, "Dep")
	fx.project(t, "Main", dep.ID)
	other := fx.project(t, "Other")

	count, err := fx.service.DeleteTasks(context.Background(), []string{dep.ID, other.ID})
	var herr *domain.HasDependenciesError
	require.ErrorAs(t, err, &herr)
	assert.Zero(t, count)
	assert.Equal(t, 3, fx.repo.Count(context.Background()))
}

func TestDeleteTasks_MissingIDsAreSkipped(t *testing.T) {
	fx := newFixture(t, Config{})
	a := fx.create(t, domain.CreateTaskInput{Title: "A", Variant: domain.VariantGeneric})

	count, err := fx.service.DeleteTasks(context.Background(), []string{a.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDuplicateTask(t *testing.T) {
	fx := newFixture(t, Config{})
	task := fx.create(t, domain.CreateTaskInput{
		Title: "Original", Variant: domain.VariantGeneric, Status: domain.TaskStatusInProgress, Progress: 70,
	})

	dup, err := fx.service.DuplicateTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.NotEqual(t, task.ID, dup.ID)
	assert.Equal(t, "Original (Copy)", dup.Title)
	assert.Equal(t, domain.TaskStatusPending, dup.Status)
	assert.Equal(t, 0, dup.Progress)
	assert.Equal(t, 2, fx.repo.Count(context.Background()))
}

func TestDuplicateTask_CeilingApplies(t *testing.T) {
	fx := newFixture(t, Config{MaxTasks: 1})
	task := fx.create(t, domain.CreateTaskInput{Title: "Original", Variant: domain.VariantGeneric})

	_, err := fx.service.DuplicateTask(context.Background(), task.ID)
	require.ErrorIs(t, err, domain.ErrLimitExceeded)
}

func TestListTasks_FilterAndSort(t *testing.T) {
	fx := newFixture(t, Config{})
	fx.create(t, domain.CreateTaskInput{
		Title: "Low", Variant: domain.VariantGeneric, Priority: domain.TaskPriorityLow, Tags: []string{"urgent"},
	})
	fx.create(t, domain.CreateTaskInput{
		Title: "Beta", Variant: domain.VariantGeneric, Priority: domain.TaskPriorityHigh, Tags: []string{"urgent"},
	})
	fx.create(t, domain.CreateTaskInput{
		Title: "Alpha", Variant: domain.VariantGeneric, Priority: domain.TaskPriorityHigh, Tags: []string{"urgent"},
	})
	fx.create(t, domain.CreateTaskInput{
		Title: "Untagged", Variant: domain.VariantGeneric, Priority: domain.TaskPriorityHigh,
	})

	priority := domain.TaskPriorityHigh
	tasks, err := fx.service.ListTasks(context.Background(), domain.FindCriteria{
		Priority: &priority,
		Tags:     []string{"urgent"},
	}, "title-asc")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Alpha", tasks[0].Title)
	assert.Equal(t, "Beta", tasks[1].Title)
}

func TestImportExport(t *testing.T) {
	fx := newFixture(t, Config{})
	fx.create(t, domain.CreateTaskInput{Title: "Keep", Variant: domain.VariantWork})

	records, err := fx.service.ExportTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	records = append(records, domain.Record{ID: "broken", Variant: "nope", Title: "bad"})
	result, err := fx.service.ImportTasks(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken")

	// Imported tasks get fresh ids; the export survives alongside the source.
	assert.Equal(t, 2, fx.repo.Count(context.Background()))
}

func TestImportTasks_CeilingCollectsErrors(t *testing.T) {
	fx := newFixture(t, Config{MaxTasks: 1})
	existing := fx.create(t, domain.CreateTaskInput{Title: "Keep", Variant: domain.VariantGeneric})

	rec := existing.ToRecord()
	result, err := fx.service.ImportTasks(context.Background(), []domain.Record{rec})
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "ceiling")
}
