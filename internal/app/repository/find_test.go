package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskforge/internal/core/domain"
)

func seedFindFixture(t *testing.T) *fixture {
	t.Helper()
	fx := newFixture(t)

	overdue := fx.clock.Add(-48 * time.Hour)
	today := fx.clock.Add(2 * time.Hour)

	fx.create(t, domain.VariantWork, domain.CreateTaskInput{
		Title:    "Quarterly report",
		Priority: domain.TaskPriorityHigh,
		Status:   domain.TaskStatusInProgress,
		Tags:     []string{"urgent"},
		DueDate:  &overdue,
	})
	fx.clock = fx.clock.Add(time.Minute)
	fx.create(t, domain.VariantPersonal, domain.CreateTaskInput{
		Title:   "Dentist appointment",
		Status:  domain.TaskStatusPending,
		DueDate: &today,
	})
	fx.clock = fx.clock.Add(time.Minute)
	fx.create(t, domain.VariantProject, domain.CreateTaskInput{
		Title:       "Release hardening",
		Description: "stabilize before the release cut",
		Priority:    domain.TaskPriorityHigh,
		Status:      domain.TaskStatusCompleted,
		Progress:    100,
	})
	return fx
}

func titles(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func TestFind_EmptyCriteriaReturnsAll(t *testing.T) {
	fx := seedFindFixture(t)
	found := fx.repo.Find(context.Background(), domain.FindCriteria{})
	assert.Len(t, found, 3)
}

func TestFind_ByVariantAndStatus(t *testing.T) {
	fx := seedFindFixture(t)

	variant := domain.VariantWork
	found := fx.repo.Find(context.Background(), domain.FindCriteria{Variant: &variant})
	require.Len(t, found, 1)
	assert.Equal(t, "Quarterly report", found[0].Title)

	status := domain.TaskStatusCompleted
	found = fx.repo.Find(context.Background(), domain.FindCriteria{Status: &status})
	require.Len(t, found, 1)
	assert.Equal(t, "Release hardening", found[0].Title)
}

func TestFind_CombinedCriteriaNarrow(t *testing.T) {
	fx := seedFindFixture(t)

	priority := domain.TaskPriorityHigh
	found := fx.repo.Find(context.Background(), domain.FindCriteria{Priority: &priority})
	assert.Len(t, found, 2)

	found = fx.repo.Find(context.Background(), domain.FindCriteria{
		Priority: &priority,
		Tags:     []string{"Urgent"},
	})
	require.Len(t, found, 1)
	assert.Equal(t, "Quarterly report", found[0].Title)
}

func TestFind_Overdue(t *testing.T) {
	fx := seedFindFixture(t)

	overdue := true
	found := fx.repo.Find(context.Background(), domain.FindCriteria{Overdue: &overdue})
	require.Len(t, found, 1)
	assert.Equal(t, "Quarterly report", found[0].Title)

	overdue = false
	found = fx.repo.Find(context.Background(), domain.FindCriteria{Overdue: &overdue})
	assert.Len(t, found, 2)
}

func TestFind_DueDateMatchesCalendarDay(t *testing.T) {
	fx := seedFindFixture(t)

	day := fx.clock.Truncate(time.Hour)
	found := fx.repo.Find(context.Background(), domain.FindCriteria{DueDate: &day})
	require.Len(t, found, 1)
	assert.Equal(t, "Dentist appointment", found[0].Title)
}

func TestFind_SearchSpansTitleDescriptionTags(t *testing.T) {
	fx := seedFindFixture(t)

	found := fx.repo.Find(context.Background(), domain.FindCriteria{Search: "RELEASE"})
	require.Len(t, found, 1)
	assert.Equal(t, "Release hardening", found[0].Title)

	found = fx.repo.Find(context.Background(), domain.FindCriteria{Search: "urgent"})
	require.Len(t, found, 1)
	assert.Equal(t, "Quarterly report", found[0].Title)

	found = fx.repo.Find(context.Background(), domain.FindCriteria{Search: "nothing matches this"})
	assert.Empty(t, found)
}

func TestFind_CreatedWindowIsInclusive(t *testing.T) {
	fx := seedFindFixture(t)
	all := fx.repo.GetAll(context.Background())
	require.Len(t, all, 3)

	second := all[1].CreatedAt
	found := fx.repo.Find(context.Background(), domain.FindCriteria{CreatedAfter: &second})
	assert.Len(t, found, 2)

	found = fx.repo.Find(context.Background(), domain.FindCriteria{CreatedBefore: &second})
	assert.Len(t, found, 2)
}

func TestFind_TagFilterRequiresAll(t *testing.T) {
	fx := seedFindFixture(t)

	found := fx.repo.Find(context.Background(), domain.FindCriteria{Tags: []string{"urgent", "work"}})
	require.Len(t, found, 1)
	assert.Equal(t, "Quarterly report", found[0].Title)

	found = fx.repo.Find(context.Background(), domain.FindCriteria{Tags: []string{"urgent", "personal"}})
	assert.Empty(t, found)
}

func TestFind_ResultsAreDetachedCopies(t *testing.T) {
	fx := seedFindFixture(t)

	found := fx.repo.Find(context.Background(), domain.FindCriteria{})
	require.NotEmpty(t, found)
	id := found[0].ID
	found[0].Title = "mutated"

	got, err := fx.repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", got.Title)
}
