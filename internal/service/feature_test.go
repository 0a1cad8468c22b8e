package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

func TestFeatureServiceCreate(t *testing.T) {
	e := newEnv()
	owner := e.addUser("owner")
	project := e.addProject(owner.ID, "Launch")
	foreign := e.addProject(owner.ID, "Side project")

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(7 * 24 * time.Hour)
	sprint, err := e.sprintSvc.Create(context.Background(), project.ID, owner.ID, SprintInput{
		Name: "Sprint 1", StartDate: &start, EndDate: &end,
	})
	require.NoError(t, err)
	foreignSprint, err := e.sprintSvc.Create(context.Background(), foreign.ID, owner.ID, SprintInput{Name: "Elsewhere"})
	require.NoError(t, err)

	t.Run("status defaults to not started", func(t *testing.T) {
		f, err := e.featureSvc.Create(context.Background(), project.ID, owner.ID, CreateFeatureInput{
			Name:     "Search",
			Priority: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.FeatureNotStarted, f.Status)
		assert.Nil(t, f.SprintID)
	})

	t.Run("explicit status is honored", func(t *testing.T) {
		f, err := e.featureSvc.Create(context.Background(), project.ID, owner.ID, CreateFeatureInput{
			Name:   "Billing",
			Status: "In Progress",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.FeatureInProgress, f.Status)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		_, err := e.featureSvc.Create(context.Background(), project.ID, owner.ID, CreateFeatureInput{
			Name:   "Broken",
			Status: "Overdue",
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "status", verr.Field)
	})

	t.Run("attaches to a sprint of the same project", func(t *testing.T) {
		f, err := e.featureSvc.Create(context.Background(), project.ID, owner.ID, CreateFeatureInput{
			Name:     "Onboarding",
			SprintID: &sprint.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, f.SprintID)
		assert.Equal(t, sprint.ID, *f.SprintID)
	})

	t.Run("rejects a sprint from another project", func(t *testing.T) {
		_, err := e.featureSvc.Create(context.Background(), project.ID, owner.ID, CreateFeatureInput{
			Name:     "Misfiled",
			SprintID: &foreignSprint.ID,
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "sprint_id", verr.Field)
	})
}

func TestFeatureServiceUpdate(t *testing.T) {
	e := newEnv()
	owner := e.addUser("owner")
	project := e.addProject(owner.ID, "Launch")
	feature, err := e.featureSvc.Create(context.Background(), project.ID, owner.ID, CreateFeatureInput{
		Name:     "Search",
		Priority: 1,
	})
	require.NoError(t, err)

	t.Run("nil fields keep current values", func(t *testing.T) {
		status := "Completed"
		f, err := e.featureSvc.Update(context.Background(), project.ID, feature.ID, owner.ID, UpdateFeatureInput{
			Status: &status,
		})
		require.NoError(t, err)
		assert.Equal(t, "Search", f.Name)
		assert.Equal(t, domain.FeatureCompleted, f.Status)
		assert.Equal(t, 1, f.Priority)
	})

	t.Run("invalid status rejects the whole update", func(t *testing.T) {
		name := "Renamed"
		status := "Someday"
		_, err := e.featureSvc.Update(context.Background(), project.ID, feature.ID, owner.ID, UpdateFeatureInput{
			Name:   &name,
			Status: &status,
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)

		stored, err := e.features.FindByID(context.Background(), feature.ID)
		require.NoError(t, err)
		assert.Equal(t, "Search", stored.Name)
	})
}

func TestFeatureServiceAssignToSprint(t *testing.T) {
	e := newEnv()
	owner := e.addUser("owner")
	project := e.addProject(owner.ID, "Launch")
	foreign := e.addProject(owner.ID, "Side project")

	sprint, err := e.sprintSvc.Create(context.Background(), project.ID, owner.ID, SprintInput{Name: "Sprint 1"})
	require.NoError(t, err)
	foreignSprint, err := e.sprintSvc.Create(context.Background(), foreign.ID, owner.ID, SprintInput{Name: "Elsewhere"})
	require.NoError(t, err)

	feature, err := e.featureSvc.Create(context.Background(), project.ID, owner.ID, CreateFeatureInput{Name: "Search"})
	require.NoError(t, err)

	t.Run("assigns within the project", func(t *testing.T) {
		f, err := e.featureSvc.AssignToSprint(context.Background(), project.ID, feature.ID, sprint.ID, owner.ID)
		require.NoError(t, err)
		require.NotNil(t, f.SprintID)
		assert.Equal(t, sprint.ID, *f.SprintID)
	})

	t.Run("clearing returns the feature to the backlog", func(t *testing.T) {
		f, err := e.featureSvc.Update(context.Background(), project.ID, feature.ID, owner.ID, UpdateFeatureInput{
			ClearSprint: true,
		})
		require.NoError(t, err)
		assert.Nil(t, f.SprintID)

		f, err = e.featureSvc.AssignToSprint(context.Background(), project.ID, feature.ID, sprint.ID, owner.ID)
		require.NoError(t, err)
		require.NotNil(t, f.SprintID)
	})

	t.Run("foreign sprint rejected, assignment unchanged", func(t *testing.T) {
		_, err := e.featureSvc.AssignToSprint(context.Background(), project.ID, feature.ID, foreignSprint.ID, owner.ID)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)

		stored, err := e.features.FindByID(context.Background(), feature.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.SprintID)
		assert.Equal(t, sprint.ID, *stored.SprintID)
	})
}

func TestFeatureServiceAccess(t *testing.T) {
	e := newEnv()
	owner := e.addUser("owner")
	member := e.addUser("member")
	outsider := e.addUser("outsider")
	project := e.addProject(owner.ID, "Launch")
	require.NoError(t, e.projects.AddMember(context.Background(), project.ID, member.ID))

	feature, err := e.featureSvc.Create(context.Background(), project.ID, owner.ID, CreateFeatureInput{Name: "Search"})
	require.NoError(t, err)

	t.Run("member reads and deletes", func(t *testing.T) {
		_, err := e.featureSvc.Get(context.Background(), project.ID, feature.ID, member.ID)
		require.NoError(t, err)

		features, err := e.featureSvc.List(context.Background(), project.ID, member.ID)
		require.NoError(t, err)
		assert.Len(t, features, 1)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		_, err := e.featureSvc.Get(context.Background(), project.ID, feature.ID, outsider.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = e.featureSvc.List(context.Background(), project.ID, outsider.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		err = e.featureSvc.Delete(context.Background(), project.ID, feature.ID, outsider.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
