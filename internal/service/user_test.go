package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

func TestUserServiceList(t *testing.T) {
	e := newEnv()
	e.addUser("ada")
	e.addUser("grace")

	users, err := e.userSvc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "ada", users[0].Username)
	assert.Equal(t, "grace", users[1].Username)
}

func TestUserServiceGet(t *testing.T) {
	e := newEnv()
	ada := e.addUser("ada")

	t.Run("found", func(t *testing.T) {
		u, err := e.userSvc.Get(context.Background(), ada.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada", u.Username)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := e.userSvc.Get(context.Background(), 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserServiceListForProject(t *testing.T) {
	e := newEnv()
	owner := e.addUser("owner")
	member := e.addUser("member")
	outsider := e.addUser("outsider")
	project := e.addProject(owner.ID, "Launch")
	require.NoError(t, e.projects.AddMember(context.Background(), project.ID, member.ID))

	t.Run("outsider is forbidden", func(t *testing.T) {
		_, err := e.userSvc.ListForProject(context.Background(), project.ID, outsider.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("returns owner and members, nobody else", func(t *testing.T) {
		users, err := e.userSvc.ListForProject(context.Background(), project.ID, member.ID)
		require.NoError(t, err)
		require.Len(t, users, 2)

		names := []string{users[0].Username, users[1].Username}
		assert.Contains(t, names, "owner")
		assert.Contains(t, names, "member")
		assert.NotContains(t, names, "outsider")
	})
}
