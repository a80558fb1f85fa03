package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb-api/internal/model"
	"yamdb-api/internal/repository"
	"yamdb-api/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func newUserService(t *testing.T) (*UserService, *repository.UserRepository) {
	t.Helper()
	repo := repository.NewUserRepository(newTestDB(t))
	return NewUserService(repo, validation.New()), repo
}

func TestUserServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	user, err := svc.Create(ctx, CreateUserInput{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)

	mod, err := svc.Create(ctx, CreateUserInput{Username: "mod", Email: "mod@example.com", Role: "moderator"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, mod.Role)

	_, err = svc.Create(ctx, CreateUserInput{Username: "x", Email: "x@example.com", Role: "owner"})
	requireFieldError(t, err, "role")

	_, err = svc.Create(ctx, CreateUserInput{Username: "me", Email: "me@example.com"})
	requireFieldError(t, err, "username")

	_, err = svc.Create(ctx, CreateUserInput{Username: "bob2", Email: "bob@example.com"})
	requireFieldError(t, err, "email")
}

func TestUserServiceUpdateSelfKeepsRole(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserService(t)

	caller, err := svc.Create(ctx, CreateUserInput{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	updated, err := svc.UpdateSelf(ctx, caller, UpdateUserInput{
		FirstName: ptr("Bob"),
		Bio:       ptr("reviewer"),
		Role:      ptr("admin"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, updated.Role)
	assert.Equal(t, "Bob", updated.FirstName)

	stored, err := repo.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, stored.Role)
	require.NotNil(t, stored.Bio)
	assert.Equal(t, "reviewer", *stored.Bio)
}

func TestUserServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	_, err := svc.Create(ctx, CreateUserInput{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateUserInput{Username: "eve", Email: "eve@example.com"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "bob", UpdateUserInput{Role: ptr("moderator")})
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, updated.Role)

	// Same values as before are not collisions with itself.
	_, err = svc.Update(ctx, "bob", UpdateUserInput{Username: ptr("bob"), Email: ptr("bob@example.com")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "bob", UpdateUserInput{Username: ptr("eve")})
	requireFieldError(t, err, "username")

	_, err = svc.Update(ctx, "bob", UpdateUserInput{Username: ptr("")})
	requireFieldError(t, err, "username")

	_, err = svc.Update(ctx, "ghost", UpdateUserInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserServiceListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := svc.Create(ctx, CreateUserInput{Username: name, Email: name + "@example.com"})
		require.NoError(t, err)
	}

	users, total, err := svc.List(ctx, "", repository.Page{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)

	users, total, err = svc.List(ctx, " car ", repository.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)

	require.NoError(t, svc.Delete(ctx, "bob"))
	assert.ErrorIs(t, svc.Delete(ctx, "bob"), ErrNotFound)
	_, err = svc.Get(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserServicePromote(t *testing.T) {
	ctx := context.Background()
	svc, repo := newUserService(t)

	user, err := svc.Create(ctx, CreateUserInput{Username: "root", Email: "root@example.com"})
	require.NoError(t, err)
	require.NoError(t, svc.Promote(ctx, user))

	stored, err := repo.GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.True(t, stored.IsSuperuser)
	assert.Equal(t, model.RoleAdmin, stored.Role)
}
