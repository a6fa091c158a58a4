package repo_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planoraa/planoraa-api/internal/domain"
)

func TestUserRepo_Create(t *testing.T) {
	r := newTestRepos(t)

	got := mustCreateUser(t, r.users)

	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, "hash", got.PasswordHash)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	u := mustCreateUser(t, r.users)

	_, err := r.users.Create(ctx, domain.User{Email: u.Email, PasswordHash: "x", FirstName: "B", LastName: "C"})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepo_GetByEmail_CaseInsensitive(t *testing.T) {
	r := newTestRepos(t)
	u := mustCreateUser(t, r.users)

	got, err := r.users.GetByEmail(context.Background(), strings.ToUpper(u.Email))

	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.users.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_Update(t *testing.T) {
	r := newTestRepos(t)
	u := mustCreateUser(t, r.users)
	u.FirstName = "Beatriz"
	u.Bio = "Loves trains"

	got, err := r.users.Update(context.Background(), u)

	require.NoError(t, err)
	assert.Equal(t, "Beatriz", got.FirstName)
	assert.Equal(t, "Loves trains", got.Bio)
	assert.Equal(t, u.Email, got.Email)
}

func TestUserRepo_ListByIDs(t *testing.T) {
	r := newTestRepos(t)
	a := mustCreateUser(t, r.users)
	b := mustCreateUser(t, r.users)

	got, err := r.users.ListByIDs(context.Background(), []uuid.UUID{a.ID, b.ID, uuid.New()})

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUserRepo_ListByIDs_Empty(t *testing.T) {
	r := newTestRepos(t)

	got, err := r.users.ListByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
