package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/repo"
	"github.com/planoraa/planoraa-api/testutil"
)

// repos bundles every repo bound to the same transaction so tests can create
// parents and children together.
type repos struct {
	users      repo.UserRepo
	trips      repo.TripRepo
	activities repo.ActivityRepo
	expenses   repo.ExpenseRepo
	polls      repo.PollRepo
}

// newTestRepos opens a transaction against the test database and returns repos
// backed by it. The transaction is rolled back when the test finishes.
func newTestRepos(t *testing.T) repos {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repos{
		users:      repo.NewUserRepo(tx),
		trips:      repo.NewTripRepo(tx),
		activities: repo.NewActivityRepo(tx),
		expenses:   repo.NewExpenseRepo(tx),
		polls:      repo.NewPollRepo(tx),
	}
}

func mustCreateUser(t *testing.T, r repo.UserRepo) domain.User {
	t.Helper()
	u, err := r.Create(context.Background(), domain.User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		FirstName:    "Ana",
		LastName:     "Silva",
	})
	require.NoError(t, err, "create user")
	return u
}

func tripFixture(ownerID uuid.UUID) domain.Trip {
	return domain.Trip{
		Title:       "Lisbon Weekend",
		Destination: "Lisbon, Portugal",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		Currency:    domain.DefaultCurrency,
		Status:      domain.TripPlanning,
		OwnerID:     ownerID,
	}
}

func mustCreateTrip(t *testing.T, r repos, ownerID uuid.UUID) domain.Trip {
	t.Helper()
	trip, err := r.trips.Create(context.Background(), tripFixture(ownerID))
	require.NoError(t, err, "create trip")
	return trip
}
