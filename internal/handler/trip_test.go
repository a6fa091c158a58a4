package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/handler"
	"github.com/planoraa/planoraa-api/pkg/api"
)

func tripHandler(svc *mockTripServicer) http.Handler {
	return newHTTPHandler(handler.Services{Trips: svc})
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		create: func(_ context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
			assert.Equal(t, currentUser.ID, ownerID)
			assert.Equal(t, "Lisbon Long Weekend", trip.Title)
			assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), trip.StartDate)
			return fixture, nil
		},
	}

	rec := do(t, tripHandler(svc), http.MethodPost, "/api/v1/trips", map[string]any{
		"title":       "Lisbon Long Weekend",
		"destination": "Lisbon, Portugal",
		"startDate":   "2025-06-01",
		"endDate":     "2025-06-04",
		"budget":      1500,
		"currency":    "EUR",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var data api.TripData
	env := decodeEnvelope(t, rec, &data)
	assert.True(t, env.Success)
	assert.Equal(t, "Trip created successfully", env.Message)
	assert.Equal(t, fixture.ID, data.Trip.ID)
	assert.Equal(t, "2025-06-01", data.Trip.StartDate.Time.Format("2006-01-02"))
	require.Len(t, data.Trip.Members, 1)
	assert.Equal(t, "OWNER", data.Trip.Members[0].Role)
}

func TestCreateTrip_400_MissingTitle(t *testing.T) {
	rec := do(t, tripHandler(&mockTripServicer{}), http.MethodPost, "/api/v1/trips", map[string]any{
		"destination": "Lisbon",
		"startDate":   "2025-06-01",
		"endDate":     "2025-06-04",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.False(t, env.Success)
	assert.Equal(t, `Title failed "required" validation`, env.Message)
}

func TestCreateTrip_400_ServiceValidation(t *testing.T) {
	svc := &mockTripServicer{
		create: func(_ context.Context, _ uuid.UUID, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: end date must be on or after start date", domain.ErrValidation)
		},
	}

	rec := do(t, tripHandler(svc), http.MethodPost, "/api/v1/trips", map[string]any{
		"title":       "Backwards",
		"destination": "Lisbon",
		"startDate":   "2025-06-04",
		"endDate":     "2025-06-01",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, "End date must be on or after start date", env.Message)
}

func TestCreateTrip_401_NoToken(t *testing.T) {
	rec := doAs(t, tripHandler(&mockTripServicer{}), "", http.MethodPost, "/api/v1/trips", map[string]any{})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200(t *testing.T) {
	svc := &mockTripServicer{
		listForUser: func(_ context.Context, userID uuid.UUID) ([]domain.Trip, error) {
			assert.Equal(t, currentUser.ID, userID)
			return []domain.Trip{tripFixture(), tripFixture()}, nil
		},
	}

	rec := do(t, tripHandler(svc), http.MethodGet, "/api/v1/trips", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var data api.TripList
	decodeEnvelope(t, rec, &data)
	assert.Len(t, data.Trips, 2)
	assert.Equal(t, 2, data.Count)
}

func TestListTrips_200_Empty(t *testing.T) {
	svc := &mockTripServicer{
		listForUser: func(_ context.Context, _ uuid.UUID) ([]domain.Trip, error) { return []domain.Trip{}, nil },
	}

	rec := do(t, tripHandler(svc), http.MethodGet, "/api/v1/trips", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	// Must be a JSON array, not null.
	assert.Contains(t, rec.Body.String(), `"trips":[]`)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

// ---- GET /trips/{id} -------------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		get: func(_ context.Context, tripID, _ uuid.UUID) (domain.Trip, error) {
			assert.Equal(t, fixture.ID, tripID)
			return fixture, nil
		},
	}

	rec := do(t, tripHandler(svc), http.MethodGet, "/api/v1/trips/"+fixture.ID.String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var data api.TripData
	decodeEnvelope(t, rec, &data)
	assert.Equal(t, fixture.ID, data.Trip.ID)
	require.NotNil(t, data.Trip.Budget)
	assert.Equal(t, 1500.0, *data.Trip.Budget)
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		get: func(_ context.Context, _, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", domain.ErrNotFound)
		},
	}

	rec := do(t, tripHandler(svc), http.MethodGet, "/api/v1/trips/"+uuid.New().String(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, "Trip not found", env.Message)
}

func TestGetTrip_403(t *testing.T) {
	svc := &mockTripServicer{
		get: func(_ context.Context, _, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("%w: you do not have access to this trip", domain.ErrForbidden)
		},
	}

	rec := do(t, tripHandler(svc), http.MethodGet, "/api/v1/trips/"+uuid.New().String(), nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, "You do not have access to this trip", env.Message)
}

func TestGetTrip_400_BadID(t *testing.T) {
	rec := do(t, tripHandler(&mockTripServicer{}), http.MethodGet, "/api/v1/trips/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- PUT /trips/{id} -------------------------------------------------------

func TestUpdateTrip_200(t *testing.T) {
	fixture := tripFixture()
	fixture.Status = domain.TripConfirmed
	svc := &mockTripServicer{
		update: func(_ context.Context, _, _ uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
			require.NotNil(t, patch.Status)
			assert.Equal(t, domain.TripConfirmed, *patch.Status)
			assert.Nil(t, patch.Title)
			return fixture, nil
		},
	}

	rec := do(t, tripHandler(svc), http.MethodPut, "/api/v1/trips/"+fixture.ID.String(), map[string]any{
		"status": "CONFIRMED",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var data api.TripData
	env := decodeEnvelope(t, rec, &data)
	assert.Equal(t, "Trip updated successfully", env.Message)
	assert.Equal(t, "CONFIRMED", data.Trip.Status)
}

func TestUpdateTrip_400_UnknownStatus(t *testing.T) {
	rec := do(t, tripHandler(&mockTripServicer{}), http.MethodPut, "/api/v1/trips/"+uuid.New().String(), map[string]any{
		"status": "DREAMING",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, `Status failed "oneof" validation`, env.Message)
}

// ---- DELETE /trips/{id} ----------------------------------------------------

func TestDeleteTrip_200(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _, _ uuid.UUID) error { return nil },
	}

	rec := do(t, tripHandler(svc), http.MethodDelete, "/api/v1/trips/"+uuid.New().String(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, "Trip deleted successfully", env.Message)
	assert.Empty(t, env.Data)
}

func TestDeleteTrip_403_NotOwner(t *testing.T) {
	svc := &mockTripServicer{
		delete: func(_ context.Context, _, _ uuid.UUID) error {
			return fmt.Errorf("%w: only the trip owner can delete the trip", domain.ErrForbidden)
		},
	}

	rec := do(t, tripHandler(svc), http.MethodDelete, "/api/v1/trips/"+uuid.New().String(), nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, "Only the trip owner can delete the trip", env.Message)
}

// ---- POST /trips/{id}/members ----------------------------------------------

func TestAddMember_200_ByEmail(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		addMember: func(_ context.Context, _, requester uuid.UUID, nm domain.NewMember) (domain.Trip, error) {
			assert.Equal(t, currentUser.ID, requester)
			assert.Nil(t, nm.UserID)
			assert.Equal(t, "bruno@example.com", nm.Email)
			assert.Equal(t, domain.RoleEditor, nm.Role)
			return fixture, nil
		},
	}

	rec := do(t, tripHandler(svc), http.MethodPost, "/api/v1/trips/"+fixture.ID.String()+"/members", map[string]any{
		"email": "bruno@example.com",
		"role":  "EDITOR",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, "Member added successfully", env.Message)
}

func TestAddMember_409_AlreadyMember(t *testing.T) {
	svc := &mockTripServicer{
		addMember: func(_ context.Context, _, _ uuid.UUID, _ domain.NewMember) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("%w: user is already a member of this trip", domain.ErrConflict)
		},
	}

	rec := do(t, tripHandler(svc), http.MethodPost, "/api/v1/trips/"+uuid.New().String()+"/members", map[string]any{
		"userId": uuid.New().String(),
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, "User is already a member of this trip", env.Message)
}

func TestAddMember_400_OwnerRoleRejected(t *testing.T) {
	rec := do(t, tripHandler(&mockTripServicer{}), http.MethodPost, "/api/v1/trips/"+uuid.New().String()+"/members", map[string]any{
		"userId": uuid.New().String(),
		"role":   "OWNER",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- PUT /trips/{id}/members/me --------------------------------------------

func TestRespondToInvite_200_Accept(t *testing.T) {
	svc := &mockTripServicer{
		respondToInvite: func(_ context.Context, _, _ uuid.UUID, accept bool) (domain.Trip, error) {
			assert.True(t, accept)
			return tripFixture(), nil
		},
	}

	rec := do(t, tripHandler(svc), http.MethodPut, "/api/v1/trips/"+uuid.New().String()+"/members/me", map[string]any{
		"accept": true,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, "Invitation accepted", env.Message)
}

func TestRespondToInvite_400_MissingAccept(t *testing.T) {
	rec := do(t, tripHandler(&mockTripServicer{}), http.MethodPut, "/api/v1/trips/"+uuid.New().String()+"/members/me", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
