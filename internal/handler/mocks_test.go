package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/handler"
	"github.com/planoraa/planoraa-api/internal/service"
	"github.com/planoraa/planoraa-api/pkg/api"
)

// validToken is the only bearer token mockAuthServicer accepts by default.
const validToken = "valid-token"

// currentUser is the identity behind validToken.
var currentUser = domain.User{
	ID:        uuid.MustParse("7b0f6f5e-3c1a-4d7e-9a55-2f1d8c0a6b11"),
	Email:     "ana@example.com",
	FirstName: "Ana",
	LastName:  "Silva",
}

// ---- mock servicers --------------------------------------------------------
// Set only the method fields your test needs.

type mockAuthServicer struct {
	register      func(ctx context.Context, reg service.Registration) (service.Session, error)
	login         func(ctx context.Context, email, password string) (service.Session, error)
	refresh       func(ctx context.Context, token string) (string, error)
	authenticate  func(ctx context.Context, token string) (domain.User, error)
	profile       func(ctx context.Context, userID uuid.UUID) (domain.User, error)
	updateProfile func(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (domain.User, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, reg service.Registration) (service.Session, error) {
	return m.register(ctx, reg)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (service.Session, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) Refresh(ctx context.Context, token string) (string, error) {
	return m.refresh(ctx, token)
}
func (m *mockAuthServicer) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if m.authenticate != nil {
		return m.authenticate(ctx, token)
	}
	if token != validToken {
		return domain.User{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	return currentUser, nil
}
func (m *mockAuthServicer) Profile(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return m.profile(ctx, userID)
}
func (m *mockAuthServicer) UpdateProfile(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (domain.User, error) {
	return m.updateProfile(ctx, userID, patch)
}

type mockTripServicer struct {
	create          func(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	listForUser     func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	get             func(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error)
	update          func(ctx context.Context, tripID, userID uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	delete          func(ctx context.Context, tripID, userID uuid.UUID) error
	addMember       func(ctx context.Context, tripID, requesterID uuid.UUID, nm domain.NewMember) (domain.Trip, error)
	respondToInvite func(ctx context.Context, tripID, userID uuid.UUID, accept bool) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, ownerID, trip)
}
func (m *mockTripServicer) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listForUser(ctx, userID)
}
func (m *mockTripServicer) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error) {
	return m.get(ctx, tripID, userID)
}
func (m *mockTripServicer) Update(ctx context.Context, tripID, userID uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	return m.update(ctx, tripID, userID, patch)
}
func (m *mockTripServicer) Delete(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.delete(ctx, tripID, userID)
}
func (m *mockTripServicer) AddMember(ctx context.Context, tripID, requesterID uuid.UUID, nm domain.NewMember) (domain.Trip, error) {
	return m.addMember(ctx, tripID, requesterID, nm)
}
func (m *mockTripServicer) RespondToInvite(ctx context.Context, tripID, userID uuid.UUID, accept bool) (domain.Trip, error) {
	return m.respondToInvite(ctx, tripID, userID, accept)
}

type mockActivityServicer struct {
	create func(ctx context.Context, tripID, callerID uuid.UUID, a domain.Activity) (domain.Activity, error)
	list   func(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.Activity, error)
	update func(ctx context.Context, activityID, callerID uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error)
	delete func(ctx context.Context, activityID, callerID uuid.UUID) error
}

func (m *mockActivityServicer) Create(ctx context.Context, tripID, callerID uuid.UUID, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, tripID, callerID, a)
}
func (m *mockActivityServicer) List(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.Activity, error) {
	return m.list(ctx, tripID, callerID)
}
func (m *mockActivityServicer) Update(ctx context.Context, activityID, callerID uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error) {
	return m.update(ctx, activityID, callerID, patch)
}
func (m *mockActivityServicer) Delete(ctx context.Context, activityID, callerID uuid.UUID) error {
	return m.delete(ctx, activityID, callerID)
}

type mockExpenseServicer struct {
	create   func(ctx context.Context, tripID, payerID uuid.UUID, e domain.Expense) (domain.Expense, error)
	list     func(ctx context.Context, tripID, callerID uuid.UUID) (domain.ExpenseSummary, error)
	balances func(ctx context.Context, tripID, callerID uuid.UUID) (domain.BalanceSheet, error)
	export   func(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.ExportRow, error)
	update   func(ctx context.Context, expenseID, callerID uuid.UUID, patch domain.ExpensePatch) (domain.Expense, error)
	delete   func(ctx context.Context, expenseID, callerID uuid.UUID) error
}

func (m *mockExpenseServicer) Create(ctx context.Context, tripID, payerID uuid.UUID, e domain.Expense) (domain.Expense, error) {
	return m.create(ctx, tripID, payerID, e)
}
func (m *mockExpenseServicer) List(ctx context.Context, tripID, callerID uuid.UUID) (domain.ExpenseSummary, error) {
	return m.list(ctx, tripID, callerID)
}
func (m *mockExpenseServicer) Balances(ctx context.Context, tripID, callerID uuid.UUID) (domain.BalanceSheet, error) {
	return m.balances(ctx, tripID, callerID)
}
func (m *mockExpenseServicer) Export(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, tripID, callerID)
}
func (m *mockExpenseServicer) Update(ctx context.Context, expenseID, callerID uuid.UUID, patch domain.ExpensePatch) (domain.Expense, error) {
	return m.update(ctx, expenseID, callerID, patch)
}
func (m *mockExpenseServicer) Delete(ctx context.Context, expenseID, callerID uuid.UUID) error {
	return m.delete(ctx, expenseID, callerID)
}

type mockPollServicer struct {
	create func(ctx context.Context, tripID, callerID uuid.UUID, p domain.Poll) (domain.Poll, error)
	list   func(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.Poll, error)
	vote   func(ctx context.Context, pollID, userID uuid.UUID, vt domain.VoteType) (domain.Poll, error)
	close  func(ctx context.Context, pollID, callerID uuid.UUID) (domain.Poll, error)
}

func (m *mockPollServicer) Create(ctx context.Context, tripID, callerID uuid.UUID, p domain.Poll) (domain.Poll, error) {
	return m.create(ctx, tripID, callerID, p)
}
func (m *mockPollServicer) List(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.Poll, error) {
	return m.list(ctx, tripID, callerID)
}
func (m *mockPollServicer) Vote(ctx context.Context, pollID, userID uuid.UUID, vt domain.VoteType) (domain.Poll, error) {
	return m.vote(ctx, pollID, userID, vt)
}
func (m *mockPollServicer) Close(ctx context.Context, pollID, callerID uuid.UUID) (domain.Poll, error) {
	return m.close(ctx, pollID, callerID)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.AuthServicer     = (*mockAuthServicer)(nil)
	_ handler.TripServicer     = (*mockTripServicer)(nil)
	_ handler.ActivityServicer = (*mockActivityServicer)(nil)
	_ handler.ExpenseServicer  = (*mockExpenseServicer)(nil)
	_ handler.PollServicer     = (*mockPollServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server with the given mocks into its chi router,
// exactly as main.go does. A nil Auth is replaced by a mock that accepts
// validToken.
func newHTTPHandler(svc handler.Services) http.Handler {
	if svc.Auth == nil {
		svc.Auth = &mockAuthServicer{}
	}
	return handler.NewServer(svc, false).Routes()
}

// do sends a request with validToken and an optional JSON body.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doAs(t, h, validToken, method, path, body)
}

// doAs sends a request with the given bearer token; an empty token sends no
// Authorization header.
func doAs(t *testing.T, h http.Handler, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeEnvelope decodes the response envelope and, when data is non-nil,
// its data payload. The recorded body is left readable.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) api.RawEnvelope {
	t.Helper()
	var env api.RawEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil {
		require.NotEmpty(t, env.Data, "envelope has no data")
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func tripFixture() domain.Trip {
	budget := 1500.0
	return domain.Trip{
		ID:          uuid.New(),
		Title:       "Lisbon Long Weekend",
		Destination: "Lisbon, Portugal",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		Budget:      &budget,
		Currency:    "EUR",
		Status:      domain.TripPlanning,
		OwnerID:     currentUser.ID,
		Members: []domain.Member{{
			UserID: currentUser.ID,
			Role:   domain.RoleOwner,
			Status: domain.MemberAccepted,
			User:   &domain.UserSummary{ID: currentUser.ID, Email: currentUser.Email, FirstName: "Ana"},
		}},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}
