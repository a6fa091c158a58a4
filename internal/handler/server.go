// Package handler implements the HTTP handlers for the Planoraa API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (auth.go, trip.go, etc.) but share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/middleware"
	"github.com/planoraa/planoraa-api/internal/service"
)

// The servicer interfaces below are declared here, in the consumer package,
// so handler tests can inject mocks without touching the database.

// AuthServicer defines the account operations the auth handlers depend on.
type AuthServicer interface {
	Register(ctx context.Context, reg service.Registration) (service.Session, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (domain.User, error)
	Profile(ctx context.Context, userID uuid.UUID) (domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (domain.User, error)
}

// TripServicer defines the trip and roster operations.
type TripServicer interface {
	Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error)
	Update(ctx context.Context, tripID, userID uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	Delete(ctx context.Context, tripID, userID uuid.UUID) error
	AddMember(ctx context.Context, tripID, requesterID uuid.UUID, nm domain.NewMember) (domain.Trip, error)
	RespondToInvite(ctx context.Context, tripID, userID uuid.UUID, accept bool) (domain.Trip, error)
}

// ActivityServicer defines the itinerary operations.
type ActivityServicer interface {
	Create(ctx context.Context, tripID, callerID uuid.UUID, a domain.Activity) (domain.Activity, error)
	List(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.Activity, error)
	Update(ctx context.Context, activityID, callerID uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error)
	Delete(ctx context.Context, activityID, callerID uuid.UUID) error
}

// ExpenseServicer defines the expense and balance operations.
type ExpenseServicer interface {
	Create(ctx context.Context, tripID, payerID uuid.UUID, e domain.Expense) (domain.Expense, error)
	List(ctx context.Context, tripID, callerID uuid.UUID) (domain.ExpenseSummary, error)
	Balances(ctx context.Context, tripID, callerID uuid.UUID) (domain.BalanceSheet, error)
	Export(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.ExportRow, error)
	Update(ctx context.Context, expenseID, callerID uuid.UUID, patch domain.ExpensePatch) (domain.Expense, error)
	Delete(ctx context.Context, expenseID, callerID uuid.UUID) error
}

// PollServicer defines the poll operations.
type PollServicer interface {
	Create(ctx context.Context, tripID, callerID uuid.UUID, p domain.Poll) (domain.Poll, error)
	List(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.Poll, error)
	Vote(ctx context.Context, pollID, userID uuid.UUID, vt domain.VoteType) (domain.Poll, error)
	Close(ctx context.Context, pollID, callerID uuid.UUID) (domain.Poll, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the dependencies of Server. Store is optional; without it
// the health check does not probe the database.
type Services struct {
	Auth       AuthServicer
	Trips      TripServicer
	Activities ActivityServicer
	Expenses   ExpenseServicer
	Polls      PollServicer
	Store      Pinger
}

// Server serves every API endpoint. Build the router with Routes.
type Server struct {
	auth        AuthServicer
	trips       TripServicer
	activities  ActivityServicer
	expenses    ExpenseServicer
	polls       PollServicer
	store       Pinger
	development bool
}

// NewServer constructs the Server. In development mode failure envelopes
// include the underlying error text.
func NewServer(svc Services, development bool) *Server {
	return &Server{
		auth:        svc.Auth,
		trips:       svc.Trips,
		activities:  svc.Activities,
		expenses:    svc.Expenses,
		polls:       svc.Polls,
		store:       svc.Store,
		development: development,
	}
}

// Routes returns the API router. Health and the OpenAPI document sit at the
// root; everything else is under /api/v1, and all but register, login and
// refresh-token require a bearer token.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Post("/auth/refresh-token", s.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuth(s.auth))

			r.Get("/auth/profile", s.GetProfile)
			r.Put("/auth/profile", s.UpdateProfile)

			r.Post("/trips", s.CreateTrip)
			r.Get("/trips", s.ListTrips)
			r.Get("/trips/{tripID}", s.GetTrip)
			r.Put("/trips/{tripID}", s.UpdateTrip)
			r.Delete("/trips/{tripID}", s.DeleteTrip)
			r.Post("/trips/{tripID}/members", s.AddMember)
			r.Put("/trips/{tripID}/members/me", s.RespondToInvite)

			r.Post("/trips/{tripID}/activities", s.CreateActivity)
			r.Get("/trips/{tripID}/activities", s.ListActivities)
			r.Put("/activities/{activityID}", s.UpdateActivity)
			r.Delete("/activities/{activityID}", s.DeleteActivity)

			r.Post("/trips/{tripID}/expenses", s.CreateExpense)
			r.Get("/trips/{tripID}/expenses", s.ListExpenses)
			r.Get("/trips/{tripID}/expenses/export", s.ExportExpenses)
			r.Get("/trips/{tripID}/balances", s.GetBalances)
			r.Put("/expenses/{expenseID}", s.UpdateExpense)
			r.Delete("/expenses/{expenseID}", s.DeleteExpense)

			r.Post("/trips/{tripID}/polls", s.CreatePoll)
			r.Get("/trips/{tripID}/polls", s.ListPolls)
			r.Post("/polls/{pollID}/vote", s.Vote)
			r.Put("/polls/{pollID}/close", s.ClosePoll)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, apiFailure("Route not found"))
	})
	return r
}

// caller returns the authenticated user's id. Routes behind NewAuth always
// have one.
func caller(r *http.Request) uuid.UUID {
	id, _ := middleware.IdentityFromContext(r.Context())
	return id.UserID
}
