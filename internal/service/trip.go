// Package service contains the business logic for the Planoraa API.
// Services validate inputs, enforce trip access rules, and orchestrate repo
// calls. No SQL lives here; services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/events"
	"github.com/planoraa/planoraa-api/internal/repo"
)

// TripService implements trip CRUD and roster management.
type TripService struct {
	trips  repo.TripRepo
	users  repo.UserRepo
	events events.Publisher
}

// NewTripService constructs a TripService. A nil publisher disables events.
func NewTripService(trips repo.TripRepo, users repo.UserRepo, pub events.Publisher) *TripService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &TripService{trips: trips, users: users, events: pub}
}

// Create validates and persists a new trip owned by ownerID. The owner
// becomes the only roster entry.
func (s *TripService) Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	trip.OwnerID = ownerID
	trip.Title = strings.TrimSpace(trip.Title)
	trip.Destination = strings.TrimSpace(trip.Destination)
	if trip.Currency == "" {
		trip.Currency = domain.DefaultCurrency
	}
	if trip.Status == "" {
		trip.Status = domain.TripPlanning
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if err := s.expand(ctx, &result); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// ListForUser returns every trip the user owns or belongs to, newest first.
// Always returns a non-nil slice.
func (s *TripService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.trips.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}

	ptrs := make([]*domain.Trip, len(trips))
	for i := range trips {
		ptrs[i] = &trips[i]
	}
	if err := s.expand(ctx, ptrs...); err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	return trips, nil
}

// Get returns one trip with owner and members expanded to profile summaries.
// Returns domain.ErrForbidden if the caller is not on the trip.
func (s *TripService) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Trip, error) {
	trip, err := tripAccess(ctx, s.trips, tripID, userID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	if err := s.expand(ctx, &trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// Update applies patch. Only the owner or an admin may update a trip.
func (s *TripService) Update(ctx context.Context, tripID, userID uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if !domain.IsOwnerOrAdmin(trip, userID) {
		return domain.Trip{}, fmt.Errorf("%w: only the trip owner or an admin can update the trip", domain.ErrForbidden)
	}

	patch.Apply(&trip)
	trip.Title = strings.TrimSpace(trip.Title)
	trip.Destination = strings.TrimSpace(trip.Destination)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if err := s.expand(ctx, &result); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes the trip together with its activities, expenses and polls.
// Only the owner may delete a trip.
func (s *TripService) Delete(ctx context.Context, tripID, userID uuid.UUID) error {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if !domain.IsOwner(trip, userID) {
		return fmt.Errorf("%w: only the trip owner can delete the trip", domain.ErrForbidden)
	}

	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}

	s.publish(ctx, events.KeyTripDeleted, events.TripDeleted{
		TripID:    tripID,
		DeletedBy: userID,
		At:        time.Now().UTC(),
	})
	return nil
}

// AddMember invites a user, identified by id or email, to the trip with
// status PENDING. Only the owner or an admin may invite.
//
// The trip and the invitee are looked up concurrently. Errors are reported
// in a fixed order: missing trip, then permission, then missing invitee.
func (s *TripService) AddMember(ctx context.Context, tripID, requesterID uuid.UUID, nm domain.NewMember) (domain.Trip, error) {
	nm.Email = domain.NormalizeEmail(nm.Email)
	if nm.UserID == nil && nm.Email == "" {
		return domain.Trip{}, fmt.Errorf("%w: userId or email is required", domain.ErrValidation)
	}
	if nm.Role == "" {
		nm.Role = domain.RoleMember
	}
	if !nm.Role.Valid() {
		return domain.Trip{}, fmt.Errorf("%w: invalid role %q", domain.ErrValidation, nm.Role)
	}
	if nm.Role == domain.RoleOwner {
		return domain.Trip{}, fmt.Errorf("%w: a trip has exactly one owner", domain.ErrValidation)
	}

	var (
		trip    domain.Trip
		invitee domain.User
		userErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trip, err = s.trips.GetByID(gctx, tripID)
		return err
	})
	g.Go(func() error {
		if nm.UserID != nil {
			invitee, userErr = s.users.GetByID(gctx, *nm.UserID)
		} else {
			invitee, userErr = s.users.GetByEmail(gctx, nm.Email)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddMember: %w", err)
	}

	if !domain.IsOwnerOrAdmin(trip, requesterID) {
		return domain.Trip{}, fmt.Errorf("%w: only the trip owner or an admin can add members", domain.ErrForbidden)
	}
	if errors.Is(userErr, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}
	if userErr != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddMember: %w", userErr)
	}
	if _, ok := trip.FindMember(invitee.ID); ok || trip.OwnerID == invitee.ID {
		return domain.Trip{}, fmt.Errorf("%w: user is already a member of this trip", domain.ErrConflict)
	}

	member, err := s.trips.AddMember(ctx, tripID, domain.Member{
		UserID:   invitee.ID,
		Role:     nm.Role,
		Status:   domain.MemberPending,
		JoinedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddMember: %w", err)
	}
	trip.Members = append(trip.Members, member)

	s.publish(ctx, events.KeyMemberAdded, events.MemberAdded{
		TripID:    tripID,
		UserID:    invitee.ID,
		Role:      string(member.Role),
		InvitedBy: requesterID,
		At:        member.JoinedAt,
	})

	if err := s.expand(ctx, &trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AddMember: %w", err)
	}
	return trip, nil
}

// RespondToInvite accepts or declines the caller's pending invitation.
func (s *TripService) RespondToInvite(ctx context.Context, tripID, userID uuid.UUID, accept bool) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RespondToInvite: %w", err)
	}

	m, ok := trip.FindMember(userID)
	if !ok {
		return domain.Trip{}, fmt.Errorf("%w: no invitation for this user", domain.ErrNotFound)
	}
	if m.Status != domain.MemberPending {
		return domain.Trip{}, fmt.Errorf("%w: invitation has already been answered", domain.ErrValidation)
	}

	status := domain.MemberDeclined
	if accept {
		status = domain.MemberAccepted
	}
	updated, err := s.trips.UpdateMemberStatus(ctx, tripID, userID, status)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RespondToInvite: %w", err)
	}
	for i := range trip.Members {
		if trip.Members[i].UserID == userID {
			trip.Members[i] = updated
		}
	}

	if err := s.expand(ctx, &trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.RespondToInvite: %w", err)
	}
	return trip, nil
}

// expand fills Owner and Member.User on each trip with one user lookup.
func (s *TripService) expand(ctx context.Context, trips ...*domain.Trip) error {
	var ids []uuid.UUID
	for _, t := range trips {
		ids = append(ids, t.MemberIDs()...)
	}
	byID, err := userSummaries(ctx, s.users, ids)
	if err != nil {
		return err
	}

	for _, t := range trips {
		t.Owner = lookup(byID, t.OwnerID)
		for i := range t.Members {
			t.Members[i].User = lookup(byID, t.Members[i].UserID)
		}
	}
	return nil
}

func (s *TripService) publish(ctx context.Context, key string, v any) {
	if err := s.events.PublishJSON(ctx, key, v); err != nil {
		slog.WarnContext(ctx, "publish event failed", "key", key, "error", err)
	}
}

// tripAccess loads a trip and returns domain.ErrForbidden unless userID has
// access to it.
func tripAccess(ctx context.Context, trips repo.TripRepo, tripID, userID uuid.UUID) (domain.Trip, error) {
	trip, err := trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if !domain.HasAccess(trip, userID) {
		return domain.Trip{}, fmt.Errorf("%w: you do not have access to this trip", domain.ErrForbidden)
	}
	return trip, nil
}

// validateTrip enforces business rules common to both Create and Update.
func validateTrip(t domain.Trip) error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if t.Destination == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("%w: start date and end date are required", domain.ErrValidation)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	if t.Budget != nil && *t.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", domain.ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", domain.ErrValidation, t.Status)
	}
	return nil
}
