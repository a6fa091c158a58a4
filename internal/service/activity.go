package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/repo"
)

// ActivityService implements itinerary operations. Every operation first
// resolves the parent trip to check the caller's access.
type ActivityService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
}

// NewActivityService constructs an ActivityService backed by the provided repos.
func NewActivityService(trips repo.TripRepo, activities repo.ActivityRepo) *ActivityService {
	return &ActivityService{trips: trips, activities: activities}
}

// Create adds an activity to the trip with the caller as creator.
func (s *ActivityService) Create(ctx context.Context, tripID, callerID uuid.UUID, a domain.Activity) (domain.Activity, error) {
	if _, err := tripAccess(ctx, s.trips, tripID, callerID); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}

	a.TripID = tripID
	a.CreatedBy = callerID
	a.Title = strings.TrimSpace(a.Title)
	a.ApplyDefaults()
	if err := validateActivity(a); err != nil {
		return domain.Activity{}, err
	}

	result, err := s.activities.Create(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	return result, nil
}

// List returns the trip's activities ordered by sort order, then start time.
// Always returns a non-nil slice.
func (s *ActivityService) List(ctx context.Context, tripID, callerID uuid.UUID) ([]domain.Activity, error) {
	if _, err := tripAccess(ctx, s.trips, tripID, callerID); err != nil {
		return nil, fmt.Errorf("service.ActivityService.List: %w", err)
	}

	activities, err := s.activities.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.List: %w", err)
	}
	if activities == nil {
		return []domain.Activity{}, nil
	}
	return activities, nil
}

// Update applies patch. Only the activity's creator or a trip owner/admin may
// change it.
func (s *ActivityService) Update(ctx context.Context, activityID, callerID uuid.UUID, patch domain.ActivityPatch) (domain.Activity, error) {
	a, err := s.editable(ctx, activityID, callerID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}

	patch.Apply(&a)
	a.Title = strings.TrimSpace(a.Title)
	if err := validateActivity(a); err != nil {
		return domain.Activity{}, err
	}

	result, err := s.activities.Update(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	return result, nil
}

// Delete removes an activity under the same policy as Update.
func (s *ActivityService) Delete(ctx context.Context, activityID, callerID uuid.UUID) error {
	if _, err := s.editable(ctx, activityID, callerID); err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}
	if err := s.activities.Delete(ctx, activityID); err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}
	return nil
}

// editable loads the activity and checks the caller may modify it.
func (s *ActivityService) editable(ctx context.Context, activityID, callerID uuid.UUID) (domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return domain.Activity{}, err
	}
	trip, err := s.trips.GetByID(ctx, a.TripID)
	if err != nil {
		return domain.Activity{}, err
	}
	if a.CreatedBy != callerID && !domain.IsOwnerOrAdmin(trip, callerID) {
		return domain.Activity{}, fmt.Errorf("%w: only the creator or a trip admin can modify this activity", domain.ErrForbidden)
	}
	return a, nil
}

// validateActivity enforces business rules common to both Create and Update.
func validateActivity(a domain.Activity) error {
	if a.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if a.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", domain.ErrValidation)
	}
	if a.EndTime != nil && a.EndTime.Before(a.StartTime) {
		return fmt.Errorf("%w: end time must not be before start time", domain.ErrValidation)
	}
	if a.Cost != nil && *a.Cost < 0 {
		return fmt.Errorf("%w: cost must not be negative", domain.ErrValidation)
	}
	if c := a.Coordinates; c != nil && (c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180) {
		return fmt.Errorf("%w: coordinates out of range", domain.ErrValidation)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("%w: invalid category %q", domain.ErrValidation, a.Category)
	}
	if !a.Priority.Valid() {
		return fmt.Errorf("%w: invalid priority %q", domain.ErrValidation, a.Priority)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", domain.ErrValidation, a.Status)
	}
	return nil
}
