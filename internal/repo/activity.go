package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/planoraa/planoraa-api/internal/domain"
)

// ActivityRepo defines the persistence operations for itinerary items.
type ActivityRepo interface {
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// GetByID returns domain.ErrNotFound if no activity with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)

	// ListByTrip returns the trip's activities ordered by sort order, then
	// start time.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)

	Update(ctx context.Context, a domain.Activity) (domain.Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

const activityColumns = `id, trip_id, title, description, location, latitude, longitude,
	start_time, end_time, category, priority, status, notes, cost, booking_url, sort_order,
	created_by, created_at, updated_at`

func (r *pgActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		INSERT INTO activities (trip_id, title, description, location, latitude, longitude,
		                        start_time, end_time, category, priority, status, notes, cost,
		                        booking_url, sort_order, created_by)
		VALUES (@trip_id, @title, @description, @location, @latitude, @longitude,
		        @start_time, @end_time, @category, @priority, @status, @notes, @cost,
		        @booking_url, @sort_order, @created_by)
		RETURNING ` + activityColumns

	args := activityArgs(a)
	args["trip_id"] = a.TripID
	args["created_by"] = a.CreatedBy

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	q := `SELECT ` + activityColumns + ` FROM activities WHERE id = @id`

	result, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgActivityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	q := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE trip_id = @trip_id
		ORDER BY sort_order, start_time, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ActivityRepo.ListByTrip: scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.ListByTrip: rows: %w", err)
	}
	return activities, nil
}

func (r *pgActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	const q = `
		UPDATE activities
		SET title       = @title,
		    description = @description,
		    location    = @location,
		    latitude    = @latitude,
		    longitude   = @longitude,
		    start_time  = @start_time,
		    end_time    = @end_time,
		    category    = @category,
		    priority    = @priority,
		    status      = @status,
		    notes       = @notes,
		    cost        = @cost,
		    booking_url = @booking_url,
		    sort_order  = @sort_order,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + activityColumns

	args := activityArgs(a)
	args["id"] = a.ID

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM activities WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ActivityRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func activityArgs(a domain.Activity) pgx.NamedArgs {
	var lat, lng *float64
	if a.Coordinates != nil {
		lat, lng = &a.Coordinates.Latitude, &a.Coordinates.Longitude
	}
	return pgx.NamedArgs{
		"title":       a.Title,
		"description": a.Description,
		"location":    a.Location,
		"latitude":    lat,
		"longitude":   lng,
		"start_time":  a.StartTime,
		"end_time":    a.EndTime,
		"category":    string(a.Category),
		"priority":    string(a.Priority),
		"status":      string(a.Status),
		"notes":       a.Notes,
		"cost":        a.Cost,
		"booking_url": a.BookingURL,
		"sort_order":  a.SortOrder,
	}
}

func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a        domain.Activity
		lat, lng *float64
	)

	err := s.Scan(&a.ID, &a.TripID, &a.Title, &a.Description, &a.Location, &lat, &lng,
		&a.StartTime, &a.EndTime, &a.Category, &a.Priority, &a.Status, &a.Notes, &a.Cost,
		&a.BookingURL, &a.SortOrder, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Activity{}, err
	}

	if lat != nil && lng != nil {
		a.Coordinates = &domain.Coordinates{Latitude: *lat, Longitude: *lng}
	}
	return a, nil
}
