package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/repo"
)

type coordinatesDoc struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

type activityDoc struct {
	ID          string          `bson:"_id"`
	TripID      string          `bson:"tripId"`
	Title       string          `bson:"title"`
	Description string          `bson:"description"`
	Location    string          `bson:"location"`
	Coordinates *coordinatesDoc `bson:"coordinates"`
	StartTime   time.Time       `bson:"startTime"`
	EndTime     *time.Time      `bson:"endTime"`
	Category    string          `bson:"category"`
	Priority    string          `bson:"priority"`
	Status      string          `bson:"status"`
	Notes       string          `bson:"notes"`
	Cost        *float64        `bson:"cost"`
	BookingURL  string          `bson:"bookingUrl"`
	SortOrder   int             `bson:"sortOrder"`
	CreatedBy   string          `bson:"createdBy"`
	CreatedAt   time.Time       `bson:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"`
}

func newActivityDoc(a domain.Activity) activityDoc {
	d := activityDoc{
		ID:          toID(a.ID),
		TripID:      toID(a.TripID),
		Title:       a.Title,
		Description: a.Description,
		Location:    a.Location,
		StartTime:   a.StartTime.UTC(),
		EndTime:     a.EndTime,
		Category:    string(a.Category),
		Priority:    string(a.Priority),
		Status:      string(a.Status),
		Notes:       a.Notes,
		Cost:        a.Cost,
		BookingURL:  a.BookingURL,
		SortOrder:   a.SortOrder,
		CreatedBy:   toID(a.CreatedBy),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Coordinates != nil {
		d.Coordinates = &coordinatesDoc{Latitude: a.Coordinates.Latitude, Longitude: a.Coordinates.Longitude}
	}
	return d
}

func (d activityDoc) toDomain() domain.Activity {
	a := domain.Activity{
		ID:          fromID(d.ID),
		TripID:      fromID(d.TripID),
		Title:       d.Title,
		Description: d.Description,
		Location:    d.Location,
		StartTime:   d.StartTime.UTC(),
		EndTime:     d.EndTime,
		Category:    domain.ActivityCategory(d.Category),
		Priority:    domain.Priority(d.Priority),
		Status:      domain.ActivityStatus(d.Status),
		Notes:       d.Notes,
		Cost:        d.Cost,
		BookingURL:  d.BookingURL,
		SortOrder:   d.SortOrder,
		CreatedBy:   fromID(d.CreatedBy),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Coordinates != nil {
		a.Coordinates = &domain.Coordinates{Latitude: d.Coordinates.Latitude, Longitude: d.Coordinates.Longitude}
	}
	return a
}

type activityRepo struct {
	col *mongo.Collection
}

var _ repo.ActivityRepo = (*activityRepo)(nil)

// NewActivityRepo constructs an ActivityRepo over the activities collection of db.
func NewActivityRepo(db *mongo.Database) repo.ActivityRepo {
	return &activityRepo{col: db.Collection(colActivities)}
}

func (r *activityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	ts := now()
	a.ID = uuid.New()
	a.CreatedAt, a.UpdatedAt = ts, ts

	d := newActivityDoc(a)
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return domain.Activity{}, fmt.Errorf("mongostore.ActivityRepo.Create: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *activityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	var d activityDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return domain.Activity{}, fmt.Errorf("mongostore.ActivityRepo.GetByID: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *activityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "sortOrder", Value: 1},
		{Key: "startTime", Value: 1},
		{Key: "createdAt", Value: 1},
	})

	cur, err := r.col.Find(ctx, bson.M{"tripId": toID(tripID)}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore.ActivityRepo.ListByTrip: %w", err)
	}
	activities, err := decodeAll(ctx, cur, activityDoc.toDomain)
	if err != nil {
		return nil, fmt.Errorf("mongostore.ActivityRepo.ListByTrip: %w", err)
	}
	return activities, nil
}

func (r *activityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	a.UpdatedAt = now()
	d := newActivityDoc(a)
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	// createdAt and createdBy are immutable; keep the stored values.
	var prev activityDoc
	if err := r.col.FindOne(ctx, byID(a.ID)).Decode(&prev); err != nil {
		return domain.Activity{}, fmt.Errorf("mongostore.ActivityRepo.Update: %w", translate(err))
	}
	d.CreatedAt, d.CreatedBy, d.TripID = prev.CreatedAt, prev.CreatedBy, prev.TripID

	var out activityDoc
	if err := r.col.FindOneAndReplace(ctx, byID(a.ID), d, opts).Decode(&out); err != nil {
		return domain.Activity{}, fmt.Errorf("mongostore.ActivityRepo.Update: %w", translate(err))
	}
	return out.toDomain(), nil
}

func (r *activityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("mongostore.ActivityRepo.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("mongostore.ActivityRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
