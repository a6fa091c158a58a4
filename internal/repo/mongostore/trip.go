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

type memberDoc struct {
	UserID   string    `bson:"userId"`
	Role     string    `bson:"role"`
	Status   string    `bson:"status"`
	JoinedAt time.Time `bson:"joinedAt"`
}

type tripDoc struct {
	ID          string      `bson:"_id"`
	Title       string      `bson:"title"`
	Description string      `bson:"description"`
	Destination string      `bson:"destination"`
	StartDate   time.Time   `bson:"startDate"`
	EndDate     time.Time   `bson:"endDate"`
	CoverImage  string      `bson:"coverImage"`
	Budget      *float64    `bson:"budget"`
	Currency    string      `bson:"currency"`
	Status      string      `bson:"status"`
	OwnerID     string      `bson:"ownerId"`
	Members     []memberDoc `bson:"members"`
	CreatedAt   time.Time   `bson:"createdAt"`
	UpdatedAt   time.Time   `bson:"updatedAt"`
}

func newMemberDoc(m domain.Member) memberDoc {
	return memberDoc{
		UserID:   toID(m.UserID),
		Role:     string(m.Role),
		Status:   string(m.Status),
		JoinedAt: m.JoinedAt,
	}
}

func (d memberDoc) toDomain() domain.Member {
	return domain.Member{
		UserID:   fromID(d.UserID),
		Role:     domain.MemberRole(d.Role),
		Status:   domain.MemberStatus(d.Status),
		JoinedAt: d.JoinedAt,
	}
}

func (d tripDoc) toDomain() domain.Trip {
	members := make([]domain.Member, len(d.Members))
	for i, m := range d.Members {
		members[i] = m.toDomain()
	}
	return domain.Trip{
		ID:          fromID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Destination: d.Destination,
		StartDate:   d.StartDate.UTC(),
		EndDate:     d.EndDate.UTC(),
		CoverImage:  d.CoverImage,
		Budget:      d.Budget,
		Currency:    d.Currency,
		Status:      domain.TripStatus(d.Status),
		OwnerID:     fromID(d.OwnerID),
		Members:     members,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// tripFields are the mutable fields written by both Create and Update.
func tripFields(t domain.Trip) bson.M {
	return bson.M{
		"title":       t.Title,
		"description": t.Description,
		"destination": t.Destination,
		"startDate":   t.StartDate.UTC(),
		"endDate":     t.EndDate.UTC(),
		"coverImage":  t.CoverImage,
		"budget":      t.Budget,
		"currency":    t.Currency,
		"status":      string(t.Status),
	}
}

type tripRepo struct {
	db  *mongo.Database
	col *mongo.Collection
}

var _ repo.TripRepo = (*tripRepo)(nil)

// NewTripRepo constructs a TripRepo over the trips collection of db. Delete
// also clears the trip's activities, expenses and polls.
func NewTripRepo(db *mongo.Database) repo.TripRepo {
	return &tripRepo{db: db, col: db.Collection(colTrips)}
}

func (r *tripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	ts := now()
	d := tripDoc{
		ID:          toID(uuid.New()),
		Title:       t.Title,
		Description: t.Description,
		Destination: t.Destination,
		StartDate:   t.StartDate.UTC(),
		EndDate:     t.EndDate.UTC(),
		CoverImage:  t.CoverImage,
		Budget:      t.Budget,
		Currency:    t.Currency,
		Status:      string(t.Status),
		OwnerID:     toID(t.OwnerID),
		Members: []memberDoc{{
			UserID:   toID(t.OwnerID),
			Role:     string(domain.RoleOwner),
			Status:   string(domain.MemberAccepted),
			JoinedAt: ts,
		}},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return domain.Trip{}, fmt.Errorf("mongostore.TripRepo.Create: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *tripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	var d tripDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return domain.Trip{}, fmt.Errorf("mongostore.TripRepo.GetByID: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *tripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	uid := toID(userID)
	filter := bson.M{"$or": bson.A{
		bson.M{"ownerId": uid},
		bson.M{"members.userId": uid},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore.TripRepo.ListForUser: %w", err)
	}
	trips, err := decodeAll(ctx, cur, tripDoc.toDomain)
	if err != nil {
		return nil, fmt.Errorf("mongostore.TripRepo.ListForUser: %w", err)
	}
	return trips, nil
}

func (r *tripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	set := tripFields(t)
	set["updatedAt"] = now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d tripDoc
	if err := r.col.FindOneAndUpdate(ctx, byID(t.ID), bson.M{"$set": set}, opts).Decode(&d); err != nil {
		return domain.Trip{}, fmt.Errorf("mongostore.TripRepo.Update: %w", translate(err))
	}
	return d.toDomain(), nil
}

// Delete removes the trip's activities, expenses and polls before the trip
// itself, so a failed delete leaves the trip in place to retry.
func (r *tripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	children := bson.M{"tripId": toID(id)}
	for _, col := range []string{colActivities, colExpenses, colPolls} {
		if _, err := r.db.Collection(col).DeleteMany(ctx, children); err != nil {
			return fmt.Errorf("mongostore.TripRepo.Delete: %s: %w", col, err)
		}
	}

	res, err := r.col.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("mongostore.TripRepo.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("mongostore.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *tripRepo) AddMember(ctx context.Context, tripID uuid.UUID, m domain.Member) (domain.Member, error) {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = now()
	}
	doc := newMemberDoc(m)

	// The $ne guard makes the push conditional on the user being absent, so
	// concurrent invitations cannot duplicate a roster entry.
	filter := bson.M{"_id": toID(tripID), "members.userId": bson.M{"$ne": doc.UserID}}
	update := bson.M{
		"$push": bson.M{"members": doc},
		"$set":  bson.M{"updatedAt": now()},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return domain.Member{}, fmt.Errorf("mongostore.TripRepo.AddMember: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.col.CountDocuments(ctx, byID(tripID))
		if err != nil {
			return domain.Member{}, fmt.Errorf("mongostore.TripRepo.AddMember: %w", err)
		}
		if n == 0 {
			return domain.Member{}, fmt.Errorf("mongostore.TripRepo.AddMember: %w", domain.ErrNotFound)
		}
		return domain.Member{}, fmt.Errorf("mongostore.TripRepo.AddMember: %w: user is already a member", domain.ErrConflict)
	}
	return doc.toDomain(), nil
}

func (r *tripRepo) UpdateMemberStatus(ctx context.Context, tripID, userID uuid.UUID, status domain.MemberStatus) (domain.Member, error) {
	filter := bson.M{"_id": toID(tripID), "members.userId": toID(userID)}
	update := bson.M{"$set": bson.M{"members.$.status": string(status), "updatedAt": now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d tripDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&d); err != nil {
		return domain.Member{}, fmt.Errorf("mongostore.TripRepo.UpdateMemberStatus: %w", translate(err))
	}
	m, ok := d.toDomain().FindMember(userID)
	if !ok {
		return domain.Member{}, fmt.Errorf("mongostore.TripRepo.UpdateMemberStatus: %w", domain.ErrNotFound)
	}
	return m, nil
}
