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

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	FirstName    string    `bson:"firstName"`
	LastName     string    `bson:"lastName"`
	Avatar       string    `bson:"avatar"`
	Bio          string    `bson:"bio"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:           fromID(d.ID),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Avatar:       d.Avatar,
		Bio:          d.Bio,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type userRepo struct {
	col *mongo.Collection
}

var _ repo.UserRepo = (*userRepo)(nil)

// NewUserRepo constructs a UserRepo over the users collection of db.
func NewUserRepo(db *mongo.Database) repo.UserRepo {
	return &userRepo{col: db.Collection(colUsers)}
}

func (r *userRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	ts := now()
	d := userDoc{
		ID:           toID(uuid.New()),
		Email:        domain.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       u.Avatar,
		Bio:          u.Bio,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return domain.User{}, fmt.Errorf("mongostore.UserRepo.Create: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	var d userDoc
	if err := r.col.FindOne(ctx, byID(id)).Decode(&d); err != nil {
		return domain.User{}, fmt.Errorf("mongostore.UserRepo.GetByID: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var d userDoc
	filter := bson.M{"email": domain.NormalizeEmail(email)}
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		return domain.User{}, fmt.Errorf("mongostore.UserRepo.GetByEmail: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *userRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	update := bson.M{"$set": bson.M{
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"avatar":    u.Avatar,
		"bio":       u.Bio,
		"updatedAt": now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d userDoc
	if err := r.col.FindOneAndUpdate(ctx, byID(u.ID), update, opts).Decode(&d); err != nil {
		return domain.User{}, fmt.Errorf("mongostore.UserRepo.Update: %w", translate(err))
	}
	return d.toDomain(), nil
}

func (r *userRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = toID(id)
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return nil, fmt.Errorf("mongostore.UserRepo.ListByIDs: %w", err)
	}
	users, err := decodeAll(ctx, cur, userDoc.toDomain)
	if err != nil {
		return nil, fmt.Errorf("mongostore.UserRepo.ListByIDs: %w", err)
	}
	return users, nil
}
