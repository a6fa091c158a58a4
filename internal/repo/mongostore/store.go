// Package mongostore implements the repo interfaces on MongoDB. Trips embed
// their roster, expenses their participants and polls their votes, so every
// aggregate is read and written as a single document.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/repo"
)

const (
	colUsers      = "users"
	colTrips      = "trips"
	colActivities = "activities"
	colExpenses   = "expenses"
	colPolls      = "polls"
)

// Store owns the client connection and hands out repos bound to one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, verifies the connection and selects database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore.Open: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongostore.Open: ping: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Database returns the database the store's repos operate on.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Ping reports whether the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the repos rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colTrips: {
			{Keys: bson.D{{Key: "ownerId", Value: 1}}},
			{Keys: bson.D{{Key: "members.userId", Value: 1}}},
		},
		colActivities: {
			{Keys: bson.D{{Key: "tripId", Value: 1}, {Key: "sortOrder", Value: 1}, {Key: "startTime", Value: 1}}},
		},
		colExpenses: {
			{Keys: bson.D{{Key: "tripId", Value: 1}, {Key: "date", Value: -1}}},
		},
		colPolls: {
			{Keys: bson.D{{Key: "tripId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for col, models := range specs {
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongostore.EnsureIndexes: %s: %w", col, err)
		}
	}
	return nil
}

// Repos returns every repo bound to the store's database.
func (s *Store) Repos() (repo.UserRepo, repo.TripRepo, repo.ActivityRepo, repo.ExpenseRepo, repo.PollRepo) {
	return NewUserRepo(s.db), NewTripRepo(s.db), NewActivityRepo(s.db), NewExpenseRepo(s.db), NewPollRepo(s.db)
}

// translate maps driver errors onto the domain sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: duplicate key", domain.ErrConflict)
	}
	return err
}

// now returns the current time at the precision Mongo stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func toID(id uuid.UUID) string {
	return id.String()
}

func fromID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func byID(id uuid.UUID) bson.M {
	return bson.M{"_id": toID(id)}
}

// decodeAll drains cur into docs and converts each with fn.
func decodeAll[D any, T any](ctx context.Context, cur *mongo.Cursor, fn func(D) T) ([]T, error) {
	defer cur.Close(ctx)

	out := []T{}
	for cur.Next(ctx) {
		var d D
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, fn(d))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
