package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoURI returns TEST_MONGO_URI, skipping the test when it is unset.
func MongoURI(t *testing.T) string {
	t.Helper()
	return envOrSkip(t, MongoEnv)
}

// NewMongoDatabase returns a freshly named database on the server at
// TEST_MONGO_URI. The database is dropped and the client disconnected when
// the test finishes.
func NewMongoDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := MongoURI(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("testutil.NewMongoDatabase: connect: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Fatalf("testutil.NewMongoDatabase: ping: %v", err)
	}

	db := client.Database("planoraa_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx := context.Background()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
