// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if MongoDB is not available.
package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"inkwell/internal/database"
)

// testMongoURI returns the MongoDB connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testMongoURI() string {
	return envOr("MONGODB_URI", "mongodb://localhost:27017")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB connects to a dedicated test database and ensures its indexes.
// If MongoDB is unavailable, the test is skipped. The database is
// dropped when the test finishes so runs stay independent.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, testMongoURI(), "inkwell_test")
	if err != nil {
		t.Skipf("skipping integration test: MongoDB not reachable: %v", err)
	}

	if err := database.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("failed to ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		db.Drop(cleanupCtx)
		database.Disconnect(cleanupCtx, db)
	})
	return db
}
