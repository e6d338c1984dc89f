// Package testutil provides test utilities for the landlordshield project.
// It offers in-memory databases seeded with portfolio fixtures so tests stay
// isolated from each other.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/service"
	"github.com/azan1ud/landlordshield/internal/storage"
	"github.com/azan1ud/landlordshield/internal/testutil/portfolio"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage   *storage.SQLiteStorage
	Portfolio *portfolio.Portfolio
	t         *testing.T
}

// SetupTestDB creates a new migrated in-memory database with no data.
// It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{Storage: store, t: t}
}

// SetupTestDBWithBuilder creates a test database and seeds it with the
// portfolio the builder describes.
//
// Example:
//
//	db := testutil.SetupTestDBWithBuilder(t, "owner-1", func(b portfolio.Builder) portfolio.Builder {
//		return b.WithFixture(portfolio.FixtureSingleLet)
//	})
func SetupTestDBWithBuilder(t *testing.T, ownerID string, configure func(portfolio.Builder) portfolio.Builder) *TestDB {
	t.Helper()

	db := SetupTestDB(t)
	builder := portfolio.NewBuilder(ownerID)
	if configure != nil {
		builder = configure(builder)
	}

	p, err := builder.Build(context.Background(), db.Storage)
	if err != nil {
		t.Fatalf("failed to build portfolio: %v", err)
	}
	db.Portfolio = p
	return db
}

// MustProperty returns the property built under ref or fails the test.
func (db *TestDB) MustProperty(ref portfolio.Ref) *model.Property {
	db.t.Helper()
	p, ok := db.Portfolio.Properties[ref]
	if !ok {
		db.t.Fatalf("no property %q in portfolio", ref)
	}
	return p
}

// MustTask returns the task built with key or fails the test.
func (db *TestDB) MustTask(key string) *model.Task {
	db.t.Helper()
	task, ok := db.Portfolio.Tasks[key]
	if !ok {
		db.t.Fatalf("no task %q in portfolio", key)
	}
	return task
}

// WithTransaction executes fn within a transaction that is always rolled back.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	ctx := context.Background()
	tx, err := db.Storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
