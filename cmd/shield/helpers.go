package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/compliance"
	"github.com/azan1ud/landlordshield/internal/config"
	"github.com/azan1ud/landlordshield/internal/deadline"
	"github.com/azan1ud/landlordshield/internal/engine"
	"github.com/azan1ud/landlordshield/internal/regulatory"
	"github.com/azan1ud/landlordshield/internal/storage"
)

const dateLayout = "2006-01-02"

// loadSettings resolves the application settings from viper.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("invalid configuration", err)
	}
	return settings, nil
}

// initStorage opens the database, creating its directory, and runs migrations.
func initStorage(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	dbPath := settings.DatabasePath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newEngine builds the compliance engine with the configured behaviour switches.
func newEngine(store *storage.SQLiteStorage, settings *config.Settings) *engine.ComplianceEngine {
	return engine.NewWithConfig(store, regulatory.MustDefault(), engine.Config{
		Compliance: compliance.Options{ExcludeEmptyDomains: settings.ExcludeEmptyDomains},
		Deadlines:  deadline.Options{FilterByThreshold: settings.FilterByThreshold},
	})
}

// openEngine loads settings, storage and engine in one step. The returned
// cleanup closes the database.
func openEngine(ctx context.Context) (*config.Settings, *storage.SQLiteStorage, *engine.ComplianceEngine, func(), error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, nil, nil, err
	}

	store, err := initStorage(ctx, settings)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	cleanup := func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close database", "error", closeErr)
		}
	}
	return settings, store, newEngine(store, settings), cleanup, nil
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, common.ErrInvalidDate)
	}
	return &t, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
