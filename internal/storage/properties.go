package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/model"
)

// CreateProperty saves a property, assigning an ID when none is set.
func (s *SQLiteStorage) CreateProperty(ctx context.Context, property *model.Property) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProperty(property); err != nil {
		return err
	}
	return createProperty(ctx, s.db, property)
}

func createProperty(ctx context.Context, q querier, property *model.Property) error {
	if property.ID == "" {
		property.ID = uuid.NewString()
	}
	if property.CreatedAt.IsZero() {
		property.CreatedAt = time.Now().UTC()
	}
	property.Address = strings.TrimSpace(property.Address)
	property.Postcode = common.NormalizePostcode(property.Postcode)

	_, err := q.ExecContext(ctx, `
		INSERT INTO properties (id, owner_id, address, postcode, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		property.ID, property.OwnerID, property.Address, property.Postcode, property.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// GetProperty retrieves a property by ID.
func (s *SQLiteStorage) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getProperty(ctx, s.db, id)
}

func getProperty(ctx context.Context, q querier, id string) (*model.Property, error) {
	var property model.Property
	err := q.QueryRowContext(ctx, `
		SELECT id, owner_id, address, postcode, created_at
		FROM properties
		WHERE id = ?`, id).Scan(
		&property.ID, &property.OwnerID, &property.Address, &property.Postcode, &property.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &property, nil
}

// ListProperties returns the owner's properties ordered by address.
// An empty owner lists every property.
func (s *SQLiteStorage) ListProperties(ctx context.Context, ownerID string) ([]model.Property, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listProperties(ctx, s.db, ownerID)
}

func listProperties(ctx context.Context, q querier, ownerID string) ([]model.Property, error) {
	query := `SELECT id, owner_id, address, postcode, created_at FROM properties`
	var args []any
	if ownerID != "" {
		query += ` WHERE owner_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY address, id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	properties := []model.Property{}
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Address, &p.Postcode, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}
