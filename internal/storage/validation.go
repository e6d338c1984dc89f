// Package storage provides the SQLite persistence layer for properties, tasks and certificates.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidProperty    = errors.New("invalid property")
	ErrInvalidTask        = errors.New("invalid task")
	ErrInvalidCertificate = errors.New("invalid certificate")
)

// Lookup errors wrap the common sentinels so callers can match either.
var (
	ErrPropertyNotFound = fmt.Errorf("property %w", common.ErrNotFound)
	ErrTaskNotFound     = fmt.Errorf("task %w", common.ErrNotFound)
	ErrDuplicateTask    = fmt.Errorf("task key %w", common.ErrDuplicateEntry)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateProperty(property *model.Property) error {
	if property == nil {
		return fmt.Errorf("%w: property", ErrNilParameter)
	}
	if strings.TrimSpace(property.OwnerID) == "" {
		return fmt.Errorf("%w: missing owner ID", ErrInvalidProperty)
	}
	if strings.TrimSpace(property.Address) == "" {
		return fmt.Errorf("%w: missing address", ErrInvalidProperty)
	}
	if property.Postcode != "" && !common.IsUKPostcode(property.Postcode) {
		return fmt.Errorf("%w: malformed postcode %q", ErrInvalidProperty, property.Postcode)
	}
	return nil
}

func validateTask(task *model.Task) error {
	if task == nil {
		return fmt.Errorf("%w: task", ErrNilParameter)
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	if task.PropertyID != nil && strings.TrimSpace(*task.PropertyID) == "" {
		return fmt.Errorf("%w: empty property ID", ErrInvalidTask)
	}
	return nil
}

func validateCertificate(certificate *model.Certificate) error {
	if certificate == nil {
		return fmt.Errorf("%w: certificate", ErrNilParameter)
	}
	if strings.TrimSpace(certificate.PropertyID) == "" {
		return fmt.Errorf("%w: missing property ID", ErrInvalidCertificate)
	}
	if strings.TrimSpace(certificate.Kind) == "" {
		return fmt.Errorf("%w: missing kind", ErrInvalidCertificate)
	}
	if certificate.IssuedDate != nil && certificate.ExpiryDate != nil &&
		certificate.ExpiryDate.Before(*certificate.IssuedDate) {
		return fmt.Errorf("%w: expiry date before issued date", ErrInvalidCertificate)
	}
	return nil
}
