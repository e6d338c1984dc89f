// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/azan1ud/landlordshield/internal/model"
)

// TaskFilter narrows a task query.
type TaskFilter struct {
	// PropertyID restricts the query to one property. Account-wide tasks are
	// included as well when IncludeAccountWide is set.
	PropertyID         *string
	Domain             model.Domain
	OwnerID            string
	IncludeAccountWide bool
	OutstandingOnly    bool
}

// CertificateFilter narrows a certificate query.
type CertificateFilter struct {
	PropertyID *string
	OwnerID    string
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Property operations
	CreateProperty(ctx context.Context, property *model.Property) error
	GetProperty(ctx context.Context, id string) (*model.Property, error)
	ListProperties(ctx context.Context, ownerID string) ([]model.Property, error)

	// Task operations
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	TaskExists(ctx context.Context, ownerID string, propertyID *string, key string) (bool, error)
	SetTaskCompletion(ctx context.Context, id string, completed bool, at time.Time) error

	// Certificate operations
	CreateCertificate(ctx context.Context, certificate *model.Certificate) error
	ListCertificates(ctx context.Context, filter CertificateFilter) ([]model.Certificate, error)

	// Database management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	// Include all Storage methods for use within transaction
	Storage
}

// ReportWriter publishes a compliance report somewhere outside the process.
type ReportWriter interface {
	Write(ctx context.Context, report *Report) error
}

// Report is everything a report consumer needs: the scores and the feed they explain.
type Report struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Threshold   *model.ThresholdStatus  `json:"threshold,omitempty"`
	Portfolio   model.PortfolioOverview `json:"portfolio"`
	Deadlines   []model.Deadline        `json:"deadlines"`
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	Operation    string
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
