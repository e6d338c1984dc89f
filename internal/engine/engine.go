// Package engine assembles the compliance intelligence views from stored records
// and the regulatory calendar.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/compliance"
	"github.com/azan1ud/landlordshield/internal/deadline"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/regulatory"
	"github.com/azan1ud/landlordshield/internal/service"
	"github.com/azan1ud/landlordshield/internal/threshold"
)

// ComplianceEngine reads an owner's records and turns them into deadline feeds,
// readiness overviews and reports. It keeps no per-owner state.
type ComplianceEngine struct {
	storage    service.Storage
	calendar   *regulatory.Calendar
	aggregator *deadline.Aggregator
	config     Config
}

// Config holds the behaviour switches shared by every view.
type Config struct {
	Compliance compliance.Options
	Deadlines  deadline.Options
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{}
}

// New creates an engine with the default configuration.
func New(storage service.Storage, cal *regulatory.Calendar) *ComplianceEngine {
	return NewWithConfig(storage, cal, DefaultConfig())
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(storage service.Storage, cal *regulatory.Calendar, config Config) *ComplianceEngine {
	return &ComplianceEngine{
		storage:    storage,
		calendar:   cal,
		aggregator: deadline.NewAggregator(cal, config.Deadlines),
		config:     config,
	}
}

// Portfolio is everything stored for one owner.
type Portfolio struct {
	Properties   []model.Property
	Tasks        []model.Task
	Certificates []model.Certificate
}

// LoadPortfolio reads all of an owner's properties, tasks and certificates.
func (e *ComplianceEngine) LoadPortfolio(ctx context.Context, ownerID string) (*Portfolio, error) {
	properties, err := e.storage.ListProperties(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	tasks, err := e.storage.ListTasks(ctx, service.TaskFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	certificates, err := e.storage.ListCertificates(ctx, service.CertificateFilter{OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}

	slog.Debug("Loaded portfolio",
		"owner", ownerID,
		"properties", len(properties),
		"tasks", len(tasks),
		"certificates", len(certificates))

	return &Portfolio{Properties: properties, Tasks: tasks, Certificates: certificates}, nil
}

// Threshold places the given income in a rollout phase. A nil input yields nil.
func (e *ComplianceEngine) Threshold(income *model.ThresholdInput) *model.ThresholdStatus {
	if income == nil {
		return nil
	}
	var phases []regulatory.Threshold
	if e.calendar != nil {
		phases = e.calendar.Thresholds()
	}
	status := threshold.Compute(*income, phases)
	return &status
}

// Sources turns a portfolio into aggregator input.
func (e *ComplianceEngine) Sources(p *Portfolio, status *model.ThresholdStatus) deadline.Sources {
	if p == nil {
		return deadline.Sources{Threshold: status}
	}
	return deadline.Sources{
		Threshold:    status,
		Properties:   p.Properties,
		Certificates: p.Certificates,
		Tasks:        p.Tasks,
	}
}

// CalendarDeadlines returns the account-wide regulatory dates only.
func (e *ComplianceEngine) CalendarDeadlines(now time.Time) []model.Deadline {
	return e.aggregator.ListAll(now, nil)
}

// Deadlines returns the owner's full feed.
func (e *ComplianceEngine) Deadlines(ctx context.Context, ownerID string, now time.Time, income *model.ThresholdInput) ([]model.Deadline, error) {
	p, err := e.LoadPortfolio(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sources := e.Sources(p, e.Threshold(income))
	return e.aggregator.ListAll(now, &sources), nil
}

// Upcoming returns the first limit deadlines of the owner's feed.
func (e *ComplianceEngine) Upcoming(ctx context.Context, ownerID string, now time.Time, income *model.ThresholdInput, limit int) ([]model.Deadline, error) {
	p, err := e.LoadPortfolio(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return e.aggregator.ListUpcoming(now, e.Sources(p, e.Threshold(income)), limit), nil
}

// Compliance computes the overview for the owner, or for one property when
// propertyID is set. The property must exist and belong to the owner.
func (e *ComplianceEngine) Compliance(ctx context.Context, ownerID string, propertyID *string, now time.Time) (model.ComplianceOverview, error) {
	if propertyID != nil {
		property, err := e.storage.GetProperty(ctx, *propertyID)
		if err != nil {
			return model.ComplianceOverview{}, fmt.Errorf("failed to load property %s: %w", *propertyID, err)
		}
		if property.OwnerID != ownerID {
			return model.ComplianceOverview{}, fmt.Errorf("property %s %w", *propertyID, common.ErrNotFound)
		}
	}

	tasks, err := e.storage.ListTasks(ctx, service.TaskFilter{OwnerID: ownerID})
	if err != nil {
		return model.ComplianceOverview{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	return compliance.Compute(tasks, propertyID, now, e.config.Compliance), nil
}

// Report builds the complete report consumed by the CSV, Sheets and dashboard views.
func (e *ComplianceEngine) Report(ctx context.Context, ownerID string, now time.Time, income *model.ThresholdInput) (*service.Report, error) {
	p, err := e.LoadPortfolio(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return e.BuildReport(p, now, income), nil
}

// BuildReport computes a report from an already loaded portfolio.
func (e *ComplianceEngine) BuildReport(p *Portfolio, now time.Time, income *model.ThresholdInput) *service.Report {
	status := e.Threshold(income)
	sources := e.Sources(p, status)
	return &service.Report{
		GeneratedAt: now,
		Threshold:   status,
		Portfolio:   compliance.ComputePortfolio(p.Tasks, p.Properties, now, e.config.Compliance),
		Deadlines:   e.aggregator.ListAll(now, &sources),
	}
}
