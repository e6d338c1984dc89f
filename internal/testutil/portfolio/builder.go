// Package portfolio builds properties, tasks and certificates for tests
// through a fluent API.
//
// Example usage:
//
//	p, err := portfolio.NewBuilder("owner-1").
//		WithProperty("alpha", "1 Alpha Street", "M1 1AE").
//		WithTask(portfolio.TaskSpec{Property: "alpha", Domain: model.DomainEnergy, Title: "Book EPC"}).
//		Build(ctx, store)
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/service"
)

// Ref names a property inside a builder so tasks and certificates can point at it
// before its database ID exists.
type Ref string

// TaskSpec describes a task. An empty Property makes it account-wide; an empty
// Key is derived from the title.
type TaskSpec struct {
	Due       *time.Time
	Property  Ref
	Domain    model.Domain
	Key       string
	Title     string
	Priority  model.Priority
	Completed bool
}

// CertificateSpec describes a certificate. An empty Status is derived from the expiry.
type CertificateSpec struct {
	Issued   *time.Time
	Expiry   *time.Time
	Property Ref
	Kind     string
	Status   model.CertificateStatus
}

// Portfolio is what a builder created, keyed for lookup in assertions.
type Portfolio struct {
	Properties   map[Ref]*model.Property
	Tasks        map[string]*model.Task
	Certificates []*model.Certificate
	OwnerID      string
}

// Builder provides a fluent interface for constructing test portfolios.
type Builder interface {
	// WithProperty adds a property addressable as ref.
	WithProperty(ref Ref, address, postcode string) Builder

	// WithTask adds a checklist task.
	WithTask(spec TaskSpec) Builder

	// WithCertificate adds a certificate to a property added earlier.
	WithCertificate(spec CertificateSpec) Builder

	// WithFixture applies a predefined portfolio.
	WithFixture(fixture Fixture) Builder

	// Build writes everything to storage in one transaction.
	Build(ctx context.Context, store service.Storage) (*Portfolio, error)
}

type propertySpec struct {
	ref      Ref
	address  string
	postcode string
}

type builder struct {
	ownerID      string
	properties   []propertySpec
	tasks        []TaskSpec
	certificates []CertificateSpec
}

// NewBuilder creates an empty builder for ownerID.
func NewBuilder(ownerID string) Builder {
	return &builder{ownerID: ownerID}
}

func (b *builder) WithProperty(ref Ref, address, postcode string) Builder {
	b.properties = append(b.properties, propertySpec{ref: ref, address: address, postcode: postcode})
	return b
}

func (b *builder) WithTask(spec TaskSpec) Builder {
	b.tasks = append(b.tasks, spec)
	return b
}

func (b *builder) WithCertificate(spec CertificateSpec) Builder {
	b.certificates = append(b.certificates, spec)
	return b
}

func (b *builder) WithFixture(fixture Fixture) Builder {
	return fixture.Apply(b)
}

func (b *builder) Build(ctx context.Context, store service.Storage) (*Portfolio, error) {
	p := &Portfolio{
		OwnerID:    b.ownerID,
		Properties: make(map[Ref]*model.Property, len(b.properties)),
		Tasks:      make(map[string]*model.Task, len(b.tasks)),
	}

	tx, err := store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, spec := range b.properties {
		if _, dup := p.Properties[spec.ref]; dup {
			return nil, fmt.Errorf("property %q added twice", spec.ref)
		}
		property := &model.Property{OwnerID: b.ownerID, Address: spec.address, Postcode: spec.postcode}
		if err := tx.CreateProperty(ctx, property); err != nil {
			return nil, fmt.Errorf("property %q: %w", spec.ref, err)
		}
		p.Properties[spec.ref] = property
	}

	for _, spec := range b.tasks {
		task, err := b.task(p, spec)
		if err != nil {
			return nil, err
		}
		if err := tx.CreateTask(ctx, task); err != nil {
			return nil, fmt.Errorf("task %q: %w", task.Key, err)
		}
		p.Tasks[task.Key] = task
	}

	for _, spec := range b.certificates {
		property, ok := p.Properties[spec.Property]
		if !ok {
			return nil, fmt.Errorf("certificate %q: unknown property %q", spec.Kind, spec.Property)
		}
		cert := &model.Certificate{
			PropertyID: property.ID,
			Kind:       spec.Kind,
			IssuedDate: spec.Issued,
			ExpiryDate: spec.Expiry,
			Status:     spec.Status,
		}
		if err := tx.CreateCertificate(ctx, cert); err != nil {
			return nil, fmt.Errorf("certificate %q: %w", spec.Kind, err)
		}
		p.Certificates = append(p.Certificates, cert)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit portfolio: %w", err)
	}
	return p, nil
}

func (b *builder) task(p *Portfolio, spec TaskSpec) (*model.Task, error) {
	task := &model.Task{
		OwnerID:  b.ownerID,
		Domain:   spec.Domain,
		Key:      spec.Key,
		Title:    spec.Title,
		Priority: spec.Priority,
		DueDate:  spec.Due,
	}
	if task.Key == "" {
		task.Key = strings.ToLower(strings.Join(strings.Fields(spec.Title), "-"))
	}
	if spec.Property != "" {
		property, ok := p.Properties[spec.Property]
		if !ok {
			return nil, fmt.Errorf("task %q: unknown property %q", task.Key, spec.Property)
		}
		task.PropertyID = &property.ID
	}
	if spec.Completed {
		task.IsCompleted = true
		completedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		task.CompletedAt = &completedAt
	}
	return task, nil
}
