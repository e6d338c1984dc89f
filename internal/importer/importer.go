// Package importer loads a portfolio of properties, certificates and tasks from YAML.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/service"
)

const dateLayout = "2006-01-02"

// Document is the portfolio file layout.
type Document struct {
	Properties []PropertyRecord `yaml:"properties"`
	// Tasks without a property are account-wide.
	Tasks []TaskRecord `yaml:"tasks"`
}

// PropertyRecord is one property with its certificates and tasks.
type PropertyRecord struct {
	Address      string              `yaml:"address"`
	Postcode     string              `yaml:"postcode"`
	Certificates []CertificateRecord `yaml:"certificates"`
	Tasks        []TaskRecord        `yaml:"tasks"`
}

// CertificateRecord is a certificate as written in the file.
type CertificateRecord struct {
	Kind   string `yaml:"kind"`
	Issued string `yaml:"issued"`
	Expiry string `yaml:"expiry"`
}

// TaskRecord is a task as written in the file.
type TaskRecord struct {
	Key         string `yaml:"key"`
	Domain      string `yaml:"domain"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Priority    string `yaml:"priority"`
	Due         string `yaml:"due"`
	Completed   string `yaml:"completed"`
}

// Progress receives one tick per imported record.
type Progress interface {
	Add(n int) error
}

// Result counts what an import did.
type Result struct {
	Properties   int
	Certificates int
	Tasks        int
	Skipped      int
}

// Parse reads a portfolio document.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, fmt.Errorf("failed to parse portfolio: %w", err)
	}
	return &doc, nil
}

// Count returns how many records the document holds.
func (d *Document) Count() int {
	n := len(d.Tasks)
	for _, p := range d.Properties {
		n += 1 + len(p.Certificates) + len(p.Tasks)
	}
	return n
}

// Importer writes documents to storage in a single transaction.
type Importer struct {
	store  service.Storage
	logger *slog.Logger
	now    time.Time
}

// New creates an importer. now decides the status of imported certificates.
func New(store service.Storage, now time.Time, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, now: now, logger: logger}
}

// Import writes doc for ownerID. Properties that already exist with the same
// address and postcode are reused, and tasks whose key already exists in the
// same scope are skipped. Nothing is written if any record is invalid.
func (im *Importer) Import(ctx context.Context, ownerID string, doc *Document, progress Progress) (Result, error) {
	var result Result

	tx, err := im.store.BeginTx(ctx)
	if err != nil {
		return result, err
	}
	defer func() {
		// Rollback after a successful commit is a no-op error.
		_ = tx.Rollback()
	}()

	existing, err := tx.ListProperties(ctx, ownerID)
	if err != nil {
		return result, err
	}
	known := make(map[string]string, len(existing))
	for _, p := range existing {
		known[propertyKey(p.Address, p.Postcode)] = p.ID
	}

	tick := func() {
		if progress == nil {
			return
		}
		if err := progress.Add(1); err != nil {
			im.logger.Debug("failed to update progress", "error", err)
		}
	}

	for i, rec := range doc.Properties {
		id, ok := known[propertyKey(rec.Address, rec.Postcode)]
		if !ok {
			property := &model.Property{OwnerID: ownerID, Address: rec.Address, Postcode: rec.Postcode}
			if err := tx.CreateProperty(ctx, property); err != nil {
				return result, fmt.Errorf("property %d (%s): %w", i+1, rec.Address, err)
			}
			id = property.ID
			known[propertyKey(rec.Address, rec.Postcode)] = id
			result.Properties++
		}
		tick()

		for j, c := range rec.Certificates {
			cert, err := im.certificate(id, c)
			if err != nil {
				return result, fmt.Errorf("property %d certificate %d: %w", i+1, j+1, err)
			}
			if err := tx.CreateCertificate(ctx, cert); err != nil {
				return result, fmt.Errorf("property %d certificate %d: %w", i+1, j+1, err)
			}
			result.Certificates++
			tick()
		}

		propertyID := id
		if err := im.importTasks(ctx, tx, ownerID, &propertyID, rec.Tasks, &result, tick); err != nil {
			return result, fmt.Errorf("property %d: %w", i+1, err)
		}
	}

	if err := im.importTasks(ctx, tx, ownerID, nil, doc.Tasks, &result, tick); err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit import: %w", err)
	}

	im.logger.Info("portfolio imported",
		"owner", ownerID,
		"properties", result.Properties,
		"certificates", result.Certificates,
		"tasks", result.Tasks,
		"skipped", result.Skipped)
	return result, nil
}

func (im *Importer) importTasks(ctx context.Context, tx service.Transaction, ownerID string, propertyID *string, records []TaskRecord, result *Result, tick func()) error {
	for i, rec := range records {
		task, err := buildTask(ownerID, propertyID, rec)
		if err != nil {
			return fmt.Errorf("task %d (%s): %w", i+1, rec.Key, err)
		}

		exists, err := tx.TaskExists(ctx, ownerID, propertyID, task.Key)
		if err != nil {
			return err
		}
		if exists {
			result.Skipped++
			tick()
			continue
		}

		if err := tx.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("task %d (%s): %w", i+1, rec.Key, err)
		}
		result.Tasks++
		tick()
	}
	return nil
}

func (im *Importer) certificate(propertyID string, rec CertificateRecord) (*model.Certificate, error) {
	issued, err := parseDate(rec.Issued)
	if err != nil {
		return nil, err
	}
	expiry, err := parseDate(rec.Expiry)
	if err != nil {
		return nil, err
	}
	return &model.Certificate{
		PropertyID: propertyID,
		Kind:       strings.TrimSpace(rec.Kind),
		IssuedDate: issued,
		ExpiryDate: expiry,
		Status:     model.DeriveCertificateStatus(expiry, im.now),
	}, nil
}

func buildTask(ownerID string, propertyID *string, rec TaskRecord) (*model.Task, error) {
	due, err := parseDate(rec.Due)
	if err != nil {
		return nil, err
	}
	completed, err := parseDate(rec.Completed)
	if err != nil {
		return nil, err
	}

	key := rec.Key
	if key == "" {
		key = Slug(rec.Title)
	}

	return &model.Task{
		OwnerID:     ownerID,
		PropertyID:  propertyID,
		Domain:      model.ParseDomain(rec.Domain),
		Key:         key,
		Title:       rec.Title,
		Description: rec.Description,
		Priority:    model.ParsePriority(rec.Priority),
		DueDate:     due,
		CompletedAt: completed,
		IsCompleted: completed != nil,
	}, nil
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidDate, raw)
	}
	return &t, nil
}

func propertyKey(address, postcode string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " ")) + "|" + common.NormalizePostcode(postcode)
}

// Slug turns a title into a task key.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
