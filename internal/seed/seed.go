// Package seed creates the default compliance checklist for an account and its properties.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/regulatory"
	"github.com/azan1ud/landlordshield/internal/service"
)

//go:embed checklist.yaml
var defaultChecklist []byte

const calendarPrefix = "calendar:"

// Template describes one checklist task before it is bound to an owner.
type Template struct {
	Key         string `yaml:"key"`
	Domain      string `yaml:"domain"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Priority    string `yaml:"priority"`
	Due         string `yaml:"due"`
}

// Checklist groups templates by scope.
type Checklist struct {
	Account  []Template `yaml:"account"`
	Property []Template `yaml:"property"`
}

// Result counts what a seeding run did.
type Result struct {
	Created int
	Skipped int
}

// LoadChecklist parses a checklist document.
func LoadChecklist(data []byte) (*Checklist, error) {
	var c Checklist
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse checklist: %w", err)
	}
	for _, t := range append(append([]Template{}, c.Account...), c.Property...) {
		if t.Key == "" || t.Title == "" {
			return nil, fmt.Errorf("checklist template %q: key and title are required", t.Key)
		}
	}
	return &c, nil
}

// DefaultChecklist returns the embedded checklist.
func DefaultChecklist() (*Checklist, error) {
	return LoadChecklist(defaultChecklist)
}

// Seeder creates checklist tasks, skipping any the owner already has.
type Seeder struct {
	store     service.Storage
	checklist *Checklist
	dates     map[string]string
	logger    *slog.Logger
}

// NewSeeder binds a checklist to storage. Calendar-relative due dates are
// resolved against cal; a nil cal leaves them unset.
func NewSeeder(store service.Storage, checklist *Checklist, cal *regulatory.Calendar, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	dates := map[string]string{}
	if cal != nil {
		for _, e := range cal.Entries() {
			dates[e.ID] = e.Date
		}
	}
	return &Seeder{store: store, checklist: checklist, dates: dates, logger: logger}
}

// Seed creates the account-wide tasks plus the per-property tasks for each property.
func (s *Seeder) Seed(ctx context.Context, ownerID string, properties []model.Property) (Result, error) {
	var result Result

	if err := s.seedScope(ctx, ownerID, nil, s.checklist.Account, &result); err != nil {
		return result, err
	}
	for i := range properties {
		id := properties[i].ID
		if err := s.seedScope(ctx, ownerID, &id, s.checklist.Property, &result); err != nil {
			return result, err
		}
	}

	s.logger.Info("seeded checklist",
		"owner", ownerID,
		"properties", len(properties),
		"created", result.Created,
		"skipped", result.Skipped)
	return result, nil
}

func (s *Seeder) seedScope(ctx context.Context, ownerID string, propertyID *string, templates []Template, result *Result) error {
	for _, tmpl := range templates {
		exists, err := s.store.TaskExists(ctx, ownerID, propertyID, tmpl.Key)
		if err != nil {
			return fmt.Errorf("failed to check task %s: %w", tmpl.Key, err)
		}
		if exists {
			result.Skipped++
			continue
		}

		task := s.build(ownerID, propertyID, tmpl)
		if err := s.store.CreateTask(ctx, task); err != nil {
			if errors.Is(err, common.ErrDuplicateEntry) {
				result.Skipped++
				continue
			}
			return fmt.Errorf("failed to create task %s: %w", tmpl.Key, err)
		}
		result.Created++
	}
	return nil
}

func (s *Seeder) build(ownerID string, propertyID *string, tmpl Template) *model.Task {
	return &model.Task{
		OwnerID:     ownerID,
		PropertyID:  propertyID,
		Domain:      model.ParseDomain(tmpl.Domain),
		Key:         tmpl.Key,
		Title:       tmpl.Title,
		Description: tmpl.Description,
		Priority:    model.ParsePriority(tmpl.Priority),
		DueDate:     s.resolveDue(tmpl),
	}
}

// resolveDue returns nil for templates without a usable due date.
func (s *Seeder) resolveDue(tmpl Template) *time.Time {
	raw := tmpl.Due
	if raw == "" {
		return nil
	}
	if strings.HasPrefix(raw, calendarPrefix) {
		id := strings.TrimPrefix(raw, calendarPrefix)
		date, ok := s.dates[id]
		if !ok {
			s.logger.Debug("checklist due date refers to unknown calendar entry", "key", tmpl.Key, "entry", id)
			return nil
		}
		raw = date
	}

	t, err := time.Parse(regulatory.DateLayout, raw)
	if err != nil {
		s.logger.Debug("checklist due date is not a date", "key", tmpl.Key, "due", tmpl.Due)
		return nil
	}
	return &t
}
