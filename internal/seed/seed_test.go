package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/regulatory"
	"github.com/azan1ud/landlordshield/internal/service"
	"github.com/azan1ud/landlordshield/internal/storage"
)

func newStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestDefaultChecklist(t *testing.T) {
	c, err := DefaultChecklist()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Account)
	assert.NotEmpty(t, c.Property)

	keys := map[string]bool{}
	for _, tmpl := range append(append([]Template{}, c.Account...), c.Property...) {
		assert.False(t, keys[tmpl.Key], "duplicate key %s", tmpl.Key)
		keys[tmpl.Key] = true
		assert.True(t, model.ParseDomain(tmpl.Domain).IsScored(), "template %s should be in a scored domain", tmpl.Key)
	}
}

func TestLoadChecklist_RequiresKey(t *testing.T) {
	_, err := LoadChecklist([]byte("account:\n  - title: No key\n"))
	assert.Error(t, err)
}

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	property := &model.Property{OwnerID: "owner", Address: "1 Alpha Street"}
	require.NoError(t, store.CreateProperty(ctx, property))

	checklist, err := DefaultChecklist()
	require.NoError(t, err)
	seeder := NewSeeder(store, checklist, regulatory.MustDefault(), nil)

	first, err := seeder.Seed(ctx, "owner", []model.Property{*property})
	require.NoError(t, err)
	assert.Equal(t, len(checklist.Account)+len(checklist.Property), first.Created)
	assert.Zero(t, first.Skipped)

	second, err := seeder.Seed(ctx, "owner", []model.Property{*property})
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, first.Created, second.Skipped)

	tasks, err := store.ListTasks(ctx, service.TaskFilter{OwnerID: "owner"})
	require.NoError(t, err)
	assert.Len(t, tasks, first.Created)

	byKey := map[string]model.Task{}
	for _, task := range tasks {
		byKey[task.Key] = task
	}

	software := byKey["mtd-software"]
	require.NotNil(t, software.DueDate)
	assert.Equal(t, time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC), software.DueDate.UTC())
	assert.True(t, software.IsAccountWide())
	assert.Equal(t, model.PriorityHigh, software.Priority)

	plan := byKey["epc-improvement-plan"]
	require.NotNil(t, plan.PropertyID)
	assert.Equal(t, property.ID, *plan.PropertyID)
	assert.Equal(t, model.PriorityCritical, plan.Priority)

	assert.Nil(t, byKey["mtd-digital-records"].DueDate)
}

func TestSeeder_ResolveDue(t *testing.T) {
	seeder := NewSeeder(nil, &Checklist{}, regulatory.MustDefault(), nil)

	got := seeder.resolveDue(Template{Key: "a", Due: "2027-01-31"})
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, seeder.resolveDue(Template{Key: "b", Due: "calendar:no-such-entry"}))
	assert.Nil(t, seeder.resolveDue(Template{Key: "c", Due: "soon"}))

	noCalendar := NewSeeder(nil, &Checklist{}, nil, nil)
	assert.Nil(t, noCalendar.resolveDue(Template{Key: "d", Due: "calendar:tax-2026-27-q2"}))
}
