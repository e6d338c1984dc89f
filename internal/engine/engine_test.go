package engine

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/compliance"
	"github.com/azan1ud/landlordshield/internal/deadline"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/regulatory"
	"github.com/azan1ud/landlordshield/internal/storage"
)

const owner = "owner-1"

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

type fixture struct {
	store    *storage.SQLiteStorage
	property *model.Property
	open     *model.Task
	done     *model.Task
	cert     *model.Certificate
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	f := &fixture{store: store}
	f.property = &model.Property{OwnerID: owner, Address: "1 Alpha Street", Postcode: "M1 1AE"}
	require.NoError(t, store.CreateProperty(ctx, f.property))

	f.open = &model.Task{
		OwnerID:    owner,
		PropertyID: &f.property.ID,
		Domain:     model.DomainTenancyRights,
		Key:        "written-statement",
		Title:      "Issue written statement of terms",
		Priority:   model.PriorityCritical,
		DueDate:    date(2026, 5, 1),
	}
	require.NoError(t, store.CreateTask(ctx, f.open))

	f.done = &model.Task{
		OwnerID:     owner,
		Domain:      model.DomainTax,
		Key:         "mtd-software",
		Title:       "Choose compatible software",
		Priority:    model.PriorityHigh,
		DueDate:     date(2026, 2, 1),
		IsCompleted: true,
		CompletedAt: date(2026, 1, 20),
	}
	require.NoError(t, store.CreateTask(ctx, f.done))

	f.cert = &model.Certificate{
		PropertyID: f.property.ID,
		Kind:       "gas_safety",
		IssuedDate: date(2025, 3, 10),
		ExpiryDate: date(2026, 3, 10),
	}
	require.NoError(t, store.CreateCertificate(ctx, f.cert))

	return f
}

func ids(deadlines []model.Deadline) []string {
	out := make([]string, len(deadlines))
	for i, d := range deadlines {
		out[i] = d.ID
	}
	return out
}

func TestComplianceEngine_LoadPortfolio(t *testing.T) {
	f := setup(t)
	e := New(f.store, regulatory.MustDefault())

	p, err := e.LoadPortfolio(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, p.Properties, 1)
	assert.Len(t, p.Tasks, 2)
	assert.Len(t, p.Certificates, 1)

	other, err := e.LoadPortfolio(context.Background(), "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other.Properties)
	assert.Empty(t, other.Tasks)
}

func TestComplianceEngine_Deadlines(t *testing.T) {
	f := setup(t)
	cal := regulatory.MustDefault()
	e := New(f.store, cal)

	feed, err := e.Deadlines(context.Background(), owner, now, nil)
	require.NoError(t, err)

	got := ids(feed)
	assert.Contains(t, got, "task-"+f.open.ID)
	assert.Contains(t, got, "cert-"+f.cert.ID)
	assert.NotContains(t, got, "task-"+f.done.ID, "completed tasks leave the feed")
	assert.True(t, sort.SliceIsSorted(feed, func(i, j int) bool { return feed[i].Date.Before(feed[j].Date) }))

	calendarOnly := e.CalendarDeadlines(now)
	assert.Len(t, feed, len(calendarOnly)+2)

	for _, d := range feed {
		if d.ID == "cert-"+f.cert.ID {
			assert.Equal(t, model.DomainCertificate, d.Domain)
			assert.Contains(t, d.Title, "1 Alpha Street")
		}
		if d.ID == "task-"+f.open.ID {
			assert.True(t, d.IsCritical)
		}
	}
}

func TestComplianceEngine_Upcoming(t *testing.T) {
	f := setup(t)
	e := New(f.store, regulatory.MustDefault())
	ctx := context.Background()

	feed, err := e.Upcoming(ctx, owner, now, nil, 3)
	require.NoError(t, err)
	assert.Len(t, feed, 3)

	empty, err := e.Upcoming(ctx, owner, now, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestComplianceEngine_Compliance(t *testing.T) {
	f := setup(t)
	e := New(f.store, regulatory.MustDefault())
	ctx := context.Background()

	t.Run("account", func(t *testing.T) {
		overview, err := e.Compliance(ctx, owner, nil, now)
		require.NoError(t, err)
		assert.Equal(t, 100, overview.PerDomain[model.DomainTax].Score)
		assert.Equal(t, 0, overview.PerDomain[model.DomainTenancyRights].Score)
		assert.Equal(t, 35, overview.OverallScore)
	})

	t.Run("property scope includes account-wide tasks", func(t *testing.T) {
		overview, err := e.Compliance(ctx, owner, &f.property.ID, now)
		require.NoError(t, err)
		assert.Equal(t, 1, overview.PerDomain[model.DomainTax].TotalCount)
		assert.Equal(t, 1, overview.PerDomain[model.DomainTenancyRights].OutstandingCount)
	})

	t.Run("unknown property", func(t *testing.T) {
		missing := "nope"
		_, err := e.Compliance(ctx, owner, &missing, now)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("property of another owner", func(t *testing.T) {
		other := &model.Property{OwnerID: "owner-2", Address: "9 Other Lane"}
		require.NoError(t, f.store.CreateProperty(ctx, other))

		_, err := e.Compliance(ctx, owner, &other.ID, now)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}

func TestComplianceEngine_ExcludeEmptyDomains(t *testing.T) {
	f := setup(t)
	e := NewWithConfig(f.store, regulatory.MustDefault(), Config{
		Compliance: compliance.Options{ExcludeEmptyDomains: true},
	})

	overview, err := e.Compliance(context.Background(), owner, nil, now)
	require.NoError(t, err)
	// Energy has no tasks: tax 100 * 0.35 / 0.75 rounds to 47.
	assert.Equal(t, 47, overview.OverallScore)
}

func TestComplianceEngine_Threshold(t *testing.T) {
	e := New(nil, regulatory.MustDefault())

	assert.Nil(t, e.Threshold(nil))

	affected := e.Threshold(&model.ThresholdInput{GrossIncomeA: decimal.NewFromInt(60000)})
	require.NotNil(t, affected)
	assert.True(t, affected.IsAffected)

	below := e.Threshold(&model.ThresholdInput{GrossIncomeA: decimal.NewFromInt(10000)})
	require.NotNil(t, below)
	assert.False(t, below.IsAffected)
	assert.Equal(t, model.PhaseNotRequired, below.Phase)
}

func TestComplianceEngine_FilterByThreshold(t *testing.T) {
	f := setup(t)
	e := NewWithConfig(f.store, regulatory.MustDefault(), Config{
		Deadlines: deadline.Options{FilterByThreshold: true},
	})

	feed, err := e.Deadlines(context.Background(), owner, now, &model.ThresholdInput{GrossIncomeA: decimal.NewFromInt(10000)})
	require.NoError(t, err)
	for _, id := range ids(feed) {
		assert.False(t, strings.HasPrefix(id, "tax-"), "calendar tax date %s should be filtered", id)
	}
	assert.Contains(t, ids(feed), "task-"+f.open.ID)
}

func TestComplianceEngine_Report(t *testing.T) {
	f := setup(t)
	e := New(f.store, regulatory.MustDefault())

	report, err := e.Report(context.Background(), owner, now, &model.ThresholdInput{GrossIncomeA: decimal.NewFromInt(60000)})
	require.NoError(t, err)

	assert.Equal(t, now, report.GeneratedAt)
	require.NotNil(t, report.Threshold)
	assert.True(t, report.Threshold.IsAffected)
	require.Len(t, report.Portfolio.Properties, 1)
	assert.Equal(t, f.property.ID, report.Portfolio.Properties[0].Property.ID)
	assert.Equal(t, 35, report.Portfolio.Account.OverallScore)
	assert.NotEmpty(t, report.Deadlines)
}
