package deadline

import (
	"testing"
	"time"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/regulatory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testSources() Sources {
	return Sources{
		Properties: []model.Property{{ID: "p1", Address: "12 High Street", Postcode: "LS1 1AA"}},
		Certificates: []model.Certificate{
			{ID: "c1", PropertyID: "p1", Kind: "gas_safety", Status: model.CertificateExpired, ExpiryDate: day(2026, 10, 15)},
			{ID: "c2", PropertyID: "p1", Kind: "epc", Status: model.CertificateMissing},
		},
		Tasks: []model.Task{
			{ID: "t1", PropertyID: strPtr("p1"), Domain: model.DomainEnergy, Title: "Book EPC", DueDate: day(2026, 12, 1)},
			{ID: "t2", Domain: model.DomainTax, Title: "Register", DueDate: day(2026, 1, 1), IsCompleted: true, CompletedAt: day(2026, 1, 1)},
			{ID: "t3", Domain: model.DomainTax, Title: "Pick software", Priority: model.PriorityCritical, DueDate: day(2026, 11, 1)},
			{ID: "t4", Domain: model.DomainTenancyRights, Title: "No due date"},
		},
	}
}

func assertSorted(t *testing.T, deadlines []model.Deadline) {
	t.Helper()
	for i := 1; i < len(deadlines); i++ {
		assert.False(t, deadlines[i].Date.Before(deadlines[i-1].Date),
			"%s sorted after %s", deadlines[i].ID, deadlines[i-1].ID)
	}
}

func TestListAll_CalendarOnly(t *testing.T) {
	cal := regulatory.MustDefault()
	agg := NewAggregator(cal, Options{})

	got := agg.ListAll(testNow, nil)
	require.Len(t, got, len(cal.Entries()))
	assertSorted(t, got)

	for _, d := range got {
		assert.False(t, d.Date.IsZero())
		assert.NotEqual(t, model.DomainCertificate, d.Domain)
	}
}

func TestListAll_MergesSources(t *testing.T) {
	cal := regulatory.MustDefault()
	agg := NewAggregator(cal, Options{})

	got := agg.ListAll(testNow, &Sources{
		Properties:   testSources().Properties,
		Certificates: testSources().Certificates,
		Tasks:        testSources().Tasks,
	})

	// calendar + one dated certificate + two outstanding dated tasks
	require.Len(t, got, len(cal.Entries())+3)
	assertSorted(t, got)

	byID := make(map[string]model.Deadline, len(got))
	for _, d := range got {
		_, dup := byID[d.ID]
		require.False(t, dup, "duplicate id %s", d.ID)
		byID[d.ID] = d
	}

	cert := byID["cert-c1"]
	assert.True(t, cert.IsOverdue)
	assert.True(t, cert.IsCritical)
	assert.Contains(t, cert.Title, "12 High Street, LS1 1AA")

	assert.True(t, byID["task-t3"].IsCritical)
	assert.NotContains(t, byID, "task-t2")
	assert.NotContains(t, byID, "task-t4")
	assert.NotContains(t, byID, "cert-c2")
}

func TestListAll_DropsDuplicateIDs(t *testing.T) {
	agg := NewAggregator(nil, Options{})
	task := model.Task{ID: "t1", Title: "Dup", DueDate: day(2026, 12, 1)}

	got := agg.ListAll(testNow, &Sources{Tasks: []model.Task{task, task}})
	assert.Len(t, got, 1)
}

func TestListAll_SkipsMalformedEntries(t *testing.T) {
	cal, err := regulatory.Load([]byte(`
version: test
energy:
  key_dates:
    - id: good
      title: Good
      date: "2027-01-01"
      severity: critical
    - id: bad
      title: Bad
      date: "next spring"
      severity: critical
    - id: empty
      title: Empty
      severity: high
`))
	require.NoError(t, err)

	got := NewAggregator(cal, Options{}).ListAll(testNow, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "energy-good", got[0].ID)
	assert.True(t, got[0].IsCritical)
}

func TestListAll_Deterministic(t *testing.T) {
	agg := NewAggregator(regulatory.MustDefault(), Options{})
	src := testSources()

	first := agg.ListAll(testNow, &src)
	second := agg.ListAll(testNow, &src)
	assert.Equal(t, first, second)
}

func TestListAll_DoesNotMutateInputs(t *testing.T) {
	agg := NewAggregator(regulatory.MustDefault(), Options{})
	src := testSources()
	before := testSources()

	_ = agg.ListAll(testNow, &src)
	assert.Equal(t, before, src)
}

func TestListUpcoming(t *testing.T) {
	agg := NewAggregator(regulatory.MustDefault(), Options{})

	for _, limit := range []int{1, 5, 10, 1000} {
		got := agg.ListUpcoming(testNow, testSources(), limit)
		assert.LessOrEqual(t, len(got), limit)
		assertSorted(t, got)
	}

	assert.Empty(t, agg.ListUpcoming(testNow, testSources(), 0))
	assert.Empty(t, agg.ListUpcoming(testNow, testSources(), -3))
}

func TestListUpcoming_OverdueFirst(t *testing.T) {
	agg := NewAggregator(nil, Options{})
	src := Sources{Tasks: []model.Task{
		{ID: "later", Title: "Later", DueDate: day(2027, 1, 1)},
		{ID: "late", Title: "Late", DueDate: day(2026, 9, 1)},
		{ID: "soon", Title: "Soon", DueDate: day(2026, 10, 20)},
	}}

	got := agg.ListUpcoming(testNow, src, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "task-late", got[0].ID)
	assert.True(t, got[0].IsOverdue)
	assert.Equal(t, "task-soon", got[1].ID)
}

func TestListAll_FilterByThreshold(t *testing.T) {
	cal := regulatory.MustDefault()
	agg := NewAggregator(cal, Options{FilterByThreshold: true})

	countTax := func(ds []model.Deadline) int {
		n := 0
		for _, d := range ds {
			if d.Domain == model.DomainTax {
				n++
			}
		}
		return n
	}

	t.Run("no threshold keeps everything", func(t *testing.T) {
		assert.Equal(t, 10, countTax(agg.ListAll(testNow, nil)))
	})

	t.Run("unaffected drops calendar tax dates", func(t *testing.T) {
		got := agg.ListAll(testNow, &Sources{Threshold: &model.ThresholdStatus{IsAffected: false}})
		assert.Zero(t, countTax(got))
	})

	t.Run("affected from a later phase drops earlier dates", func(t *testing.T) {
		effective := time.Date(2027, 4, 6, 0, 0, 0, 0, time.UTC)
		got := agg.ListAll(testNow, &Sources{Threshold: &model.ThresholdStatus{
			IsAffected: true, EffectiveDate: &effective,
		}})
		for _, d := range got {
			if d.Domain == model.DomainTax {
				assert.False(t, d.Date.Before(effective), d.ID)
			}
		}
		// 2026-27 Q4, the four 2027-28 quarters and both final declarations remain
		assert.Equal(t, 7, countTax(got))
	})

	t.Run("user tasks are never filtered", func(t *testing.T) {
		got := agg.ListAll(testNow, &Sources{
			Threshold: &model.ThresholdStatus{IsAffected: false},
			Tasks:     []model.Task{{ID: "t", Domain: model.DomainTax, Title: "x", DueDate: day(2026, 12, 1)}},
		})
		assert.Equal(t, 1, countTax(got))
	})
}
