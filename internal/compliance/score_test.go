package compliance

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func makeTasks(domain model.Domain, completed, total int, propertyID *string) []model.Task {
	tasks := make([]model.Task, 0, total)
	for i := 0; i < total; i++ {
		task := model.Task{
			ID:         fmt.Sprintf("%s-%d", domain, i),
			Domain:     domain,
			Title:      fmt.Sprintf("%s task %d", domain, i),
			PropertyID: propertyID,
		}
		if i < completed {
			done := testNow.Add(-time.Hour)
			task.IsCompleted = true
			task.CompletedAt = &done
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func TestWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, d := range model.ScoredDomains {
		sum += Weights[d]
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCompute_Scenario(t *testing.T) {
	var tasks []model.Task
	tasks = append(tasks, makeTasks(model.DomainTax, 4, 5, nil)...)
	tasks = append(tasks, makeTasks(model.DomainTenancyRights, 3, 10, nil)...)
	tasks = append(tasks, makeTasks(model.DomainEnergy, 4, 4, nil)...)

	got := Compute(tasks, nil, testNow, Options{})

	tax := got.PerDomain[model.DomainTax]
	assert.Equal(t, 80, tax.Score)
	assert.Equal(t, model.StatusReady, tax.Status)
	assert.Equal(t, 1, tax.OutstandingCount)

	rights := got.PerDomain[model.DomainTenancyRights]
	assert.Equal(t, 30, rights.Score)
	assert.Equal(t, model.StatusNotReady, rights.Status)
	assert.Equal(t, 7, rights.OutstandingCount)

	energy := got.PerDomain[model.DomainEnergy]
	assert.Equal(t, 100, energy.Score)
	assert.Equal(t, model.StatusReady, energy.Status)

	assert.Equal(t, 65, got.OverallScore)
}

func TestCompute_EmptyDomain(t *testing.T) {
	got := Compute(makeTasks(model.DomainTax, 5, 5, nil), nil, testNow, Options{})

	for _, d := range []model.Domain{model.DomainTenancyRights, model.DomainEnergy} {
		status := got.PerDomain[d]
		assert.Equal(t, 0, status.Score, d)
		assert.Equal(t, model.StatusNotReady, status.Status, d)
		assert.Equal(t, 0, status.TotalCount, d)
		assert.Nil(t, status.NextDeadline, d)
	}
	assert.Equal(t, 35, got.OverallScore)
}

func TestCompute_ExcludeEmptyDomains(t *testing.T) {
	tasks := makeTasks(model.DomainTax, 5, 5, nil)

	got := Compute(tasks, nil, testNow, Options{ExcludeEmptyDomains: true})
	assert.Equal(t, 100, got.OverallScore)

	none := Compute(nil, nil, testNow, Options{ExcludeEmptyDomains: true})
	assert.Equal(t, 0, none.OverallScore)
}

func TestCompute_AllComplete(t *testing.T) {
	var tasks []model.Task
	for _, d := range model.ScoredDomains {
		tasks = append(tasks, makeTasks(d, 3, 3, nil)...)
	}

	got := Compute(tasks, nil, testNow, Options{})
	for _, d := range model.ScoredDomains {
		assert.Equal(t, 100, got.PerDomain[d].Score)
		assert.Equal(t, model.StatusReady, got.PerDomain[d].Status)
	}
	assert.Equal(t, 100, got.OverallScore)
}

func TestCompute_OverallAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		var tasks []model.Task
		for _, d := range model.ScoredDomains {
			total := rng.Intn(12)
			completed := 0
			if total > 0 {
				completed = rng.Intn(total + 1)
			}
			tasks = append(tasks, makeTasks(d, completed, total, nil)...)
		}
		for _, opts := range []Options{{}, {ExcludeEmptyDomains: true}} {
			got := Compute(tasks, nil, testNow, opts)
			require.GreaterOrEqual(t, got.OverallScore, 0)
			require.LessOrEqual(t, got.OverallScore, 100)
			for _, d := range model.ScoredDomains {
				s := got.PerDomain[d]
				require.LessOrEqual(t, s.CompletedCount, s.TotalCount)
			}
		}
	}
}

func TestCompute_NextDeadline(t *testing.T) {
	due := func(days float64) *time.Time {
		v := testNow.Add(time.Duration(days * float64(24*time.Hour)))
		return &v
	}
	done := testNow
	tasks := []model.Task{
		{ID: "a", Domain: model.DomainEnergy, DueDate: due(10)},
		{ID: "b", Domain: model.DomainEnergy, DueDate: due(2.5)},
		{ID: "c", Domain: model.DomainEnergy, DueDate: due(1), IsCompleted: true, CompletedAt: &done},
		{ID: "d", Domain: model.DomainEnergy},
		{ID: "e", Domain: model.DomainTax, DueDate: due(-1.5)},
	}

	got := Compute(tasks, nil, testNow, Options{})

	energy := got.PerDomain[model.DomainEnergy]
	require.NotNil(t, energy.NextDeadline)
	assert.Equal(t, *due(2.5), *energy.NextDeadline)
	require.NotNil(t, energy.DaysUntilDeadline)
	assert.Equal(t, 3, *energy.DaysUntilDeadline)

	tax := got.PerDomain[model.DomainTax]
	require.NotNil(t, tax.DaysUntilDeadline)
	assert.Equal(t, -1, *tax.DaysUntilDeadline)
}

func TestCompute_PropertyScope(t *testing.T) {
	p1, p2 := "p1", "p2"
	var tasks []model.Task
	tasks = append(tasks, makeTasks(model.DomainTenancyRights, 2, 2, &p1)...)
	tasks = append(tasks, makeTasks(model.DomainTenancyRights, 0, 2, &p2)...)
	tasks = append(tasks, makeTasks(model.DomainTenancyRights, 1, 1, nil)...)
	// rename ids so the three batches do not collide
	for i := range tasks {
		tasks[i].ID = fmt.Sprintf("t%d", i)
	}

	scoped := Compute(tasks, &p1, testNow, Options{})
	rights := scoped.PerDomain[model.DomainTenancyRights]
	assert.Equal(t, 3, rights.TotalCount)
	assert.Equal(t, 100, rights.Score)

	other := Compute(tasks, &p2, testNow, Options{})
	assert.Equal(t, 33, other.PerDomain[model.DomainTenancyRights].Score)

	account := Compute(tasks, nil, testNow, Options{})
	assert.Equal(t, 5, account.PerDomain[model.DomainTenancyRights].TotalCount)
}

func TestComputePortfolio_MatchesCompute(t *testing.T) {
	p1 := "p1"
	var tasks []model.Task
	tasks = append(tasks, makeTasks(model.DomainEnergy, 1, 4, &p1)...)
	tasks = append(tasks, makeTasks(model.DomainTax, 2, 2, nil)...)
	props := []model.Property{{ID: "p1", Address: "1 Mill Lane"}, {ID: "p2", Address: "2 Mill Lane"}}

	got := ComputePortfolio(tasks, props, testNow, Options{})

	assert.Equal(t, Compute(tasks, nil, testNow, Options{}), got.Account)
	require.Len(t, got.Properties, 2)
	assert.Equal(t, Compute(tasks, &p1, testNow, Options{}), got.Properties[0].Overview)
	assert.Equal(t, 0, got.Properties[1].Overview.PerDomain[model.DomainEnergy].TotalCount)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		want  model.ReadinessStatus
		score int
	}{
		{model.StatusNotReady, 0},
		{model.StatusNotReady, 39},
		{model.StatusPartial, 40},
		{model.StatusPartial, 79},
		{model.StatusReady, 80},
		{model.StatusReady, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.score), "score %d", tt.score)
	}
}

func TestDomainScore(t *testing.T) {
	assert.Equal(t, 0, DomainScore(0, 0))
	assert.Equal(t, 33, DomainScore(1, 3))
	assert.Equal(t, 67, DomainScore(2, 3))
	assert.Equal(t, 100, DomainScore(4, 4))
}
