package regulatory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Parses(t *testing.T) {
	cal, err := Default()
	require.NoError(t, err)
	require.NotNil(t, cal)

	assert.NotEmpty(t, cal.Version)
	assert.Len(t, cal.Tax.Quarters, 8)
	assert.True(t, cal.Energy.MaximumFine.IsPositive())
	assert.Equal(t, "C", cal.Energy.MinimumRating)
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	a := MustDefault()
	b := MustDefault()
	assert.Same(t, a, b)
}

func TestThresholds_ChronologicalAndDecreasing(t *testing.T) {
	thresholds := MustDefault().Thresholds()
	require.Len(t, thresholds, 3)

	assert.Equal(t, "50000", thresholds[0].Amount.String())

	var prevDate time.Time
	for i, th := range thresholds {
		eff, err := th.Effective()
		require.NoError(t, err)
		if i > 0 {
			assert.True(t, eff.After(prevDate), "phase %s out of order", th.ID)
			assert.True(t, th.Amount.LessThan(thresholds[i-1].Amount), "phase %s threshold not decreasing", th.ID)
		}
		prevDate = eff
	}
}

func TestThresholds_ReturnsCopy(t *testing.T) {
	cal := MustDefault()
	thresholds := cal.Thresholds()
	thresholds[0].ID = "mutated"

	assert.Equal(t, "phase-1", cal.Thresholds()[0].ID)
}

func TestEntries(t *testing.T) {
	entries := MustDefault().Entries()

	seen := make(map[string]bool, len(entries))
	domains := make(map[string]int)
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate entry id %s", e.ID)
		seen[e.ID] = true
		domains[e.Domain]++

		_, err := time.Parse(DateLayout, e.Date)
		assert.NoError(t, err, "entry %s has bad date", e.ID)
		assert.Contains(t, []string{"critical", "high", "medium"}, e.Severity)
	}

	assert.Equal(t, 10, domains["tax"])
	assert.Equal(t, 8, domains["tenancy-rights"])
	assert.Equal(t, 4, domains["energy"])
	assert.True(t, seen["tax-2026-27-q1"])
	assert.True(t, seen["rra-phase-1-0"])
	assert.True(t, seen["energy-final-compliance"])
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]byte("version: [unterminated"))
	assert.Error(t, err)

	_, err = Load([]byte("tax:\n  name: x\n"))
	assert.Error(t, err)
}
