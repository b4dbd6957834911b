package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareValuesWithinTolerance(t *testing.T) {
	old := map[string]float64{"2024-01-01": 100.0}
	new := map[string]float64{"2024-01-01": 100.0000000001}

	cmp := CompareValues(old, new)
	assert.Zero(t, cmp.TotalChanges)
	assert.Equal(t, 1, cmp.UnchangedCount)
	assert.False(t, cmp.HasChanges())
}

func TestCompareValuesRevision(t *testing.T) {
	old := map[string]float64{"2024-01-01": 100.0}
	new := map[string]float64{"2024-01-01": 101.0}

	cmp := CompareValues(old, new)
	require.Len(t, cmp.Changed, 1)
	change := cmp.Changed[0]
	assert.Equal(t, "2024-01-01", change.Period)
	assert.Equal(t, 1.0, change.Delta)
	require.NotNil(t, change.DeltaPct)
	assert.InDelta(t, 1.0, *change.DeltaPct, 1e-12)
	assert.Equal(t, 1, cmp.TotalChanges)
}

func TestCompareValuesDeltaPctNilForZeroBase(t *testing.T) {
	cmp := CompareValues(
		map[string]float64{"2024-01-01": 0},
		map[string]float64{"2024-01-01": 5},
	)
	require.Len(t, cmp.Changed, 1)
	assert.Nil(t, cmp.Changed[0].DeltaPct)
	assert.Equal(t, 5.0, cmp.Changed[0].Delta)
}

func TestCompareValuesAddedRemoved(t *testing.T) {
	cmp := CompareValues(
		map[string]float64{"2024-01-01": 1},
		map[string]float64{"2024-02-01": 2},
	)
	assert.Equal(t, []string{"2024-02-01"}, cmp.Added)
	assert.Equal(t, []string{"2024-01-01"}, cmp.Removed)
	assert.Empty(t, cmp.Changed)
	assert.Equal(t, 2, cmp.TotalChanges)
}

func TestCompareValuesSortedOutput(t *testing.T) {
	cmp := CompareValues(
		map[string]float64{},
		map[string]float64{"2024-03-01": 3, "2024-01-01": 1, "2024-02-01": 2},
	)
	assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"}, cmp.Added)
}
