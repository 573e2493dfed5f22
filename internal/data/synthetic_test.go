package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tariff-engine/internal/model"
)

func TestGenerateSyntheticShape(t *testing.T) {
	ds, err := GenerateSynthetic(SyntheticSpec{Households: 5, Days: 2, Seed: 7})
	require.NoError(t, err)

	assert.Equal(t, 5, ds.Households())
	assert.Equal(t, 48, ds.Hours())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ds.HouseholdIDs())
	assert.Greater(t, ds.TotalConsumption(), 0.0)

	grid := ds.TimeGrid()
	assert.True(t, grid[0].Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, grid[47].Equal(grid[0].Add(47*time.Hour)))

	for _, id := range ds.HouseholdIDs() {
		series, ok := ds.SeriesFor(id)
		require.True(t, ok)
		for h, v := range series {
			assert.GreaterOrEqual(t, v, 0.0, "household %d hour %d", id, h)
		}
	}
}

func TestGenerateSyntheticDeterministic(t *testing.T) {
	spec := SyntheticSpec{Households: 3, Days: 1, Seed: 42}

	a, err := GenerateSynthetic(spec)
	require.NoError(t, err)
	b, err := GenerateSynthetic(spec)
	require.NoError(t, err)

	assert.Equal(t, a.LoadProfile(), b.LoadProfile())
	assert.Equal(t, a.TotalConsumption(), b.TotalConsumption())

	c, err := GenerateSynthetic(SyntheticSpec{Households: 3, Days: 1, Seed: 43})
	require.NoError(t, err)
	assert.NotEqual(t, a.TotalConsumption(), c.TotalConsumption())
}

func TestGenerateSyntheticEveningPeak(t *testing.T) {
	ds, err := GenerateSynthetic(SyntheticSpec{Households: 40, Days: 5, Seed: 1})
	require.NoError(t, err)

	// Sum the fleet load by hour of day; the 18:00-20:00 block should
	// clearly dominate the 02:00-04:00 block.
	load := ds.LoadProfile()
	var evening, night float64
	for i, v := range load {
		switch i % 24 {
		case 18, 19, 20:
			evening += v
		case 2, 3, 4:
			night += v
		}
	}
	assert.Greater(t, evening, 2*night)
}

func TestGenerateSyntheticValidation(t *testing.T) {
	var perr *model.InvalidParameterError

	_, err := GenerateSynthetic(SyntheticSpec{Households: 0, Days: 1})
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "households", perr.Param)

	_, err = GenerateSynthetic(SyntheticSpec{Households: 1, Days: -2})
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "days", perr.Param)

	_, err = GenerateSynthetic(SyntheticSpec{Households: 1, Days: 1, BaseDailyKWh: -3})
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "base_daily_kwh", perr.Param)
}

func TestGenerateSyntheticCustomStart(t *testing.T) {
	start := time.Date(2025, 6, 15, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	ds, err := GenerateSynthetic(SyntheticSpec{Households: 2, Days: 1, Seed: 3, Start: start})
	require.NoError(t, err)

	// The start is normalized to a UTC hour boundary.
	grid := ds.TimeGrid()
	assert.Equal(t, time.UTC, grid[0].Location())
	assert.True(t, grid[0].Equal(time.Date(2025, 6, 15, 7, 0, 0, 0, time.UTC)))
}
