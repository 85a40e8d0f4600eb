package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func dailySeries(start time.Time, quantities ...int) []SalesRecord {
	records := make([]SalesRecord, len(quantities))
	for i, q := range quantities {
		records[i] = SalesRecord{
			Quantity: q,
			Revenue:  int64(q) * 100,
			SaleDate: start.AddDate(0, 0, i),
		}
	}
	return records
}

func TestAnalyzeTrend_TooFewRecords(t *testing.T) {
	for _, records := range [][]SalesRecord{nil, {}, dailySeries(day0, 42)} {
		got := AnalyzeTrend(records)
		assert.Equal(t, TrendResult{Direction: DirectionStable}, got)
	}
}

func TestAnalyzeTrend_Flat(t *testing.T) {
	quantities := make([]int, 40)
	for i := range quantities {
		quantities[i] = 15
	}

	got := AnalyzeTrend(dailySeries(day0, quantities...))

	assert.Equal(t, DirectionStable, got.Direction)
	assert.InDelta(t, 0, got.GrowthRate, 1e-9)
	assert.InDelta(t, 0, got.Strength, 1e-9)
}

func TestAnalyzeTrend_DoublingEveryTenDays(t *testing.T) {
	quantities := make([]int, 30)
	for i := range quantities {
		quantities[i] = 10 << (i / 10)
	}

	got := AnalyzeTrend(dailySeries(day0, quantities...))

	assert.Equal(t, DirectionIncreasing, got.Direction)
	assert.Greater(t, got.GrowthRate, TrendStableBandPct)
	// slope 3000/2247.5 over a mean of 70/3
	assert.InDelta(t, 3000.0/2247.5/(70.0/3)*100, got.GrowthRate, 1e-9)
	assert.InDelta(t, got.GrowthRate*TrendStrengthScale, got.Strength, 1e-9)
}

func TestAnalyzeTrend_Decreasing(t *testing.T) {
	got := AnalyzeTrend(dailySeries(day0, 100, 90, 80, 70, 60, 50, 40, 30, 20, 10))

	assert.Equal(t, DirectionDecreasing, got.Direction)
	assert.InDelta(t, -10.0/55*100, got.GrowthRate, 1e-9)
	assert.Equal(t, MaxTrendStrength, got.Strength)
}

func TestAnalyzeTrend_IgnoresInputOrder(t *testing.T) {
	records := dailySeries(day0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	reversed := make([]SalesRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	assert.Equal(t, AnalyzeTrend(records), AnalyzeTrend(reversed))
}

func TestAnalyzeTrend_SameDateKeepsInputOrder(t *testing.T) {
	up := []SalesRecord{
		{Quantity: 1, SaleDate: day0},
		{Quantity: 10, SaleDate: day0},
	}
	down := []SalesRecord{up[1], up[0]}

	assert.Equal(t, DirectionIncreasing, AnalyzeTrend(up).Direction)
	assert.Equal(t, DirectionDecreasing, AnalyzeTrend(down).Direction)
}

func TestAnalyzeTrend_UsesIndexNotCalendarGap(t *testing.T) {
	evenly := dailySeries(day0, 10, 20, 30)
	gapped := []SalesRecord{
		{Quantity: 10, SaleDate: day0},
		{Quantity: 20, SaleDate: day0.AddDate(0, 0, 1)},
		{Quantity: 30, SaleDate: day0.AddDate(0, 6, 0)},
	}

	assert.Equal(t, AnalyzeTrend(evenly), AnalyzeTrend(gapped))
}

func TestAnalyzeTrend_ZeroMeanHasNoGrowth(t *testing.T) {
	got := AnalyzeTrend(dailySeries(day0, 0, 0, 0, 0))
	assert.Equal(t, TrendResult{Direction: DirectionStable}, got)
}

func TestLinearRegression(t *testing.T) {
	slope, intercept := linearRegression([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7})
	require.InDelta(t, 2, slope, 1e-12)
	require.InDelta(t, 1, intercept, 1e-12)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3.0, roundHalfUp(2.5))
	assert.Equal(t, -2.0, roundHalfUp(-2.5))
	assert.Equal(t, 2.0, roundHalfUp(2.49))
}
