package forecast

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateForecast_Empty(t *testing.T) {
	assert.Empty(t, GenerateForecast(nil, DefaultHorizonDays))
	assert.NotNil(t, GenerateForecast(nil, DefaultHorizonDays))
}

func TestGenerateForecast_NonPositiveHorizon(t *testing.T) {
	records := dailySeries(day0, 1, 2, 3)
	assert.Empty(t, GenerateForecast(records, 0))
	assert.Empty(t, GenerateForecast(records, -5))
}

func TestGenerateForecast_FlatDemand(t *testing.T) {
	quantities := make([]int, 40)
	for i := range quantities {
		quantities[i] = 15
	}
	records := dailySeries(day0, quantities...)
	for i := range records {
		records[i].Revenue = 1500
	}

	points := GenerateForecast(records, 30)

	require.Len(t, points, 30)
	lastDate := records[len(records)-1].SaleDate
	for i, p := range points {
		assert.Equal(t, lastDate.AddDate(0, 0, i+1), p.ForecastDate)
		assert.Equal(t, 15, p.PredictedQuantity)
		assert.Equal(t, int64(1500), p.PredictedRevenue)
		assert.Equal(t, DirectionStable, p.Trend)
		assert.Equal(t, NeutralFactor, p.SeasonalityFactor)
	}
	// base confidence min(40*2, 90) = 80, decaying by 20 over the horizon
	assert.Equal(t, 79, points[0].Confidence)
	assert.Equal(t, 70, points[14].Confidence)
	assert.Equal(t, 60, points[29].Confidence)
}

func TestGenerateForecast_ConfidenceFloor(t *testing.T) {
	points := GenerateForecast(dailySeries(day0, 5, 5, 5), 10)

	require.Len(t, points, 10)
	for _, p := range points {
		assert.Equal(t, MinConfidence, p.Confidence)
	}
}

func TestGenerateForecast_ConfidenceCap(t *testing.T) {
	records := dailySeries(day0, make([]int, 120)...)

	points := GenerateForecast(records, 90)

	assert.Equal(t, 90, points[0].Confidence)
	assert.Equal(t, 70, points[89].Confidence)
}

func TestGenerateForecast_UnsortedInput(t *testing.T) {
	records := dailySeries(day0, 4, 8, 12)
	shuffled := []SalesRecord{records[2], records[0], records[1]}

	points := GenerateForecast(shuffled, 5)

	require.Len(t, points, 5)
	assert.Equal(t, records[2].SaleDate.AddDate(0, 0, 1), points[0].ForecastDate)
	assert.Equal(t, GenerateForecast(records, 5), points)
}

func TestGenerateForecast_BaselineUsesLastThirtyRecords(t *testing.T) {
	quantities := make([]int, 60)
	for i := range quantities {
		if i < 30 {
			quantities[i] = 1000
		} else {
			quantities[i] = 10
		}
	}
	records := dailySeries(day0, quantities...)

	points := GenerateForecast(records, 1)

	require.Len(t, points, 1)
	// first point falls on March 1, outside both January's peak and
	// February's low
	season := AnalyzeSeasonality(records)
	require.Equal(t, time.March, points[0].ForecastDate.Month())
	require.NotContains(t, season.PeakPeriods, 3)
	require.NotContains(t, season.LowPeriods, 3)

	trend := AnalyzeTrend(records)
	trendFactor := 1 + (trend.GrowthRate/100)*(1.0/TrendPeriodDays)
	seasonalFactor := float64(season.SeasonalityFactor) / 100
	expected := roundHalfUp(10 * trendFactor * seasonalFactor)
	assert.Equal(t, int(expected), points[0].PredictedQuantity)
	assert.Less(t, points[0].PredictedQuantity, 100)
}

func TestGenerateForecast_TrendProjection(t *testing.T) {
	records := dailySeries(day0, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28)
	trend := AnalyzeTrend(records)
	require.Equal(t, DirectionIncreasing, trend.Direction)

	points := GenerateForecast(records, 30)

	avg := 19.0
	for i, p := range points {
		factor := 1 + (trend.GrowthRate/100)*(float64(i+1)/TrendPeriodDays)
		assert.Equal(t, int(roundHalfUp(avg*factor)), p.PredictedQuantity, "day %d", i+1)
		assert.Equal(t, DirectionIncreasing, p.Trend)
	}
	assert.Greater(t, points[29].PredictedQuantity, points[0].PredictedQuantity)
}

func TestGenerateForecast_StableTrendNotProjected(t *testing.T) {
	records := dailySeries(day0, 100, 100, 100, 100, 100, 104, 104, 104, 104, 104)
	trend := AnalyzeTrend(records)
	require.Equal(t, DirectionStable, trend.Direction)
	require.Positive(t, trend.GrowthRate)

	points := GenerateForecast(records, 90)

	require.Len(t, points, 90)
	for i, p := range points {
		assert.Equal(t, 102, p.PredictedQuantity, "day %d", i+1)
		assert.Equal(t, DirectionStable, p.Trend)
	}
}

func TestGenerateForecast_SeasonalAdjustment(t *testing.T) {
	records := seasonalYear()

	points := GenerateForecast(records, 20)

	require.Len(t, points, 20)
	// last sale is Dec 15, so Dec 16-31 are peak days and Jan 1+ are low days
	assert.Equal(t, time.December, points[0].ForecastDate.Month())
	assert.Equal(t, 236, points[0].SeasonalityFactor)
	assert.Equal(t, time.January, points[16].ForecastDate.Month())
	assert.Equal(t, 158, points[16].SeasonalityFactor)
}

func TestGenerateForecast_ClampsNegativeProjection(t *testing.T) {
	records := dailySeries(day0, 100, 0)

	points := GenerateForecast(records, 30)

	require.Len(t, points, 30)
	assert.Positive(t, points[0].PredictedQuantity)
	assert.Equal(t, 0, points[29].PredictedQuantity)
	assert.Equal(t, int64(0), points[29].PredictedRevenue)
}

func TestGenerateForecast_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		n := 1 + rng.Intn(120)
		records := make([]SalesRecord, n)
		for i := range records {
			q := rng.Intn(200)
			records[i] = SalesRecord{
				Quantity: q,
				Revenue:  int64(q * (50 + rng.Intn(500))),
				SaleDate: day0.AddDate(0, 0, rng.Intn(730)),
			}
		}
		horizon := 1 + rng.Intn(MaxHorizonDays)

		points := GenerateForecast(records, horizon)
		require.Len(t, points, horizon)

		last := sortByDate(records)[n-1].SaleDate
		prevConfidence := MaxBaseConfidence + 1
		for i, p := range points {
			assert.Equal(t, last.AddDate(0, 0, i+1), p.ForecastDate)
			assert.GreaterOrEqual(t, p.PredictedQuantity, 0)
			assert.GreaterOrEqual(t, p.PredictedRevenue, int64(0))
			assert.GreaterOrEqual(t, p.Confidence, MinConfidence)
			assert.LessOrEqual(t, p.Confidence, MaxBaseConfidence)
			assert.LessOrEqual(t, p.Confidence, prevConfidence)
			prevConfidence = p.Confidence
		}

		season := AnalyzeSeasonality(records)
		for _, peak := range season.PeakPeriods {
			assert.NotContains(t, season.LowPeriods, peak)
		}
	}
}
