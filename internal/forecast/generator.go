package forecast

import "math"

// GenerateForecast projects daily demand for daysAhead days after the last
// observed sale. It combines the recent average, a linear trend projection and
// the monthly seasonality profile. Stable series are not projected. Horizon validation (1-90) belongs to the
// caller; a horizon below one yields no points.
func GenerateForecast(records []SalesRecord, daysAhead int) []Point {
	if len(records) == 0 || daysAhead < 1 {
		return []Point{}
	}

	sorted := sortByDate(records)
	trend := AnalyzeTrend(sorted)
	seasonality := AnalyzeSeasonality(sorted)

	// Baseline from the most recent records
	recent := sorted
	if len(recent) > BaselineWindow {
		recent = recent[len(recent)-BaselineWindow:]
	}
	var sumQty, sumRevenue float64
	for _, r := range recent {
		sumQty += float64(r.Quantity)
		sumRevenue += float64(r.Revenue)
	}
	avgQuantity := sumQty / float64(len(recent))
	avgRevenue := sumRevenue / float64(len(recent))

	lastDate := sorted[len(sorted)-1].SaleDate
	baseConfidence := math.Min(float64(len(sorted)*ConfidencePerRecord), MaxBaseConfidence)

	points := make([]Point, 0, daysAhead)
	for i := 1; i <= daysAhead; i++ {
		forecastDate := lastDate.AddDate(0, 0, i)

		trendFactor := 1.0
		if trend.Direction != DirectionStable {
			trendFactor = 1 + (trend.GrowthRate/100)*(float64(i)/TrendPeriodDays)
		}

		seasonalFactor := float64(seasonality.SeasonalityFactor) / 100
		month := int(forecastDate.Month())
		if containsPeriod(seasonality.PeakPeriods, month) {
			seasonalFactor *= PeakPeriodBoost
		} else if containsPeriod(seasonality.LowPeriods, month) {
			seasonalFactor *= LowPeriodDamping
		}

		quantity := roundHalfUp(avgQuantity * trendFactor * seasonalFactor)
		revenue := roundHalfUp(avgRevenue * trendFactor * seasonalFactor)

		confidence := math.Max(baseConfidence-(float64(i)/float64(daysAhead))*ConfidenceDecay, MinConfidence)

		points = append(points, Point{
			ForecastDate:      forecastDate,
			PredictedQuantity: int(math.Max(quantity, 0)),
			PredictedRevenue:  int64(math.Max(revenue, 0)),
			Confidence:        int(roundHalfUp(confidence)),
			Trend:             trend.Direction,
			SeasonalityFactor: int(roundHalfUp(seasonalFactor * 100)),
		})
	}

	return points
}
