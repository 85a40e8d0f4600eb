package forecast

import (
	"math"
	"sort"
)

// AnalyzeTrend fits a least-squares line of quantity against sample index and
// classifies its direction. Records may be in any order; samples are treated
// as equally spaced regardless of the gaps between their dates.
func AnalyzeTrend(records []SalesRecord) TrendResult {
	if len(records) < MinTrendRecords {
		return TrendResult{Direction: DirectionStable}
	}

	sorted := sortByDate(records)

	x := make([]float64, len(sorted))
	y := make([]float64, len(sorted))
	for i, r := range sorted {
		x[i] = float64(i)
		y[i] = float64(r.Quantity)
	}

	slope, _ := linearRegression(x, y)
	avg := mean(y)

	// 1. Growth per sample relative to the average level
	growthRate := 0.0
	if avg > 0 {
		growthRate = (slope / avg) * 100
	}

	// 2. Heuristic strength, capped
	strength := math.Min(math.Abs(growthRate)*TrendStrengthScale, MaxTrendStrength)

	// 3. Direction from the fixed band
	direction := DirectionStable
	if growthRate > TrendStableBandPct {
		direction = DirectionIncreasing
	} else if growthRate < -TrendStableBandPct {
		direction = DirectionDecreasing
	}

	return TrendResult{
		Direction:  direction,
		Strength:   strength,
		GrowthRate: growthRate,
	}
}

// linearRegression returns slope and intercept of the OLS fit of y on x.
// Callers guarantee len(x) >= 2 with distinct x values, so the denominator
// is never zero.
func linearRegression(x, y []float64) (slope, intercept float64) {
	n := float64(len(x))
	var sumX, sumY, sumXY, sumX2 float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
	}

	slope = (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// sortByDate returns a copy of records ordered by SaleDate. Records sharing a
// date keep their input order.
func sortByDate(records []SalesRecord) []SalesRecord {
	sorted := make([]SalesRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SaleDate.Before(sorted[j].SaleDate)
	})
	return sorted
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
