package forecast

import "fmt"

// DetectAnomalies inspects the first week of a forecast together with the
// product's stock level and the strength of its sales trend. Each rule fires
// independently, so zero or more events may be returned.
func DetectAnomalies(product ProductSnapshot, records []SalesRecord, points []Point) []AlertEvent {
	alerts := make([]AlertEvent, 0)
	if len(points) == 0 {
		return alerts
	}

	window := points
	if len(window) > AlertWindowDays {
		window = window[:AlertWindowDays]
	}

	totalDemand := 0
	for _, p := range window {
		totalDemand += p.PredictedQuantity
	}
	avgDemand := float64(totalDemand) / float64(len(window))

	// 1. Any single day well above the week's average
	highThreshold := avgDemand * HighDemandBand
	for _, p := range window {
		if float64(p.PredictedQuantity) > highThreshold {
			alerts = append(alerts, AlertEvent{
				AlertType: AlertHighDemand,
				Severity:  SeverityHigh,
				Message: fmt.Sprintf("High demand predicted for %s. Expected %d units/day in the next week.",
					product.Name, int(roundHalfUp(avgDemand))),
			})
			break
		}
	}

	// 2. Every day well below the week's average. Only possible on a very
	// uneven week; a flat week never triggers it.
	lowThreshold := avgDemand * LowDemandBand
	allLow := true
	for _, p := range window {
		if float64(p.PredictedQuantity) >= lowThreshold {
			allLow = false
			break
		}
	}
	if allLow {
		alerts = append(alerts, AlertEvent{
			AlertType: AlertLowDemand,
			Severity:  SeverityMedium,
			Message:   fmt.Sprintf("Low demand predicted for %s. Consider promotional strategies.", product.Name),
		})
	}

	// 3. Stock cannot cover the week
	stock := 0
	stockLabel := "null"
	if product.CurrentStock != nil {
		stock = *product.CurrentStock
		stockLabel = fmt.Sprintf("%d", stock)
	}
	if stock < totalDemand {
		alerts = append(alerts, AlertEvent{
			AlertType: AlertStock,
			Severity:  SeverityHigh,
			Message: fmt.Sprintf("Stock alert for %s. Current stock (%s) may not cover predicted demand (%d units) for next 7 days.",
				product.Name, stockLabel, totalDemand),
		})
	}

	// 4. Strong trend in the raw history
	trend := AnalyzeTrend(records)
	if trend.Strength > TrendChangeMinStrength {
		alerts = append(alerts, AlertEvent{
			AlertType: AlertTrendChange,
			Severity:  SeverityMedium,
			Message: fmt.Sprintf("Strong %s trend detected for %s. Growth rate: %.1f%%.",
				trend.Direction, product.Name, trend.GrowthRate),
		})
	}

	return alerts
}
