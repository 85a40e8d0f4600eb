package forecast

// MovingAverage smooths values with a trailing window. The first window-1
// entries are passed through unchanged.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}

	result := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			result[i] = v
			continue
		}
		result[i] = sum / float64(window)
	}
	return result
}

// QuantitySeries returns the quantities of records in chronological order.
func QuantitySeries(records []SalesRecord) []float64 {
	sorted := sortByDate(records)
	series := make([]float64, len(sorted))
	for i, r := range sorted {
		series[i] = float64(r.Quantity)
	}
	return series
}
