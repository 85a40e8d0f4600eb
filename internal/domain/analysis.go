package domain

import "github.com/andresuchdata/salescast/backend-go/internal/forecast"

// ProductAnalysis is the trend and seasonality view of a product's history.
// Trend and Seasonality are nil when the product has no sales.
type ProductAnalysis struct {
	ProductID   int64                       `json:"product_id"`
	Granularity forecast.Granularity        `json:"granularity"`
	Trend       *forecast.TrendResult       `json:"trend"`
	Seasonality *forecast.SeasonalityResult `json:"seasonality"`
	Smoothed    []float64                   `json:"smoothed"`
}

// SalesRecords converts persisted sales into engine records.
func SalesRecords(sales []Sale) []forecast.SalesRecord {
	records := make([]forecast.SalesRecord, len(sales))
	for i, s := range sales {
		records[i] = forecast.SalesRecord{
			Quantity: s.Quantity,
			Revenue:  s.Revenue,
			SaleDate: s.SaleDate,
		}
	}
	return records
}

// ForecastPoints converts persisted forecast rows back into engine points.
func ForecastPoints(rows []Forecast) []forecast.Point {
	points := make([]forecast.Point, len(rows))
	for i, f := range rows {
		points[i] = forecast.Point{
			ForecastDate:      f.ForecastDate,
			PredictedQuantity: f.PredictedQuantity,
			PredictedRevenue:  f.PredictedRevenue,
			Confidence:        f.Confidence,
			Trend:             forecast.Direction(f.Trend),
			SeasonalityFactor: f.SeasonalityFactor,
		}
	}
	return points
}

// Snapshot returns the fields of p the anomaly detector reads.
func (p *Product) Snapshot() forecast.ProductSnapshot {
	return forecast.ProductSnapshot{
		ID:           p.ID,
		Name:         p.Name,
		CurrentStock: p.CurrentStock,
	}
}
