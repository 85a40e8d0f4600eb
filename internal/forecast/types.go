package forecast

import "time"

// Direction classifies the long-run tendency of a quantity series.
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionStable     Direction = "stable"
)

// AlertType identifies which detection rule produced an alert.
type AlertType string

const (
	AlertHighDemand  AlertType = "high_demand"
	AlertLowDemand   AlertType = "low_demand"
	AlertStock       AlertType = "stock_alert"
	AlertTrendChange AlertType = "trend_change"
)

// Severity of an alert event.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SalesRecord is a single observed sale. Revenue is in minor currency units.
type SalesRecord struct {
	Quantity int
	Revenue  int64
	SaleDate time.Time
}

// TrendResult summarizes the direction of a quantity series.
type TrendResult struct {
	Direction  Direction `json:"direction"`
	Strength   float64   `json:"strength"`    // 0-100
	GrowthRate float64   `json:"growth_rate"` // percent per sample
}

// SeasonalityResult describes recurring calendar variation.
type SeasonalityResult struct {
	HasSeason         bool  `json:"has_season"`
	PeakPeriods       []int `json:"peak_periods"`
	LowPeriods        []int `json:"low_periods"`
	SeasonalityFactor int   `json:"seasonality_factor"` // 100 = no effect
}

// Point is the prediction for a single future day.
type Point struct {
	ForecastDate      time.Time `json:"forecast_date"`
	PredictedQuantity int       `json:"predicted_quantity"`
	PredictedRevenue  int64     `json:"predicted_revenue"`
	Confidence        int       `json:"confidence"`
	Trend             Direction `json:"trend"`
	SeasonalityFactor int       `json:"seasonality_factor"`
}

// ProductSnapshot carries the product fields the anomaly detector needs.
// A nil CurrentStock is treated as zero.
type ProductSnapshot struct {
	ID           int64
	Name         string
	CurrentStock *int
}

// AlertEvent is a rule-triggered notification.
type AlertEvent struct {
	AlertType AlertType `json:"alert_type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
}
