package forecast

// Trend classification.
const (
	MinTrendRecords        = 2
	TrendStableBandPct     = 2.0
	TrendStrengthScale     = 10.0
	MaxTrendStrength       = 100.0
	TrendChangeMinStrength = 70.0
)

// Seasonality classification.
const (
	MinSeasonalityRecords = 12
	PeakBand              = 1.2
	LowBand               = 0.8
	NeutralFactor         = 100
)

// Forecast generation.
const (
	DefaultHorizonDays  = 30
	MaxHorizonDays      = 90
	BaselineWindow      = 30
	TrendPeriodDays     = 30.0
	PeakPeriodBoost     = 1.2
	LowPeriodDamping    = 0.8
	ConfidencePerRecord = 2
	MaxBaseConfidence   = 90
	ConfidenceDecay     = 20.0
	MinConfidence       = 50
)

// Anomaly detection.
const (
	AlertWindowDays = 7
	HighDemandBand  = 1.5
	LowDemandBand   = 0.5
)

// SmoothingWindow is the moving-average window used by the analysis view.
const SmoothingWindow = 7
