package forecast

import (
	"sort"
	"time"
)

// Granularity selects the calendar bucket used to fold sales across years.
type Granularity string

const (
	GranularityMonth Granularity = "month"
	GranularityWeek  Granularity = "week"
)

// ParseGranularity maps a query value to a Granularity, defaulting to month.
func ParseGranularity(s string) Granularity {
	if Granularity(s) == GranularityWeek {
		return GranularityWeek
	}
	return GranularityMonth
}

// AnalyzeSeasonality folds quantities by calendar month (1-12) across years
// and flags months whose mean sits outside the peak/low bands around the mean
// of monthly means.
func AnalyzeSeasonality(records []SalesRecord) SeasonalityResult {
	return AnalyzeSeasonalityBy(records, GranularityMonth)
}

// AnalyzeSeasonalityBy is AnalyzeSeasonality with a selectable bucket. With
// GranularityWeek the periods are ISO week numbers (1-53).
func AnalyzeSeasonalityBy(records []SalesRecord, g Granularity) SeasonalityResult {
	none := SeasonalityResult{
		PeakPeriods:       []int{},
		LowPeriods:        []int{},
		SeasonalityFactor: NeutralFactor,
	}
	if len(records) < MinSeasonalityRecords {
		return none
	}

	buckets := make(map[int][]float64)
	for _, r := range records {
		p := period(r.SaleDate, g)
		buckets[p] = append(buckets[p], float64(r.Quantity))
	}

	periods := make([]int, 0, len(buckets))
	for p := range buckets {
		periods = append(periods, p)
	}
	sort.Ints(periods)

	avgs := make(map[int]float64, len(periods))
	var total, highest float64
	for i, p := range periods {
		avg := mean(buckets[p])
		avgs[p] = avg
		total += avg
		if i == 0 || avg > highest {
			highest = avg
		}
	}
	overall := total / float64(len(periods))
	if overall <= 0 {
		return none
	}

	result := none
	for _, p := range periods {
		switch avg := avgs[p]; {
		case avg > overall*PeakBand:
			result.PeakPeriods = append(result.PeakPeriods, p)
		case avg < overall*LowBand:
			result.LowPeriods = append(result.LowPeriods, p)
		}
	}

	result.HasSeason = len(result.PeakPeriods) > 0 || len(result.LowPeriods) > 0
	if result.HasSeason {
		result.SeasonalityFactor = int(roundHalfUp(highest / overall * 100))
	}

	return result
}

func period(t time.Time, g Granularity) int {
	if g == GranularityWeek {
		_, week := t.ISOWeek()
		return week
	}
	return int(t.Month())
}

func containsPeriod(periods []int, p int) bool {
	for _, v := range periods {
		if v == p {
			return true
		}
	}
	return false
}
