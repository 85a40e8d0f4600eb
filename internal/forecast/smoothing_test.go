package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverage(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
		want   []float64
	}{
		{"empty", nil, 3, []float64{}},
		{"window of one", []float64{1, 2, 3}, 1, []float64{1, 2, 3}},
		{"non-positive window", []float64{4, 5}, 0, []float64{4, 5}},
		{"warm-up passes through", []float64{3, 6, 9, 12}, 3, []float64{3, 6, 6, 9}},
		{"window longer than series", []float64{2, 4}, 5, []float64{2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.want, MovingAverage(tt.values, tt.window), 1e-12)
		})
	}
}

func TestQuantitySeries_Chronological(t *testing.T) {
	records := dailySeries(day0, 1, 2, 3)
	shuffled := []SalesRecord{records[1], records[2], records[0]}

	assert.Equal(t, []float64{1, 2, 3}, QuantitySeries(shuffled))
}
