package sequential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSetups(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		buy    []int
		sell   []int
	}{
		{
			name:   "five bars cannot flip",
			closes: []float64{100, 101, 102, 103, 104},
			buy:    zeros(5),
			sell:   zeros(5),
		},
		{
			name:   "buy setup counts to nine and does not continue",
			closes: []float64{100, 101, 102, 103, 104, 100, 99, 98, 97, 96, 95, 94, 93, 92, 93},
			buy:    concat(zeros(5), seq(1, 9), zeros(1)),
			sell:   zeros(15),
		},
		{
			name:   "failed comparison breaks the run and nothing rearms without a flip",
			closes: []float64{100, 101, 102, 103, 104, 100, 99, 103, 90},
			buy:    []int{0, 0, 0, 0, 0, 1, 2, 0, 0},
			sell:   zeros(9),
		},
		{
			name:   "bearish flip voids a sell setup in progress",
			closes: []float64{104, 103, 102, 101, 100, 104, 105, 90},
			buy:    []int{0, 0, 0, 0, 0, 0, 0, 1},
			sell:   []int{0, 0, 0, 0, 0, 1, 2, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candles := candlesFromCloses(tt.closes...)
			high, low := make([]float64, len(candles)), make([]float64, len(candles))
			for i, c := range candles {
				high[i], low[i] = c.High, c.Low
			}

			res := computeSetups(high, low, tt.closes, DefaultSetupLength, false)

			assert.Equal(t, tt.buy, res.buy, "buy setup")
			assert.Equal(t, tt.sell, res.sell, "sell setup")
		})
	}
}

func TestComputeSetupsRecordsCompletion(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104, 100, 99, 98, 97, 96, 95, 94, 93, 92, 93}
	candles := candlesFromCloses(closes...)
	high, low := make([]float64, len(candles)), make([]float64, len(candles))
	for i, c := range candles {
		high[i], low[i] = c.High, c.Low
	}

	res := computeSetups(high, low, closes, DefaultSetupLength, true)

	require.Len(t, res.completed, 1)
	assert.Equal(t, CompletedSetup{Bar: 13, Direction: Buy, High: 101, Low: 91}, res.completed[0])
	assert.Equal(t, []int{13}, res.perfected, "bar 8 low is under the lows of bars 6 and 7")
}

func TestComputeSetupsLengthOneCompletesOnFlip(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104, 100, 99}
	res := computeSetups(closes, closes, closes, 1, false)

	assert.Equal(t, []int{0, 0, 0, 0, 0, 1, 0}, res.buy)
	require.Len(t, res.completed, 1)
	assert.Equal(t, 5, res.completed[0].Bar)
}

func TestSetupPerfected(t *testing.T) {
	assert.True(t, setupPerfected(Buy, 10, 9, 8.5, 9.5))
	assert.True(t, setupPerfected(Buy, 10, 9, 9.5, 9))
	assert.False(t, setupPerfected(Buy, 10, 9, 9.5, 9.2))

	assert.True(t, setupPerfected(Sell, 10, 11, 11.5, 10))
	assert.False(t, setupPerfected(Sell, 10, 11, 10.5, 10.9))
}
