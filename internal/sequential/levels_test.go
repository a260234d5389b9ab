package sequential

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// assertLevels compares level columns where NaN means no active level
func assertLevels(t *testing.T, want, got []float64, msgAndArgs ...interface{}) {
	t.Helper()
	if !assert.Len(t, got, len(want), msgAndArgs...) {
		return
	}
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "bar %d: want no level, got %v", i, got[i])
			continue
		}
		assert.Equal(t, want[i], got[i], "bar %d", i)
	}
}

func TestComputeLevelsBuy(t *testing.T) {
	nan := math.NaN()
	low := []float64{10, 9, 8, 7, 6, 6.5, 7, 5.5, 8, 9}
	high := make([]float64, len(low))
	for i := range low {
		high[i] = low[i] + 2
	}
	buySetup := []int{0, 0, 1, 2, 3, 0, 0, 0, 0, 0}

	tdstBuy, tdstSell := computeLevels(high, low, buySetup, zeros(len(low)), 3)

	// level 6 is the lowest low of bars 2..4; bar 7 trades under it
	assertLevels(t, []float64{nan, nan, nan, nan, 6, 6, 6, nan, nan, nan}, tdstBuy)
	assertLevels(t, []float64{nan, nan, nan, nan, nan, nan, nan, nan, nan, nan}, tdstSell)
}

func TestComputeLevelsNewSetupReplacesBrokenLevel(t *testing.T) {
	nan := math.NaN()
	low := []float64{10, 9, 8, 7, 6, 6.5, 7, 5.5, 8, 9}
	high := make([]float64, len(low))
	for i := range low {
		high[i] = low[i] + 2
	}
	buySetup := []int{0, 0, 1, 2, 3, 1, 2, 3, 0, 0}

	tdstBuy, _ := computeLevels(high, low, buySetup, zeros(len(low)), 3)

	// bar 7 breaks level 6 and completes a setup whose low is the bar's own low
	assertLevels(t, []float64{nan, nan, nan, nan, 6, 6, 6, 5.5, 5.5, 5.5}, tdstBuy)
}

func TestComputeLevelsSellOverwritesWithLessExtreme(t *testing.T) {
	nan := math.NaN()
	high := []float64{10, 12, 15, 11, 13, 14, 13.5, 14.2, 16}
	low := make([]float64, len(high))
	for i := range high {
		low[i] = high[i] - 3
	}
	sellSetup := []int{0, 0, 3, 0, 0, 3, 0, 0, 0}

	_, tdstSell := computeLevels(high, low, zeros(len(high)), sellSetup, 3)

	// 15 from bars 0..2, then 14 from bars 3..5 replaces it; bar 7 breaks 14
	assertLevels(t, []float64{nan, nan, 15, 15, 15, 14, 14, nan, nan}, tdstSell)
}

func TestComputeLevelsNeedsFullWindow(t *testing.T) {
	high := []float64{5, 6}
	low := []float64{4, 5}

	tdstBuy, _ := computeLevels(high, low, []int{0, 9}, zeros(2), 9)

	assert.True(t, math.IsNaN(tdstBuy[1]), "a setup needs setupLength bars of history")
}
