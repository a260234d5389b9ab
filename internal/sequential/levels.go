package sequential

import "math"

// Level is a TDST price level
type Level struct {
	Value  float64
	Active bool
}

// valueOrNaN returns the level value, or NaN when there is no active level
func (l Level) valueOrNaN() float64 {
	if !l.Active {
		return math.NaN()
	}
	return l.Value
}

// levelState holds at most one active level per direction. The buy level is
// support and dies once a low trades below it; the sell level is resistance
// and dies once a high trades above it.
type levelState struct {
	buy  Level
	sell Level
}

// invalidate checks a bar against the levels set on earlier bars
func (s *levelState) invalidate(high, low float64) {
	if s.buy.Active && low < s.buy.Value {
		s.buy = Level{}
	}
	if s.sell.Active && high > s.sell.Value {
		s.sell = Level{}
	}
}

// assign replaces the level of dir, even when the new one is less extreme
func (s *levelState) assign(dir Direction, value float64) {
	if dir == Buy {
		s.buy = Level{Value: value, Active: true}
		return
	}
	s.sell = Level{Value: value, Active: true}
}

// computeLevels derives the TDST columns from the setup columns. Each bar is
// first checked against the levels already active, then a setup completing
// on the bar sets a new level, so a level is never broken by its own bar.
func computeLevels(high, low []float64, buySetup, sellSetup []int, length int) ([]float64, []float64) {
	n := len(high)
	tdstBuy := make([]float64, n)
	tdstSell := make([]float64, n)

	var state levelState
	for i := 0; i < n; i++ {
		state.invalidate(high[i], low[i])

		if i >= length-1 {
			from := i - length + 1
			if buySetup[i] == length {
				lo := low[from]
				for j := from + 1; j <= i; j++ {
					lo = min(lo, low[j])
				}
				state.assign(Buy, lo)
			}
			if sellSetup[i] == length {
				hi := high[from]
				for j := from + 1; j <= i; j++ {
					hi = max(hi, high[j])
				}
				state.assign(Sell, hi)
			}
		}

		tdstBuy[i] = state.buy.valueOrNaN()
		tdstSell[i] = state.sell.valueOrNaN()
	}
	return tdstBuy, tdstSell
}
