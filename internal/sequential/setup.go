package sequential

// setupState is the running setup count of both directions. At most one of
// buy and sell is non-zero at any time.
type setupState struct {
	length int
	buy    int
	sell   int
}

// setupTick is what one bar contributes to the setup columns
type setupTick struct {
	buy       int
	sell      int
	completed bool
	direction Direction
}

// advance feeds the closes of bars i, i-1, i-4 and i-5.
//
// A price flip is the only way to arm a setup and always voids the other
// direction. Flips are checked before continuation. A run that reaches the
// setup length is recorded and reset; a failed comparison breaks it.
func (s *setupState) advance(c, c1, c4, c5 float64) setupTick {
	var t setupTick

	switch {
	case c < c4 && c1 > c5:
		// bearish flip
		s.sell = 0
		s.buy = 1
		t.buy = s.buy
	case c > c4 && c1 < c5:
		// bullish flip
		s.buy = 0
		s.sell = 1
		t.sell = s.sell
	default:
		if s.buy > 0 {
			if c < c4 {
				s.buy++
				t.buy = s.buy
			} else {
				s.buy = 0
			}
		}
		if s.sell > 0 {
			if c > c4 {
				s.sell++
				t.sell = s.sell
			} else {
				s.sell = 0
			}
		}
	}

	if t.buy == s.length {
		s.buy = 0
		t.completed = true
		t.direction = Buy
	}
	if t.sell == s.length {
		s.sell = 0
		t.completed = true
		t.direction = Sell
	}
	return t
}

type setupResult struct {
	buy       []int
	sell      []int
	completed []CompletedSetup
	perfected []int
}

// computeSetups walks the bars once from the first bar a flip can be
// evaluated on
func computeSetups(high, low, closes []float64, length int, perfection bool) setupResult {
	n := len(closes)
	res := setupResult{
		buy:  make([]int, n),
		sell: make([]int, n),
	}

	state := setupState{length: length}
	for i := flipLookback; i < n; i++ {
		t := state.advance(closes[i], closes[i-1], closes[i-4], closes[i-5])
		res.buy[i] = t.buy
		res.sell[i] = t.sell
		if !t.completed {
			continue
		}

		from := i - length + 1
		hi, lo := high[from], low[from]
		for j := from + 1; j <= i; j++ {
			hi = max(hi, high[j])
			lo = min(lo, low[j])
		}
		res.completed = append(res.completed, CompletedSetup{
			Bar:       i,
			Direction: t.direction,
			High:      hi,
			Low:       lo,
		})

		if perfection && length >= 4 {
			var v6, v7, v8, v9 float64
			if t.direction == Buy {
				v6, v7, v8, v9 = low[i-3], low[i-2], low[i-1], low[i]
			} else {
				v6, v7, v8, v9 = high[i-3], high[i-2], high[i-1], high[i]
			}
			if setupPerfected(t.direction, v6, v7, v8, v9) {
				res.perfected = append(res.perfected, i)
			}
		}
	}
	return res
}

// setupPerfected compares the last two bars of a completed run against the
// two before them: lows for a buy setup, highs for a sell setup
func setupPerfected(dir Direction, v6, v7, v8, v9 float64) bool {
	if dir == Buy {
		return (v8 <= v6 && v8 <= v7) || (v9 <= v6 && v9 <= v7)
	}
	return (v8 >= v6 && v8 >= v7) || (v9 >= v6 && v9 >= v7)
}
