package sequential

import "slices"

// perfectionBar is the countdown count whose close the final bar is compared against
const perfectionBar = 8

type countdownResult struct {
	buy       []int
	sell      []int
	perfected []int
}

// computeCountdowns runs one countdown per completed setup, in the order the
// setups completed. Instances of the same direction write into the same
// column, so where they overlap the one started later wins the bar.
func computeCountdowns(high, low, closes []float64, completedBuy, completedSell []int, length int, perfection bool) countdownResult {
	n := len(closes)
	res := countdownResult{
		buy:  make([]int, n),
		sell: make([]int, n),
	}

	cancelBuy := barSet(completedSell)
	cancelSell := barSet(completedBuy)

	for _, start := range completedBuy {
		if bar, ok := runCountdown(Buy, start, high, low, closes, res.buy, cancelBuy, length, perfection); ok {
			res.perfected = append(res.perfected, bar)
		}
	}
	for _, start := range completedSell {
		if bar, ok := runCountdown(Sell, start, high, low, closes, res.sell, cancelSell, length, perfection); ok {
			res.perfected = append(res.perfected, bar)
		}
	}

	// instances of one direction can finish on the same bar
	slices.Sort(res.perfected)
	res.perfected = slices.Compact(res.perfected)
	return res
}

// runCountdown scans from the bar the setup completed on. It stops on the
// first bar an opposite setup completes or when the count reaches length.
// Bars that fail the comparison pause the count without resetting it.
// It reports the completion bar when the countdown finished perfected.
func runCountdown(dir Direction, start int, high, low, closes []float64, out []int, cancel map[int]struct{}, length int, perfection bool) (int, bool) {
	count := 0
	bar8Close, hasBar8 := 0.0, false

	for i := start; i < len(closes); i++ {
		if _, ok := cancel[i]; ok {
			return 0, false
		}
		if i < countdownLookback {
			continue
		}
		if !countdownQualifies(dir, closes[i], low[i-countdownLookback], high[i-countdownLookback]) {
			continue
		}

		count++
		out[i] = count

		if perfection && count == perfectionBar {
			bar8Close, hasBar8 = closes[i], true
		}
		if count == length {
			if perfection && hasBar8 {
				return i, countdownPerfected(dir, high[i], low[i], bar8Close)
			}
			return 0, false
		}
	}
	return 0, false
}

// countdownQualifies is the bar condition: close at or below the low two bars
// back for a buy, at or above the high two bars back for a sell
func countdownQualifies(dir Direction, c, low2, high2 float64) bool {
	if dir == Buy {
		return c <= low2
	}
	return c >= high2
}

func countdownPerfected(dir Direction, high, low, bar8Close float64) bool {
	if dir == Buy {
		return low <= bar8Close
	}
	return high >= bar8Close
}

func barSet(bars []int) map[int]struct{} {
	set := make(map[int]struct{}, len(bars))
	for _, b := range bars {
		set[b] = struct{}{}
	}
	return set
}
