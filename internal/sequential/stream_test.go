package sequential

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/tdsequential/internal/frame"
)

func TestStreamMatchesCalculate(t *testing.T) {
	tests := []struct {
		name string
		seed int64
		opts Options
	}{
		{name: "defaults", seed: 1, opts: DefaultOptions()},
		{name: "defaults other series", seed: 42, opts: DefaultOptions()},
		{name: "short setup", seed: 3, opts: Options{SetupLength: 6, CountdownLength: 8, ApplyPerfection: true, Levels: true}},
		{name: "without levels or perfection", seed: 9, opts: Options{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candles := waveCandles(tt.seed, 700)
			_, res := mustCalculate(t, frame.FromCandles(candles), tt.opts)

			stream := NewStream(tt.opts)
			var completed []CompletedSetup
			var perfectedSetups, perfectedCountdowns []int
			for i, c := range candles {
				p := stream.Push(c)

				require.Equal(t, i, p.Bar)
				assert.Equal(t, res.BuySetup[i], p.BuySetup, "bar %d buy setup", i)
				assert.Equal(t, res.SellSetup[i], p.SellSetup, "bar %d sell setup", i)
				assert.Equal(t, res.BuyCountdown[i], p.BuyCountdown, "bar %d buy countdown", i)
				assert.Equal(t, res.SellCountdown[i], p.SellCountdown, "bar %d sell countdown", i)

				if tt.opts.Levels {
					assertSameLevel(t, res.TDSTBuy[i], p.TDSTBuy, i)
					assertSameLevel(t, res.TDSTSell[i], p.TDSTSell, i)
				} else {
					assert.True(t, math.IsNaN(p.TDSTBuy))
					assert.True(t, math.IsNaN(p.TDSTSell))
				}

				if p.Completed != nil {
					completed = append(completed, *p.Completed)
				}
				if p.PerfectedSetup {
					perfectedSetups = append(perfectedSetups, i)
				}
				if p.PerfectedCountdown {
					perfectedCountdowns = append(perfectedCountdowns, i)
				}
			}

			assert.Equal(t, len(candles), stream.Bars())
			assert.Equal(t, res.Completed, completed)
			assert.Equal(t, res.PerfectedSetups, perfectedSetups)
			assert.Equal(t, res.PerfectedCountdowns, perfectedCountdowns)
		})
	}
}

func assertSameLevel(t *testing.T, want, got float64, bar int) {
	t.Helper()
	if math.IsNaN(want) {
		assert.True(t, math.IsNaN(got), "bar %d: want no level, got %v", bar, got)
		return
	}
	assert.Equal(t, want, got, "bar %d level", bar)
}

func TestStreamCancelsOppositeCountdown(t *testing.T) {
	// a buy setup completes on bar 13, then prices turn up into a sell setup
	closes := []float64{100, 101, 102, 103, 104, 100, 99, 98, 97, 96, 95, 94, 93, 92}
	for i := 1; i <= 12; i++ {
		closes = append(closes, 92+float64(i)*2)
	}

	stream := NewStream(DefaultOptions())
	var points []Point
	for _, c := range candlesFromCloses(closes...) {
		points = append(points, stream.Push(c))
	}

	sellDone := -1
	for _, p := range points {
		if p.Completed != nil && p.Completed.Direction == Sell {
			sellDone = p.Bar
			break
		}
	}
	require.NotEqual(t, -1, sellDone, "expected a sell setup")
	for _, p := range points[sellDone:] {
		assert.Zero(t, p.BuyCountdown, "bar %d: buy countdown survived a sell setup", p.Bar)
	}

	buy, sell := stream.Levels()
	assert.Equal(t, Level{Value: 91, Active: true}, buy, "the rally never trades under the buy level")
	assert.False(t, sell.Active, "bar 24 trades above the highest high of the sell setup")
}
