package sequential

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Alias1177/tdsequential/internal/frame"
	"github.com/Alias1177/tdsequential/internal/model"
)

// candlesFromCloses builds bars one point wide around each close
func candlesFromCloses(closes ...float64) []model.Candle {
	candles := make([]model.Candle, len(closes))
	for i, c := range closes {
		candles[i] = model.Candle{Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return candles
}

func frameFromCloses(closes ...float64) *frame.Frame {
	return frame.FromCandles(candlesFromCloses(closes...))
}

// waveCandles is a noisy sine wave, long enough to produce setups and
// countdowns in both directions
func waveCandles(seed int64, n int) []model.Candle {
	rng := rand.New(rand.NewSource(seed))
	candles := make([]model.Candle, n)
	for i := range candles {
		c := 100 + 20*math.Sin(float64(i)/15) + rng.NormFloat64()*0.3
		candles[i] = model.Candle{
			Open:  c,
			High:  c + 0.1 + rng.Float64(),
			Low:   c - 0.1 - rng.Float64(),
			Close: c,
		}
	}
	return candles
}

func mustCalculate(t *testing.T, f *frame.Frame, opts Options) (*frame.Frame, *Result) {
	t.Helper()
	out, res, err := Calculate(f, opts)
	require.NoError(t, err)
	return out, res
}

func zeros(n int) []int {
	return make([]int, n)
}

// seq returns from, from+1, ..., to
func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

func concat(parts ...[]int) []int {
	var out []int
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
