package sequential

import (
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/tdsequential/internal/frame"
)

// Result holds the typed output of Calculate
type Result struct {
	BuySetup      []int
	SellSetup     []int
	BuyCountdown  []int
	SellCountdown []int
	// TDSTBuy and TDSTSell are nil unless Options.Levels is set; NaN marks a bar without an active level
	TDSTBuy  []float64
	TDSTSell []float64

	// Completed lists every completed setup in bar order
	Completed []CompletedSetup
	// PerfectedSetups and PerfectedCountdowns are completion bars, filled only with ApplyPerfection
	PerfectedSetups     []int
	PerfectedCountdowns []int
}

// CompletedBars returns the bars a setup of dir completed on
func (r *Result) CompletedBars(dir Direction) []int {
	var bars []int
	for _, c := range r.Completed {
		if c.Direction == dir {
			bars = append(bars, c.Bar)
		}
	}
	return bars
}

// Calculate classifies every bar of f. The input frame is never modified:
// the returned frame is a copy with the count columns, and the TDST columns
// when requested, appended.
func Calculate(f *frame.Frame, opts Options) (*frame.Frame, *Result, error) {
	opts = opts.withDefaults()
	logger := log.With().Str("component", "sequential").Logger()

	for _, name := range []string{opts.Columns.Close, opts.Columns.High, opts.Columns.Low} {
		if !f.Has(name) {
			return nil, nil, &MissingColumnError{Column: name}
		}
	}
	closes, _ := f.Column(opts.Columns.Close)
	high, _ := f.Column(opts.Columns.High)
	low, _ := f.Column(opts.Columns.Low)

	setups := computeSetups(high, low, closes, opts.SetupLength, opts.ApplyPerfection)
	res := &Result{
		BuySetup:  setups.buy,
		SellSetup: setups.sell,
		Completed: setups.completed,
	}
	completedBuy := res.CompletedBars(Buy)
	completedSell := res.CompletedBars(Sell)

	countdowns := computeCountdowns(high, low, closes, completedBuy, completedSell, opts.CountdownLength, opts.ApplyPerfection)
	res.BuyCountdown = countdowns.buy
	res.SellCountdown = countdowns.sell
	if opts.ApplyPerfection {
		res.PerfectedSetups = setups.perfected
		res.PerfectedCountdowns = countdowns.perfected
	}
	if opts.Levels {
		res.TDSTBuy, res.TDSTSell = computeLevels(high, low, setups.buy, setups.sell, opts.SetupLength)
	}

	for _, c := range setups.completed {
		logger.Debug().
			Int("bar", c.Bar).
			Str("direction", c.Direction.String()).
			Float64("high", c.High).
			Float64("low", c.Low).
			Msg("Setup completed")
	}

	out := f.Clone()
	columns := []column{
		{ColBuySetup, toFloats(res.BuySetup)},
		{ColSellSetup, toFloats(res.SellSetup)},
		{ColBuyCountdown, toFloats(res.BuyCountdown)},
		{ColSellCountdown, toFloats(res.SellCountdown)},
	}
	if opts.Levels {
		columns = append(columns, column{ColTDSTBuy, res.TDSTBuy}, column{ColTDSTSell, res.TDSTSell})
	}
	for _, c := range columns {
		if err := out.Set(c.name, c.values); err != nil {
			return nil, nil, err
		}
	}

	logger.Debug().
		Int("bars", f.Len()).
		Int("buy_setups", len(completedBuy)).
		Int("sell_setups", len(completedSell)).
		Msg("TD Sequential calculated")

	return out, res, nil
}

type column struct {
	name   string
	values []float64
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
