package sequential

import (
	"fmt"

	"github.com/Alias1177/tdsequential/internal/frame"
)

// SignalKind tells a completed setup from a completed countdown
type SignalKind int

const (
	SetupSignal SignalKind = iota
	CountdownSignal
)

func (k SignalKind) String() string {
	if k == CountdownSignal {
		return "Countdown"
	}
	return "Setup"
}

// Signal is a bar on which a counter reached its terminal value
type Signal struct {
	Bar       int
	Label     string
	Kind      SignalKind
	Direction Direction
}

// Name is the human name of the signal, e.g. "Buy Countdown"
func (s Signal) Name() string {
	return s.Direction.String() + " " + s.Kind.String()
}

func (s Signal) String() string {
	return fmt.Sprintf("last signal: %s completed at bar %s", s.Name(), s.Label)
}

// LastSignal returns the most recent bar of f where a setup reached
// setupLength or a countdown reached countdownLength. When several counters
// end on that bar, buy setup wins over sell setup, which wins over buy
// countdown, then sell countdown. It returns nil when there is no such bar.
func LastSignal(f *frame.Frame, setupLength, countdownLength int) (*Signal, error) {
	if setupLength <= 0 {
		setupLength = DefaultSetupLength
	}
	if countdownLength <= 0 {
		countdownLength = DefaultCountdownLength
	}

	checks := []struct {
		column    string
		terminal  int
		kind      SignalKind
		direction Direction
	}{
		{ColBuySetup, setupLength, SetupSignal, Buy},
		{ColSellSetup, setupLength, SetupSignal, Sell},
		{ColBuyCountdown, countdownLength, CountdownSignal, Buy},
		{ColSellCountdown, countdownLength, CountdownSignal, Sell},
	}

	values := make([][]float64, len(checks))
	for i, c := range checks {
		col, ok := f.Column(c.column)
		if !ok {
			return nil, &PreconditionError{Column: c.column}
		}
		values[i] = col
	}

	for bar := f.Len() - 1; bar >= 0; bar-- {
		for i, c := range checks {
			if values[i][bar] == float64(c.terminal) {
				return &Signal{
					Bar:       bar,
					Label:     f.Label(bar),
					Kind:      c.kind,
					Direction: c.direction,
				}, nil
			}
		}
	}
	return nil, nil
}
