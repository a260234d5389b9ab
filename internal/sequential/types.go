package sequential

import (
	"fmt"

	"github.com/Alias1177/tdsequential/internal/frame"
)

// Output column names
const (
	ColBuySetup      = "buy_setup_count"
	ColSellSetup     = "sell_setup_count"
	ColBuyCountdown  = "buy_countdown_count"
	ColSellCountdown = "sell_countdown_count"
	ColTDSTBuy       = "tdst_buy"
	ColTDSTSell      = "tdst_sell"
)

const (
	DefaultSetupLength     = 9
	DefaultCountdownLength = 13

	// flipLookback is how far back the price flip compares closes
	flipLookback = 5
	// countdownLookback is the bar the countdown compares against
	countdownLookback = 2
)

// Direction of a setup or countdown
type Direction int

const (
	Buy Direction = iota
	Sell
)

func (d Direction) String() string {
	if d == Sell {
		return "Sell"
	}
	return "Buy"
}

// Opposite returns the other direction
func (d Direction) Opposite() Direction {
	if d == Buy {
		return Sell
	}
	return Buy
}

// Columns maps the logical price roles to the column names of the input frame
type Columns struct {
	Open  string
	High  string
	Low   string
	Close string
}

// DefaultColumns returns the column names produced by frame.FromCandles
func DefaultColumns() Columns {
	return Columns{
		Open:  frame.ColOpen,
		High:  frame.ColHigh,
		Low:   frame.ColLow,
		Close: frame.ColClose,
	}
}

// Options controls a calculation. Empty column names and non-positive
// lengths fall back to the defaults. ApplyPerfection and Levels are taken as
// given, so a zero Options computes neither; start from DefaultOptions to
// have both on.
type Options struct {
	Columns         Columns
	SetupLength     int
	CountdownLength int
	// ApplyPerfection only fills the perfection fields of Result; counts are unaffected
	ApplyPerfection bool
	// Levels adds the tdst_buy and tdst_sell columns
	Levels bool
}

// DefaultOptions returns the standard 9/13 configuration with perfection and levels on
func DefaultOptions() Options {
	return Options{
		Columns:         DefaultColumns(),
		SetupLength:     DefaultSetupLength,
		CountdownLength: DefaultCountdownLength,
		ApplyPerfection: true,
		Levels:          true,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultColumns()
	if o.Columns.Open == "" {
		o.Columns.Open = def.Open
	}
	if o.Columns.High == "" {
		o.Columns.High = def.High
	}
	if o.Columns.Low == "" {
		o.Columns.Low = def.Low
	}
	if o.Columns.Close == "" {
		o.Columns.Close = def.Close
	}
	if o.SetupLength <= 0 {
		o.SetupLength = DefaultSetupLength
	}
	if o.CountdownLength <= 0 {
		o.CountdownLength = DefaultCountdownLength
	}
	return o
}

// CompletedSetup records a setup that reached its full length
type CompletedSetup struct {
	Bar       int
	Direction Direction
	// High and Low are the extremes of the bars of the setup run
	High float64
	Low  float64
}

// MissingColumnError is returned when a required price column is absent
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// PreconditionError is returned when a query runs before the columns it reads exist
type PreconditionError struct {
	Column string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("column %q not found: run Calculate first", e.Column)
}
