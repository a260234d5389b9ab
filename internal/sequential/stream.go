package sequential

import (
	"math"

	"github.com/Alias1177/tdsequential/internal/model"
	"github.com/Alias1177/tdsequential/internal/ringbuf"
)

// Point is the classification of one bar pushed into a Stream
type Point struct {
	Bar           int
	BuySetup      int
	SellSetup     int
	BuyCountdown  int
	SellCountdown int
	// TDSTBuy and TDSTSell are NaN without an active level or when levels are off
	TDSTBuy  float64
	TDSTSell float64

	// Completed is set when a setup completed on this bar
	Completed *CompletedSetup
	// PerfectedSetup and PerfectedCountdown are only set with ApplyPerfection
	PerfectedSetup     bool
	PerfectedCountdown bool
}

// liveCountdown is one countdown instance still counting
type liveCountdown struct {
	direction Direction
	count     int
	bar8Close float64
	hasBar8   bool
}

// Stream classifies bars one at a time and produces, bar for bar, the same
// values as Calculate over the whole series. It keeps only the price window
// the rules look back over. A Stream is not safe for concurrent use.
type Stream struct {
	opts Options
	bar  int

	closes *ringbuf.Float
	highs  *ringbuf.Float
	lows   *ringbuf.Float

	setup  setupState
	live   []*liveCountdown
	levels levelState
}

// NewStream creates a stream for one price series
func NewStream(opts Options) *Stream {
	opts = opts.withDefaults()
	window := max(opts.SetupLength, countdownLookback+1, 4)
	return &Stream{
		opts:   opts,
		closes: ringbuf.NewFloat(flipLookback + 1),
		highs:  ringbuf.NewFloat(window),
		lows:   ringbuf.NewFloat(window),
		setup:  setupState{length: opts.SetupLength},
	}
}

// Bars returns how many bars have been pushed
func (s *Stream) Bars() int { return s.bar }

// Levels returns the TDST levels active after the last pushed bar
func (s *Stream) Levels() (buy, sell Level) {
	return s.levels.buy, s.levels.sell
}

// Push classifies the next bar. Bars must arrive in time order.
func (s *Stream) Push(c model.Candle) Point {
	s.closes.Push(c.Close)
	s.highs.Push(c.High)
	s.lows.Push(c.Low)

	i := s.bar
	s.bar++
	p := Point{Bar: i, TDSTBuy: math.NaN(), TDSTSell: math.NaN()}

	if i >= flipLookback {
		t := s.setup.advance(s.closeAt(0), s.closeAt(1), s.closeAt(4), s.closeAt(5))
		p.BuySetup, p.SellSetup = t.buy, t.sell
		if t.completed {
			p.Completed = s.completedSetup(i, t.direction)
			if s.opts.ApplyPerfection && s.opts.SetupLength >= 4 {
				p.PerfectedSetup = s.setupPerfected(t.direction)
			}
			s.startCountdown(t.direction)
		}
	}

	if i >= countdownLookback {
		p.BuyCountdown, p.SellCountdown, p.PerfectedCountdown = s.advanceCountdowns(c)
	}

	if s.opts.Levels {
		s.levels.invalidate(c.High, c.Low)
		if p.Completed != nil {
			if p.Completed.Direction == Buy {
				s.levels.assign(Buy, p.Completed.Low)
			} else {
				s.levels.assign(Sell, p.Completed.High)
			}
		}
		p.TDSTBuy = s.levels.buy.valueOrNaN()
		p.TDSTSell = s.levels.sell.valueOrNaN()
	}

	return p
}

// startCountdown kills every live countdown of the other direction and
// starts a new one for dir on the current bar
func (s *Stream) startCountdown(dir Direction) {
	kept := s.live[:0]
	for _, cd := range s.live {
		if cd.direction == dir {
			kept = append(kept, cd)
		}
	}
	s.live = append(kept, &liveCountdown{direction: dir})
}

// advanceCountdowns moves every live instance over the current bar. The
// newest instance that counts on the bar provides the bar's value.
func (s *Stream) advanceCountdowns(c model.Candle) (buy, sell int, perfected bool) {
	high2 := s.highAt(countdownLookback)
	low2 := s.lowAt(countdownLookback)

	kept := s.live[:0]
	for _, cd := range s.live {
		if !countdownQualifies(cd.direction, c.Close, low2, high2) {
			kept = append(kept, cd)
			continue
		}

		cd.count++
		if cd.direction == Buy {
			buy = cd.count
		} else {
			sell = cd.count
		}

		if s.opts.ApplyPerfection && cd.count == perfectionBar {
			cd.bar8Close, cd.hasBar8 = c.Close, true
		}
		if cd.count == s.opts.CountdownLength {
			if s.opts.ApplyPerfection && cd.hasBar8 && countdownPerfected(cd.direction, c.High, c.Low, cd.bar8Close) {
				perfected = true
			}
			continue
		}
		kept = append(kept, cd)
	}
	s.live = kept
	return buy, sell, perfected
}

func (s *Stream) completedSetup(bar int, dir Direction) *CompletedSetup {
	hi, lo := s.highAt(0), s.lowAt(0)
	for k := 1; k < s.opts.SetupLength; k++ {
		hi = max(hi, s.highAt(k))
		lo = min(lo, s.lowAt(k))
	}
	return &CompletedSetup{Bar: bar, Direction: dir, High: hi, Low: lo}
}

func (s *Stream) setupPerfected(dir Direction) bool {
	if dir == Buy {
		return setupPerfected(dir, s.lowAt(3), s.lowAt(2), s.lowAt(1), s.lowAt(0))
	}
	return setupPerfected(dir, s.highAt(3), s.highAt(2), s.highAt(1), s.highAt(0))
}

func (s *Stream) closeAt(k int) float64 {
	v, _ := s.closes.Back(k)
	return v
}

func (s *Stream) highAt(k int) float64 {
	v, _ := s.highs.Back(k)
	return v
}

func (s *Stream) lowAt(k int) float64 {
	v, _ := s.lows.Back(k)
	return v
}
