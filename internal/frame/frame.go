package frame

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Alias1177/tdsequential/internal/model"
)

// Default column names used by FromCandles
const (
	ColOpen   = "Open"
	ColHigh   = "High"
	ColLow    = "Low"
	ColClose  = "Close"
	ColVolume = "Volume"
)

// ErrLengthMismatch is returned when a column or index does not match the frame length
var ErrLengthMismatch = errors.New("length does not match frame")

// Frame is an ordered set of float64 columns aligned on a shared row index.
// Row labels are optional; when absent a row is addressed by its position.
type Frame struct {
	n       int
	labels  []string
	names   []string
	columns map[string][]float64
}

// New creates an empty frame with n rows and no columns
func New(n int) *Frame {
	if n < 0 {
		n = 0
	}
	return &Frame{
		n:       n,
		columns: make(map[string][]float64),
	}
}

// FromCandles builds a frame with Open/High/Low/Close/Volume columns and the
// candle datetimes as row labels
func FromCandles(candles []model.Candle) *Frame {
	f := New(len(candles))
	open := make([]float64, len(candles))
	high := make([]float64, len(candles))
	low := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	volume := make([]float64, len(candles))
	labels := make([]string, len(candles))

	for i, c := range candles {
		open[i] = c.Open
		high[i] = c.High
		low[i] = c.Low
		closes[i] = c.Close
		volume[i] = float64(c.Volume)
		labels[i] = c.Datetime
	}

	f.put(ColOpen, open)
	f.put(ColHigh, high)
	f.put(ColLow, low)
	f.put(ColClose, closes)
	f.put(ColVolume, volume)
	f.labels = labels
	return f
}

// Len returns the number of rows
func (f *Frame) Len() int { return f.n }

// Has reports whether the named column exists
func (f *Frame) Has(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Columns returns the column names in insertion order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Column returns a copy of the named column
func (f *Frame) Column(name string) ([]float64, bool) {
	col, ok := f.columns[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, true
}

// Set adds or replaces a column. The values are copied.
func (f *Frame) Set(name string, values []float64) error {
	if len(values) != f.n {
		return fmt.Errorf("column %q has %d values, frame has %d rows: %w", name, len(values), f.n, ErrLengthMismatch)
	}
	col := make([]float64, len(values))
	copy(col, values)
	f.put(name, col)
	return nil
}

// SetIndex attaches row labels
func (f *Frame) SetIndex(labels []string) error {
	if len(labels) != f.n {
		return fmt.Errorf("index has %d labels, frame has %d rows: %w", len(labels), f.n, ErrLengthMismatch)
	}
	f.labels = make([]string, len(labels))
	copy(f.labels, labels)
	return nil
}

// Label returns the label of row i, or its position when the frame has no index
func (f *Frame) Label(i int) string {
	if f.labels != nil && i >= 0 && i < len(f.labels) {
		return f.labels[i]
	}
	return strconv.Itoa(i)
}

// HasIndex reports whether the frame carries row labels
func (f *Frame) HasIndex() bool { return f.labels != nil }

// Clone returns a deep copy of the frame
func (f *Frame) Clone() *Frame {
	c := New(f.n)
	for _, name := range f.names {
		col := make([]float64, len(f.columns[name]))
		copy(col, f.columns[name])
		c.put(name, col)
	}
	if f.labels != nil {
		c.labels = make([]string, len(f.labels))
		copy(c.labels, f.labels)
	}
	return c
}

func (f *Frame) put(name string, col []float64) {
	if _, exists := f.columns[name]; !exists {
		f.names = append(f.names, name)
	}
	f.columns[name] = col
}
