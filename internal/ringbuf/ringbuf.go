package ringbuf

// Float is a fixed-size ring buffer of float64 values. Once full, every Push
// drops the oldest value.
type Float struct {
	buf   []float64
	cap   int
	len   int
	start int
}

func NewFloat(capacity int) *Float {
	if capacity <= 0 {
		capacity = 1
	}
	return &Float{buf: make([]float64, capacity), cap: capacity}
}

func (r *Float) Push(v float64) {
	if r.len < r.cap {
		r.buf[(r.start+r.len)%r.cap] = v
		r.len++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % r.cap
}

// Back returns the value pushed k pushes ago; Back(0) is the newest.
func (r *Float) Back(k int) (float64, bool) {
	if k < 0 || k >= r.len {
		return 0, false
	}
	return r.buf[(r.start+r.len-1-k)%r.cap], true
}

// Len reports how many values are held, at most the capacity.
func (r *Float) Len() int { return r.len }

// Cap reports the capacity.
func (r *Float) Cap() int { return r.cap }
