// Package indicator provides streaming technical indicators computed
// incrementally as bars arrive.
package indicator

// SMA is a sliding-window simple moving average. It keeps the last `window`
// observations in arrival order; each Add drops the oldest value once the
// window is full. The average is undefined until the window has filled.
type SMA struct {
	window int
	values []float64
	sum    float64
	next   int
	full   bool
}

// NewSMA creates a simple moving average over the given window size.
// window must be positive.
func NewSMA(window int) *SMA {
	return &SMA{
		window: window,
		values: make([]float64, window),
	}
}

// Add observes one value and returns the current average. ok is false until
// the window has accumulated `window` observations.
func (s *SMA) Add(v float64) (avg float64, ok bool) {
	if s.full {
		s.sum -= s.values[s.next]
	}
	s.values[s.next] = v
	s.sum += v

	s.next++
	if s.next == s.window {
		s.next = 0
		s.full = true
	}

	if !s.full {
		return 0, false
	}
	return s.sum / float64(s.window), true
}

// Value returns the current average without advancing the window. ok is
// false until the window has filled.
func (s *SMA) Value() (avg float64, ok bool) {
	if !s.full {
		return 0, false
	}
	return s.sum / float64(s.window), true
}

// Window returns the configured window size.
func (s *SMA) Window() int { return s.window }
