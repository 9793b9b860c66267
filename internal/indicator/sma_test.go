package indicator

import "testing"

func TestSMAWarmup(t *testing.T) {
	s := NewSMA(3)

	if _, ok := s.Add(1); ok {
		t.Error("SMA reported a value after 1 of 3 observations")
	}
	if _, ok := s.Add(2); ok {
		t.Error("SMA reported a value after 2 of 3 observations")
	}
	avg, ok := s.Add(3)
	if !ok {
		t.Fatal("SMA did not report a value after filling the window")
	}
	if avg != 2 {
		t.Errorf("avg = %v, want 2", avg)
	}
}

func TestSMASlides(t *testing.T) {
	s := NewSMA(3)
	s.Add(1)
	s.Add(2)
	s.Add(3)

	// Adding 7 drops the oldest value (1): (2+3+7)/3 = 4.
	avg, ok := s.Add(7)
	if !ok {
		t.Fatal("SMA lost its value after the window filled")
	}
	if avg != 4 {
		t.Errorf("avg = %v, want 4 (window must slide, not accumulate)", avg)
	}

	// Value returns the same without advancing.
	if v, ok := s.Value(); !ok || v != 4 {
		t.Errorf("Value() = %v, %v, want 4, true", v, ok)
	}
}

func TestSMAValueBeforeFull(t *testing.T) {
	s := NewSMA(14)
	for i := 0; i < 13; i++ {
		s.Add(100)
	}
	if _, ok := s.Value(); ok {
		t.Error("Value() reported ok with 13 of 14 observations")
	}
}
