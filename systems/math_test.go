package systems

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{3, 4, 2, 4}, // inverted bounds resolve to lo
	}
	for _, tc := range tests {
		if got := Clamp(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestHypot(t *testing.T) {
	if got := Hypot(3, 4); got != 5 {
		t.Errorf("Hypot(3, 4) = %v, want 5", got)
	}
}

func TestFinite(t *testing.T) {
	if !Finite(1.5) {
		t.Error("expected 1.5 to be finite")
	}
	if Finite(math.NaN()) || Finite(math.Inf(1)) {
		t.Error("expected NaN and Inf to be rejected")
	}
}
