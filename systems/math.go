package systems

import "math"

// Clamp restricts v to [lo, hi]. When lo > hi the result is lo.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Hypot returns the magnitude of the vector (dx, dy).
func Hypot(dx, dy float64) float64 {
	return math.Hypot(dx, dy)
}

// sign returns -1, 0 or 1.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Finite is the exported form of finite for host-side input checks.
func Finite(v float64) bool {
	return finite(v)
}
