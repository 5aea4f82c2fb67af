package messages

import "math"

// Finite reports whether every value is a usable number (no NaN, no Inf).
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
