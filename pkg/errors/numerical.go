package errors

import (
	"fmt"
	"math"
)

// CheckFinite returns a ValueError when any value is NaN or Inf.
func CheckFinite(operation string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewValueError(operation, fmt.Sprintf("non-finite value %v at position %d", v, i))
		}
	}
	return nil
}
