package scheduler

import (
	"fmt"
	"math"
)

// DistributionTotal is the sum a set of priority sliders keeps.
const DistributionTotal = 100

// Redistribute sets values[index] to newValue and spreads the opposite change
// across the other entries in proportion to their share of the remainder. The
// last other entry absorbs rounding so the total is preserved whenever the
// 0..100 clamp allows it. The input slice is not modified.
func Redistribute(values []int, index, newValue int) ([]int, error) {
	if index < 0 || index >= len(values) {
		return nil, fmt.Errorf("index %d out of range", index)
	}
	if newValue < 0 || newValue > DistributionTotal {
		return nil, fmt.Errorf("value %d outside 0..%d", newValue, DistributionTotal)
	}

	out := make([]int, len(values))
	copy(out, values)
	oldValue := out[index]
	difference := newValue - oldValue
	out[index] = newValue

	others := make([]int, 0, len(values)-1)
	for i := range values {
		if i != index {
			others = append(others, i)
		}
	}

	totalOthers := DistributionTotal - oldValue
	remaining := -difference
	for n, i := range others {
		if n == len(others)-1 {
			out[i] = clampPercent(out[i] + remaining)
			break
		}
		adjustment := 0
		if totalOthers > 0 {
			share := float64(out[i]) / float64(totalOthers)
			adjustment = roundHalfUp(share * float64(-difference))
		}
		out[i] = clampPercent(out[i] + adjustment)
		remaining -= adjustment
	}
	return out, nil
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > DistributionTotal {
		return DistributionTotal
	}
	return v
}

// roundHalfUp rounds .5 toward positive infinity, matching slider behaviour in the UI.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
