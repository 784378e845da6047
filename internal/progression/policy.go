// Package progression computes the next suggested training weight and keeps
// the per user, per exercise progression profiles.
package progression

const (
	BigIncrementKg   = 5.0
	SmallIncrementKg = 2.5

	bigIncrementMinRIR   = 4.0
	smallIncrementMinRIR = 1.0
)

// NextWeight suggests the weight for the next session from the last
// completed weight and the reps-in-reserve reported for it.
func NextWeight(lastCompletedWeight, rir float64) float64 {
	switch {
	case rir >= bigIncrementMinRIR:
		return lastCompletedWeight + BigIncrementKg
	case rir >= smallIncrementMinRIR:
		return lastCompletedWeight + SmallIncrementKg
	default:
		return lastCompletedWeight
	}
}
