package duel

import "math/rand"

// Source is the randomness a duel draws from. Tests script it; production
// uses the runtime's goroutine-safe generator.
type Source interface {
	Float64() float64
	IntN(n int) int
}

type runtimeSource struct{}

func (runtimeSource) Float64() float64 { return rand.Float64() }
func (runtimeSource) IntN(n int) int   { return rand.Intn(n) }

func DefaultSource() Source {
	return runtimeSource{}
}

// Negative magnitudes lower the participant's value, which is the good
// direction.
const (
	TopLucky    = -5
	BottomLucky = -10
)

func chance(src Source, p float64) bool {
	return src.Float64() < p
}

// between draws from [lo, hi).
func between(src Source, lo, hi int) int {
	return lo + src.IntN(hi-lo)
}

// TopDamage is the magnitude for the attacking role: usually small, rarely a
// complication, very rarely a lucky improvement.
func TopDamage(src Source) int {
	if chance(src, 0.10) {
		if chance(src, 0.40) {
			return TopLucky
		}
		return between(src, 5, 10)
	}
	return between(src, 1, 5)
}

// BottomDamage is the magnitude for the receiving role.
func BottomDamage(src Source) int {
	if chance(src, 0.15) {
		if chance(src, 0.30) {
			return BottomLucky
		}
		return between(src, 18, 25)
	}
	return between(src, 4, 19)
}

// TreatmentDelta is the daily single-party change: 70% of the time an
// improvement of 1..10, otherwise a setback of 1..15.
func TreatmentDelta(src Source) int {
	if chance(src, 0.7) {
		return -(between(src, 10, 101) / 10)
	}
	return between(src, 10, 151) / 10
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
