package aireport

import "math"

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Pct returns made/attempted as a percentage rounded to one decimal, or nil
// when nothing was attempted. Callers surface nil as an absent field rather
// than a fake 0%.
func Pct(made, attempted int) *float64 {
	if attempted == 0 {
		return nil
	}
	v := Round1(float64(made) / float64(attempted) * 100)
	return &v
}
