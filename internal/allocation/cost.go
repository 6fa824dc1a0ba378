package allocation

import "math"

// EstimateCostCents derives the estimated cost of an allocation in the
// smallest currency unit:
//
//	cost = percent/100 × durationDays × dailyRateCents
//
// The result is rounded half away from zero (math.Round semantics). The
// rounding policy is deliberate and load-bearing: financial totals built
// from these estimates downstream are sensitive to it, so it must not
// silently change to banker's rounding.
//
// durationDays counts calendar days inclusive of both endpoints. Inputs
// that make no business sense (non-positive percent, days, or rate) yield
// zero rather than a negative estimate.
func EstimateCostCents(percent, durationDays int, dailyRateCents int64) int64 {
	if percent <= 0 || durationDays <= 0 || dailyRateCents <= 0 {
		return 0
	}
	amount := float64(percent) / 100 * float64(durationDays) * float64(dailyRateCents)
	return int64(math.Round(amount))
}
