package analysis

import "math"

// DefaultConfidence is the confidence level used for rate table intervals.
const DefaultConfidence = 0.95

// ProportionCI computes the Wilson score confidence interval for a
// binomial proportion. The interval stays inside [0,1] and remains
// usable for the small strata common in early surveillance years, which
// a plain normal approximation does not. A zero total yields the
// degenerate interval [0,0]; callers must check the sample size before
// trusting it.
func ProportionCI(successes, total int, confidence float64) (lower, upper float64) {
	if total == 0 {
		return 0, 0
	}

	p := float64(successes) / float64(total)
	n := float64(total)
	z := math.Sqrt2 * math.Erfinv(confidence)

	denom := 1 + z*z/n
	center := (p + z*z/(2*n)) / denom
	halfwidth := z * math.Sqrt(p*(1-p)/n+z*z/(4*n*n)) / denom

	return math.Max(0, center-halfwidth), math.Min(1, center+halfwidth)
}
