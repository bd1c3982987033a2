package grading

// PassScale normalizes the score ratio before comparing against a test's
// passing score: passing thresholds live on a fixed 0-10 scale, not a
// percentage.
const PassScale = 10.0

// Passed reports whether a finished attempt clears the passing threshold.
//
// The rule is deliberately two-branched: with a positive denominator the
// scaled ratio is compared against the threshold; with a zero denominator
// the attempt passes only when the threshold itself is zero. Changing
// either branch needs a product decision.
func Passed(score, scoredPossible, passingScore float64) bool {
	if scoredPossible > 0 {
		return (score/scoredPossible)*PassScale >= passingScore
	}
	return passingScore == 0
}
