// Package scoring holds the weighted-score arithmetic used by induction.
// Sums are computed with decimals so that weightages like 33.3 + 33.3 + 33.4
// add up to exactly 100.
package scoring

import (
	"github.com/shopspring/decimal"
)

// FullWeightage is the sum every organisation's qualities must reach before
// contestants can be evaluated.
var FullWeightage = decimal.NewFromInt(100)

// Places is the number of decimal places a final score is rounded to.
const Places = 1

// Weighted is a score paired with the weightage of its quality.
type Weighted struct {
	Score     float64
	Weightage float64
}

// SumWeightage adds weightages without floating point drift.
func SumWeightage(weightages []float64) decimal.Decimal {
	sum := decimal.Zero
	for _, w := range weightages {
		sum = sum.Add(decimal.NewFromFloat(w))
	}
	return sum
}

// Fits reports whether adding next to current stays within FullWeightage.
func Fits(current decimal.Decimal, next float64) bool {
	return current.Add(decimal.NewFromFloat(next)).LessThanOrEqual(FullWeightage)
}

// Complete reports whether sum is exactly FullWeightage.
func Complete(sum decimal.Decimal) bool {
	return sum.Equal(FullWeightage)
}

// Exact computes Σ(score × weightage / 100) without rounding.
func Exact(scores []Weighted) decimal.Decimal {
	total := decimal.Zero
	for _, s := range scores {
		part := decimal.NewFromFloat(s.Score).
			Mul(decimal.NewFromFloat(s.Weightage)).
			Div(FullWeightage)
		total = total.Add(part)
	}
	return total
}

// Total is Exact rounded to Places.
func Total(scores []Weighted) decimal.Decimal {
	return Exact(scores).Round(Places)
}

// tolerance is half a rounding step plus a little slack for float input.
var tolerance = decimal.New(5, -(Places + 1)).Add(decimal.New(1, -9))

// Matches reports whether a submitted total is a valid rounding of the exact
// sum. A client may round an exact 5.45 to either 5.4 or 5.5, so anything
// within half a step of exact is accepted.
func Matches(submitted float64, exact decimal.Decimal) bool {
	return exact.Sub(decimal.NewFromFloat(submitted)).Abs().LessThanOrEqual(tolerance)
}

// Float converts d for storage.
func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
