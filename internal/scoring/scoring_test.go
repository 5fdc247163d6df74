package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotal(t *testing.T) {
	tests := []struct {
		name   string
		scores []Weighted
		want   string
	}{
		{"two qualities", []Weighted{{Score: 8, Weightage: 60}, {Score: 5, Weightage: 40}}, "6.8"},
		{"perfect", []Weighted{{Score: 10, Weightage: 100}}, "10"},
		{"rounds half up", []Weighted{{Score: 7, Weightage: 50}, {Score: 8.1, Weightage: 50}}, "7.6"},
		{"empty", nil, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(tt.scores)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSumWeightageIsExact(t *testing.T) {
	sum := SumWeightage([]float64{33.3, 33.3, 33.4})
	assert.True(t, Complete(sum), "sum = %s", sum)

	sum = SumWeightage([]float64{0.1, 0.2, 99.7})
	assert.True(t, Complete(sum), "sum = %s", sum)

	assert.False(t, Complete(SumWeightage([]float64{60, 39})))
}

func TestFits(t *testing.T) {
	current := SumWeightage([]float64{60, 30})

	assert.True(t, Fits(current, 10))
	assert.True(t, Fits(current, 0))
	assert.False(t, Fits(current, 10.1))
}

func TestMatches(t *testing.T) {
	exact := Exact([]Weighted{{Score: 8, Weightage: 60}, {Score: 5, Weightage: 40}})

	assert.True(t, Matches(6.8, exact))
	assert.True(t, Matches(6.80001, exact))
	assert.False(t, Matches(6.9, exact))
	assert.False(t, Matches(9.5, exact))
}

func TestMatchesClientRounding(t *testing.T) {
	tests := []struct {
		name      string
		scores    []Weighted
		submitted float64
		want      bool
	}{
		{"half rounded down", []Weighted{{Score: 4.5, Weightage: 5}, {Score: 5.5, Weightage: 95}}, 5.4, true},
		{"half rounded up", []Weighted{{Score: 4.5, Weightage: 5}, {Score: 5.5, Weightage: 95}}, 5.5, true},
		{"two steps off", []Weighted{{Score: 4.5, Weightage: 5}, {Score: 5.5, Weightage: 95}}, 5.3, false},
		{"unrounded", []Weighted{{Score: 10, Weightage: 3}, {Score: 5, Weightage: 97}}, 5.15, true},
		{"lower neighbour", []Weighted{{Score: 10, Weightage: 3}, {Score: 5, Weightage: 97}}, 5.1, true},
		{"upper neighbour", []Weighted{{Score: 10, Weightage: 3}, {Score: 5, Weightage: 97}}, 5.2, true},
		{"past half a step", []Weighted{{Score: 8, Weightage: 60}, {Score: 5, Weightage: 40}}, 6.86, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.submitted, Exact(tt.scores)))
		})
	}
}

func TestTotalRoundsExact(t *testing.T) {
	scores := []Weighted{{Score: 4.5, Weightage: 5}, {Score: 5.5, Weightage: 95}}

	assert.True(t, Exact(scores).Equal(decimal.RequireFromString("5.45")))
	assert.True(t, Total(scores).Equal(decimal.RequireFromString("5.5")))
}
