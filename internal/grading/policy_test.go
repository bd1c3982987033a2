package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassed(t *testing.T) {
	tests := []struct {
		name           string
		score          float64
		scoredPossible float64
		passingScore   float64
		want           bool
	}{
		{"exactly at threshold passes", 5, 10, 5, true},
		{"above threshold passes", 8, 10, 5, true},
		{"below threshold fails", 4, 10, 5, false},
		{"full marks against max threshold", 10, 10, 10, true},
		{"zero threshold always passes", 0, 10, 0, true},
		{"zero denominator with zero threshold passes", 0, 0, 0, true},
		{"zero denominator with positive threshold fails", 0, 0, 1, false},
		{"fractional denominator scales to ten", 3, 4, 7.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Passed(tt.score, tt.scoredPossible, tt.passingScore))
		})
	}
}
