package rating

import (
	"fmt"
	"math"

	"github.com/yourusername/ski-ratings/internal/models"
)

// Logistic is the pairwise win-expectation curve: a rating gap of Spread
// points gives the stronger side Base-to-1 odds.
type Logistic struct {
	Base   float64
	Spread float64
}

// DefaultLogistic is the conventional Elo curve.
var DefaultLogistic = Logistic{Base: 10, Spread: 400}

// Expected returns the expected score of a competitor rated ri against one
// rated rj.
func (l Logistic) Expected(ri, rj float64) float64 {
	return 1 / (1 + math.Pow(l.Base, (rj-ri)/l.Spread))
}

// ActualScores returns each competitor's round-robin score over the full
// field: one point per opponent finishing behind, half a point per tie.
func ActualScores(places []int) []float64 {
	scores, _ := PartialActualScores(places, fullMask(len(places)))
	return scores
}

// ExpectedScores returns each competitor's expected round-robin score over
// the full field.
func ExpectedScores(ratings []float64, l Logistic) []float64 {
	scores, _ := PartialExpectedScores(ratings, fullMask(len(ratings)), l)
	return scores
}

// PartialActualScores is ActualScores restricted to opponents whose mask
// entry is true.
func PartialActualScores(places []int, mask []bool) ([]float64, error) {
	if len(places) != len(mask) {
		return nil, fmt.Errorf("%w: %d places, %d mask entries", models.ErrLengthMismatch, len(places), len(mask))
	}
	scores := make([]float64, len(places))
	for i := range places {
		for j := range places {
			if i == j || !mask[j] {
				continue
			}
			switch {
			case places[j] > places[i]:
				scores[i]++
			case places[j] == places[i]:
				scores[i] += 0.5
			}
		}
	}
	return scores, nil
}

// PartialExpectedScores is ExpectedScores restricted to opponents whose mask
// entry is true.
func PartialExpectedScores(ratings []float64, mask []bool, l Logistic) ([]float64, error) {
	if len(ratings) != len(mask) {
		return nil, fmt.Errorf("%w: %d ratings, %d mask entries", models.ErrLengthMismatch, len(ratings), len(mask))
	}
	scores := make([]float64, len(ratings))
	for i := range ratings {
		for j := range ratings {
			if i == j || !mask[j] {
				continue
			}
			scores[i] += l.Expected(ratings[i], ratings[j])
		}
	}
	return scores, nil
}

func fullMask(n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}
