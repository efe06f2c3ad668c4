// Package picker scores options from their accept/skip history and draws one
// of them from a distribution shaped by an adventurousness knob.
//
// Everything here is pure: callers hand in the pool, a read-only score lookup
// and a random source, and get a title back.
package picker

import (
	"math"
)

const (
	// DefaultAdventure is used when no adventurousness was chosen.
	DefaultAdventure = 0.30

	// minTemperature is the sharpest softmax used (adventure = 0).
	minTemperature = 0.15

	sumFloor  = 1e-12
	probFloor = 1e-9
)

// ScoreFunc maps a title to its preference score.
type ScoreFunc func(title string) float64

// Pick selects one title from pool. It returns false only when pool is empty.
//
// Scores are turned into a temperature softmax, blended with a uniform
// distribution by adventure, and sampled once with src.
func Pick(pool []string, score ScoreFunc, adventure float64, src Source) (string, bool) {
	if len(pool) == 0 {
		return "", false
	}
	if src == nil {
		src = defaultSource
	}

	probs := Distribution(pool, score, adventure)
	return pool[sample(probs, src.Float64())], true
}

// Distribution returns the sampling probability of every pool entry, in pool
// order. The result sums to 1 and every entry is strictly positive.
func Distribution(pool []string, score ScoreFunc, adventure float64) []float64 {
	if len(pool) == 0 {
		return nil
	}

	scores := make([]float64, len(pool))
	for i, title := range pool {
		scores[i] = score(title)
	}

	prefProb := softmax(scores, Temperature(adventure))
	return mixWithUniform(prefProb, adventure)
}

// Temperature returns the softmax temperature for an adventurousness value.
// Lower adventure gives a lower temperature and a more peaked distribution.
func Temperature(adventure float64) float64 {
	return math.Max(minTemperature, 0.55-0.45*(1-adventure))
}

// BetaMean is the Laplace-smoothed acceptance rate (s+1)/(s+f+2). An option
// with no history scores exactly 0.5.
func BetaMean(success, failure int) float64 {
	a := float64(success + 1)
	b := float64(failure + 1)
	return a / (a + b)
}

// AdventureLabel returns the display band for an adventurousness value.
func AdventureLabel(adventure float64) string {
	switch {
	case adventure < 0.05:
		return "No Adventure"
	case adventure < 0.25:
		return "Low"
	case adventure < 0.50:
		return "Balanced-"
	case adventure < 0.75:
		return "Balanced+"
	case adventure < 0.95:
		return "High"
	default:
		return "Surprise Me"
	}
}

// ClampAdventure forces adventure into [0, 1]. NaN maps to DefaultAdventure.
func ClampAdventure(adventure float64) float64 {
	if math.IsNaN(adventure) {
		return DefaultAdventure
	}
	return math.Min(1, math.Max(0, adventure))
}

func softmax(x []float64, tau float64) []float64 {
	maxX := x[0]
	for _, v := range x[1:] {
		if v > maxX {
			maxX = v
		}
	}

	exps := make([]float64, len(x))
	var sum float64
	for i, v := range x {
		exps[i] = math.Exp((v - maxX) / tau)
		sum += exps[i]
	}

	denom := math.Max(sum, sumFloor)
	for i := range exps {
		exps[i] /= denom
	}
	return exps
}

func mixWithUniform(probs []float64, weight float64) []float64 {
	uniform := 1.0 / float64(len(probs))

	mixed := make([]float64, len(probs))
	var sum float64
	for i, p := range probs {
		mixed[i] = math.Max(probFloor, (1-weight)*p+weight*uniform)
		sum += mixed[i]
	}
	for i := range mixed {
		mixed[i] /= sum
	}
	return mixed
}

// sample walks the cumulative distribution and returns the first index whose
// running total exceeds r. Rounding can leave the total just under 1, in
// which case the last index wins.
func sample(probs []float64, r float64) int {
	var cum float64
	for i, p := range probs {
		cum += p
		if r < cum {
			return i
		}
	}
	return len(probs) - 1
}
