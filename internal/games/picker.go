package games

import (
	"errors"
	"math/rand"
)

// pickDecay is the per-position weight decay: position i of the ordered
// list gets weight pickDecay^i, so earlier entries of the caller's sort
// order are proportionally more likely.
const pickDecay = 0.85

// ErrEmptyPick reports a pick over an empty list, which is a caller
// contract violation.
var ErrEmptyPick = errors.New("cannot pick from an empty game list")

// Pick selects one game from the ordered list with position-biased
// probability, using the shared random source.
func Pick(list []Game) (Game, error) {
	return PickWithRand(list, nil)
}

// PickWithRand is Pick with an explicit random source for deterministic
// tests. A single-element list returns its element without drawing any
// randomness at all. A nil rnd falls back to the shared source.
func PickWithRand(list []Game, rnd *rand.Rand) (Game, error) {
	if len(list) == 0 {
		return Game{}, ErrEmptyPick
	}
	if len(list) == 1 {
		return list[0], nil
	}

	weights := make([]float64, len(list))
	total := 0.0
	weight := 1.0
	for i := range list {
		weights[i] = weight
		total += weight
		weight *= pickDecay
	}

	var draw float64
	if rnd != nil {
		draw = rnd.Float64() * total
	} else {
		draw = rand.Float64() * total
	}

	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if draw < cumulative {
			return list[i], nil
		}
	}

	// Rounding in the cumulative sum can leave the draw marginally above
	// the final accumulated total; the draw still has to land somewhere.
	return list[0], nil
}
