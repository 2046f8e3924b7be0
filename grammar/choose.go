package grammar

// Rand is the source of randomness for a Generator. *math/rand.Rand
// implements it.
type Rand interface {
	// Float64 returns a pseudo-random number in [0.0,1.0).
	Float64() float64
}

// chooseWeighted selects the first option whose running total weight
// reaches the given draw. The second return value is false if the weights
// are exhausted before reaching it, which can happen only if they sum to
// less than one.
func chooseWeighted(opts []Option, draw float64) (int, bool) {
	total := 0.0
	for i, opt := range opts {
		total += opt.Weight
		if draw <= total {
			return i, true
		}
	}
	return -1, false
}

// chooseUniform maps a draw in [0,1) to an index in [0,n). Will panic if
// n is not positive.
func chooseUniform(n int, draw float64) int {
	if n <= 0 {
		panic("chooseUniform with no candidates")
	}
	idx := int(draw * float64(n))
	switch {
	case idx < 0:
		return 0
	case idx >= n:
		// Only reachable through rounding when draw is very close to 1.
		return n - 1
	default:
		return idx
	}
}
