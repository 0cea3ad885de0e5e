package puzzle

import "math/rand/v2"

// Shuffle returns a uniformly random permutation of xs without touching xs.
// It runs Fisher–Yates from the last index down to 1, drawing j in [0, i].
// A nil rng uses the package-level source.
func Shuffle[T any](xs []T, rng *rand.Rand) []T {
	out := append([]T(nil), xs...)
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for i := len(out) - 1; i > 0; i-- {
		j := intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
