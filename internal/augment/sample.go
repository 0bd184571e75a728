package augment

import (
	"math/rand/v2"
	"slices"
)

// sample draws k distinct elements of idx uniformly without replacement and
// returns them in ascending order. idx is not modified.
func sample(rng *rand.Rand, idx []int, k int) []int {
	if k <= 0 || len(idx) == 0 {
		return nil
	}
	pool := slices.Clone(idx)
	if k < len(pool) {
		// частичный Фишер-Йейтс
		for i := 0; i < k; i++ {
			j := i + rng.IntN(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}
		pool = pool[:k]
	}
	slices.Sort(pool)
	return pool
}

func indexRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
