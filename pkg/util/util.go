package util

import (
	"math"

	"golang.org/x/exp/rand"
)

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func ReverseG[T any](arr []T) []T {
	copyArr := make([]T, len(arr)) // should do on the copy )
	copy(copyArr, arr)
	for i, j := 0, len(copyArr)-1; i < j; i, j = i+1, j-1 {
		copyArr[i], copyArr[j] = copyArr[j], copyArr[i]
	}
	return copyArr
}

// RandIntRange returns a uniform integer in the closed interval [min, max].
func RandIntRange(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

// NewRand returns a generator seeded with seed, or with a time-independent fixed seed when seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = 42
	}
	return rand.New(rand.NewSource(seed))
}
