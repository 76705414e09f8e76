package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseG(t *testing.T) {
	arr := []int32{1, 2, 3, 4}
	rev := ReverseG(arr)

	assert.Equal(t, []int32{4, 3, 2, 1}, rev)
	assert.Equal(t, []int32{1, 2, 3, 4}, arr, "input must not be modified")
	assert.Empty(t, ReverseG([]int32{}))
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 3.14, RoundFloat(3.14159, 2))
	assert.Equal(t, 2.0, RoundFloat(1.96, 1))
}

func TestRandIntRange(t *testing.T) {
	rng := NewRand(7)
	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		v := RandIntRange(rng, -2, 2)
		assert.GreaterOrEqual(t, v, -2)
		assert.LessOrEqual(t, v, 2)
		seen[v] = true
	}
	assert.Len(t, seen, 5)

	assert.Equal(t, 5, RandIntRange(rng, 5, 5))
	assert.Equal(t, 5, RandIntRange(rng, 5, 1))
}

func TestNewRandDeterministic(t *testing.T) {
	a := NewRand(11)
	b := NewRand(11)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}
