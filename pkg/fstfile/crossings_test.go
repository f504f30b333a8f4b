package fstfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountCrossings(t *testing.T) {
	succ := [][]int{{3}, {2}, nil, nil}
	assert.Equal(t, 1, countCrossings([]int{0, 1}, []int{2, 3}, succ))
	assert.Equal(t, 0, countCrossings([]int{0, 1}, []int{3, 2}, succ))
	assert.Equal(t, 0, countCrossings([]int{0, 1}, nil, succ))
}

func TestReduceCrossings(t *testing.T) {
	succ := [][]int{{3}, {2}, nil, nil}
	layers := [][]int{{0, 1}, {2, 3}}
	reduced := reduceCrossings(layers, succ)

	assert.Equal(t, [][]int{{0, 1}, {3, 2}}, reduced)
	assert.Equal(t, 0, totalCrossings(reduced, succ))
	// input layers are left untouched
	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, layers)
}

func TestReduceCrossingsSingleLayer(t *testing.T) {
	layers := [][]int{{1, 0}}
	assert.Equal(t, layers, reduceCrossings(layers, [][]int{nil, nil}))
}
