package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructPath(t *testing.T) {
	cameFrom := map[string]string{"b": "a", "c": "b", "d": "c"}

	assert.Equal(t, []string{"a", "b", "c", "d"}, ReconstructPath(cameFrom, "d", "a"))
	assert.Equal(t, []string{"b", "c"}, ReconstructPath(cameFrom, "c", "b"))
	assert.Equal(t, []string{"a"}, ReconstructPath(cameFrom, "a", "a"))
}

func TestReconstructPath_StopsAtRoot(t *testing.T) {
	cameFrom := map[int]int{2: 1, 3: 2}

	assert.Equal(t, []int{1, 2, 3}, ReconstructPath(cameFrom, 3, 99))
}

func TestReverse(t *testing.T) {
	s := []int{1, 2, 3, 4}
	Reverse(s)
	assert.Equal(t, []int{4, 3, 2, 1}, s)

	var empty []int
	Reverse(empty)
	assert.Empty(t, empty)
}
