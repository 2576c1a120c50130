package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSubtype(t *testing.T) {
	assert.Equal(t, "ohca", NormalizeSubtype("OHCA"))
	assert.Equal(t, "liveview", NormalizeSubtype(" LiveView "))
	assert.Equal(t, "", NormalizeSubtype(""))
}

func TestGetSubtypeOrder(t *testing.T) {
	assert.Less(t, GetSubtypeOrder("ohca"), GetSubtypeOrder("liveview"))
	assert.Less(t, GetSubtypeOrder("liveview"), GetSubtypeOrder("fire"))
	assert.Equal(t, GetSubtypeOrder("fire"), GetSubtypeOrder("unknown"))
}

func TestSortSubtypes(t *testing.T) {
	input := []string{"patrol", "liveview", "fire", "OHCA"}
	assert.Equal(t, []string{"OHCA", "liveview", "fire", "patrol"}, SortSubtypes(input))

	// Input slice is not mutated.
	assert.Equal(t, []string{"patrol", "liveview", "fire", "OHCA"}, input)
}
