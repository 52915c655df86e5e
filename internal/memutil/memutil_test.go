package memutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedAllocatorIsSingleton(t *testing.T) {
	a := SharedAllocator()
	b := SharedAllocator()
	assert.Same(t, a, b)
}

func TestEstimateSizeNil(t *testing.T) {
	assert.Equal(t, int64(0), EstimateSize(nil))
}

func TestEstimateSizeGrowsWithContent(t *testing.T) {
	small := map[int]int64{1: 1}
	big := map[int]int64{1: 1, 2: 2, 3: 3, 4: 4, 5: 5}
	assert.Greater(t, EstimateSize(big), EstimateSize(small))
}
