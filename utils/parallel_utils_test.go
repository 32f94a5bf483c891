package utils

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionMap(t *testing.T) {
	for _, tc := range []struct{ np, max int }{
		{1, 10}, {3, 10}, {4, 12}, {7, 5}, {8, 8},
	} {
		pm := NewPartitionMap(tc.np, tc.max)
		covered := 0
		prevEnd := 0
		for n := 0; n < tc.np; n++ {
			kMin, kMax := pm.GetBucketRange(n)
			require.Equal(t, prevEnd, kMin, "buckets must be contiguous")
			require.LessOrEqual(t, kMin, kMax)
			covered += kMax - kMin
			prevEnd = kMax
			assert.Equal(t, kMax-kMin, pm.GetBucketDimension(n))
		}
		assert.Equal(t, tc.max, covered)
		assert.Equal(t, tc.max, prevEnd)
		// imbalance of at most one item
		lo, hi := tc.max, 0
		for n := 0; n < tc.np; n++ {
			d := pm.GetBucketDimension(n)
			if d < lo {
				lo = d
			}
			if d > hi {
				hi = d
			}
		}
		assert.LessOrEqual(t, hi-lo, 1)
	}
}

func TestParallelFor(t *testing.T) {
	const N = 1000
	pm := NewPartitionMap(8, N)
	var sum int64
	hits := make([]int32, N)
	pm.ParallelFor(func(kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			atomic.AddInt32(&hits[k], 1)
			atomic.AddInt64(&sum, int64(k))
		}
	})
	assert.Equal(t, int64(N*(N-1)/2), sum)
	for k := 0; k < N; k++ {
		require.Equal(t, int32(1), hits[k])
	}
}
