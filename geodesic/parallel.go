package geodesic

import (
	"sync"

	"github.com/cgeom/paraheat/utils"
)

// parallelInterval shards [begin, end) across the worker pool and joins
// before returning. Used for ranges that change per call, such as one BFS
// segment; fixed ranges go through the precomputed PartitionMaps.
func (s *Solver) parallelInterval(begin, end int, f func(lo, hi int)) {
	n := end - begin
	if n <= 0 {
		return
	}
	np := s.NP
	if np > n {
		np = n
	}
	if np == 1 {
		f(begin, end)
		return
	}
	pm := utils.NewPartitionMap(np, n)
	wg := sync.WaitGroup{}
	for i := 0; i < np; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lo, hi := pm.GetBucketRange(i)
			f(begin+lo, begin+hi)
		}(i)
	}
	wg.Wait()
}
