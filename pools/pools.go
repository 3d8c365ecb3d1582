package pools

import (
	"sync"

	"github.com/Baptistemontan/bench-find-odd/radixsort"
)

// maxPooledLen bounds the slices kept in the pool to prevent memory bloat.
const maxPooledLen = 1 << 24

// GlobalPools provides centralized buffer pooling for the sort-then-scan finder
type GlobalPools struct {
	Int32Slices sync.Pool
	Sorters     sync.Pool
}

// Pools is the global instance of memory pools
var Pools = &GlobalPools{
	Int32Slices: sync.Pool{
		New: func() interface{} {
			slice := make([]int32, 0, 1024)
			return &slice
		},
	},
	Sorters: sync.Pool{
		New: func() interface{} {
			return radixsort.New[int32]()
		},
	},
}

// GetInt32Slice gets a slice of length n from the pool. Its contents are undefined.
func (gp *GlobalPools) GetInt32Slice(n int) []int32 {
	return growInt32Slice(gp.Int32Slices.Get().(*[]int32), n)
}

// growInt32Slice reslices *slicePtr to length n, replacing its backing array
// when it is too small so the pooled entry grows with its callers.
func growInt32Slice(slicePtr *[]int32, n int) []int32 {
	if cap(*slicePtr) < n {
		*slicePtr = make([]int32, n)
	}
	return (*slicePtr)[:n]
}

// ReturnInt32Slice returns a slice to the pool
func (gp *GlobalPools) ReturnInt32Slice(slice []int32) {
	if cap(slice) <= maxPooledLen {
		emptySlice := slice[:0]
		gp.Int32Slices.Put(&emptySlice)
	}
}

// GetSorter gets a radix sorter whose scratch buffers may already be sized
// by a previous caller.
func (gp *GlobalPools) GetSorter() *radixsort.Sorter[int32] {
	return gp.Sorters.Get().(*radixsort.Sorter[int32])
}

// ReturnSorter returns a sorter to the pool
func (gp *GlobalPools) ReturnSorter(s *radixsort.Sorter[int32]) {
	gp.Sorters.Put(s)
}

// Reset clears all pools (useful for testing)
func (gp *GlobalPools) Reset() {
	gp.Int32Slices = sync.Pool{New: gp.Int32Slices.New}
	gp.Sorters = sync.Pool{New: gp.Sorters.New}
}
