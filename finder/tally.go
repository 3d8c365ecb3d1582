package finder

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/alphadose/haxmap"
)

// minTallyChunk keeps small inputs on a single worker.
const minTallyChunk = 4096

// FindTally counts occurrences in a lock-free haxmap shared by several
// workers and returns a value with an odd count.
func FindTally(arr []int32) int32 {
	return findTally(arr, tallyWorkers(len(arr)))
}

func tallyWorkers(n int) int {
	numWorkers := runtime.NumCPU()
	if numWorkers > 8 {
		numWorkers = 8 // Cap at 8 to reduce contention on hot buckets
	}
	if byChunk := n / minTallyChunk; byChunk < numWorkers {
		numWorkers = byChunk
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	return numWorkers
}

func findTally(arr []int32, workers int) int32 {
	if len(arr) == 0 {
		return 0
	}
	if workers < 1 {
		workers = 1
	}

	counts := haxmap.New[int32, *atomic.Uint32](uintptr(len(arr)/2 + 1))

	chunk := (len(arr) + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < len(arr); start += chunk {
		end := min(start+chunk, len(arr))
		wg.Add(1)
		go func(part []int32) {
			defer wg.Done()
			for _, v := range part {
				c, ok := counts.Get(v)
				if !ok {
					c, _ = counts.GetOrSet(v, new(atomic.Uint32))
				}
				c.Add(1)
			}
		}(arr[start:end])
	}
	wg.Wait()

	var found int32
	counts.ForEach(func(k int32, c *atomic.Uint32) bool {
		if c.Load()%2 != 0 {
			found = k
			return false
		}
		return true
	})
	return found
}
