package finder

import (
	"fmt"
	"strings"

	"github.com/Baptistemontan/bench-find-odd/pools"
)

// Finder returns the value that occurs an odd number of times in its input.
// Every implementation returns 0 when no such value exists.
type Finder func(arr []int32) int32

// Method is a named Finder.
type Method struct {
	Name        string
	Description string
	Find        Finder
}

var methods = []Method{
	{Name: "xor", Description: "XOR fold, O(n) time, O(1) space", Find: FindXOR},
	{Name: "hashmap", Description: "map tally, O(n) time and space", Find: FindHashMap},
	{Name: "tally", Description: "concurrent haxmap tally of parities", Find: FindTally},
	{Name: "radix", Description: "LSD radix sort of a copy, then odd run scan", Find: FindRadix},
}

// Methods returns every registered method in benchmark order.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// Names returns the registered method names in benchmark order.
func Names() []string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Name
	}
	return names
}

// Lookup returns the method registered under name.
func Lookup(name string) (Method, error) {
	for _, m := range methods {
		if m.Name == name {
			return m, nil
		}
	}
	return Method{}, fmt.Errorf("unknown method %q (available: %s)", name, strings.Join(Names(), ", "))
}

// FindOddRun scans a slice sorted in ascending order and returns the value of
// the first run of equal elements whose length is odd, including the final run.
// It returns the zero value for an empty slice or when every run is even.
// sorted is not modified.
func FindOddRun[T comparable](sorted []T) T {
	var zero T
	if len(sorted) == 0 {
		return zero
	}

	run, count := sorted[0], 1
	for _, v := range sorted[1:] {
		if v == run {
			count++
			continue
		}
		if count%2 != 0 {
			return run
		}
		run, count = v, 1
	}

	if count%2 != 0 {
		return run
	}
	return zero
}

// FindXOR folds arr with XOR. Paired values cancel out, so the result is only
// meaningful when exactly one value appears an odd number of times.
func FindXOR(arr []int32) int32 {
	var acc int32
	for _, v := range arr {
		acc ^= v
	}
	return acc
}

// FindHashMap counts every value in a map and returns one with an odd count.
func FindHashMap(arr []int32) int32 {
	counts := make(map[int32]uint32, len(arr)/2+1)
	for _, v := range arr {
		counts[v]++
	}

	for k, c := range counts {
		if c%2 != 0 {
			return k
		}
	}
	return 0
}

// FindRadix sorts a pooled copy of arr with the radix sorter and scans it for
// the odd run. arr is not modified.
func FindRadix(arr []int32) int32 {
	owned := pools.Pools.GetInt32Slice(len(arr))
	defer pools.Pools.ReturnInt32Slice(owned)
	copy(owned, arr)

	sorter := pools.Pools.GetSorter()
	defer pools.Pools.ReturnSorter(sorter)
	sorter.Sort(owned)

	return FindOddRun(owned)
}
