package radixsort

import (
	"errors"
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// ErrInvalidInput is returned by the checked sort entry points when the data
// holds a value the digit extraction is not defined for (a negative number).
var ErrInvalidInput = errors.New("invalid input")

// RadixFunc derives the bucket count of each counting pass from the input length.
type RadixFunc func(n int) int

// Option configures a Sorter.
type Option func(*options)

type options struct {
	radix RadixFunc
}

// WithRadix replaces the default radix derivation (NextPowerOfTwo of the length).
// Results below 2 are raised to 2.
func WithRadix(fn RadixFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.radix = fn
		}
	}
}

// WithFixedRadix uses radix b for every input length.
func WithFixedRadix(b int) Option {
	return WithRadix(func(int) int { return b })
}

// NextPowerOfTwo returns the smallest power of two >= n. NextPowerOfTwo(0) is 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Plan describes the passes a sort of a given input will run.
type Plan struct {
	Radix  int
	Passes int
	Max    uint64
}

// Sorter is an LSD radix sorter for non-negative integers.
//
// The radix is chosen per call from the input length so that the counting
// table and the number of passes stay balanced: with b close to n the sort
// runs in O((n + b) * log_b(max)) time and O(n + b) space.
//
// The scratch buffer and counting table are kept between passes and between
// calls. A Sorter must not be used by more than one goroutine at a time.
type Sorter[T constraints.Integer] struct {
	radix   RadixFunc
	scratch []T
	counts  []int
}

// New returns a Sorter with the given options applied.
func New[T constraints.Integer](opts ...Option) *Sorter[T] {
	o := options{radix: NextPowerOfTwo}
	for _, opt := range opts {
		opt(&o)
	}
	return &Sorter[T]{radix: o.radix}
}

// Sort sorts data in place in ascending order.
//
// Negative values are not validated. They are keyed by their two's complement
// bit pattern and end up after every non-negative value; use SortChecked to
// reject them instead.
func (s *Sorter[T]) Sort(data []T) {
	n := len(data)
	if n <= 1 {
		return
	}

	maxKey := maxOf(data, key[T])
	if maxKey == 0 {
		return
	}

	radix := s.radixFor(n)
	if cap(s.scratch) < n {
		s.scratch = make([]T, n)
	}
	if cap(s.counts) < radix {
		s.counts = make([]int, radix)
	}

	sortKeyed(data, s.scratch[:n], s.counts[:radix], maxKey, key[T])
}

// SortChecked sorts data like Sort but first rejects negative values with an
// error wrapping ErrInvalidInput. data is left untouched on error.
func (s *Sorter[T]) SortChecked(data []T) error {
	if err := Validate(data); err != nil {
		return err
	}
	s.Sort(data)
	return nil
}

// Plan reports the radix and the number of counting passes Sort would use on data.
func (s *Sorter[T]) Plan(data []T) Plan {
	n := len(data)
	if n <= 1 {
		return Plan{Radix: s.radixFor(n)}
	}
	maxKey := maxOf(data, key[T])
	radix := s.radixFor(n)
	return Plan{Radix: radix, Passes: passCount(maxKey, uint64(radix)), Max: maxKey}
}

func (s *Sorter[T]) radixFor(n int) int {
	if r := s.radix(n); r >= 2 {
		return r
	}
	return 2
}

// Sort sorts data in place in ascending order with a fresh Sorter.
func Sort[T constraints.Integer](data []T) {
	New[T]().Sort(data)
}

// SortChecked sorts data in place after rejecting negative values.
func SortChecked[T constraints.Integer](data []T) error {
	return New[T]().SortChecked(data)
}

// SortFunc sorts records in place by an unsigned key with the same LSD passes
// as Sort. Records with equal keys keep their relative order.
func SortFunc[E any](data []E, keyOf func(E) uint64) {
	n := len(data)
	if n <= 1 {
		return
	}
	maxKey := maxOf(data, keyOf)
	if maxKey == 0 {
		return
	}
	radix := max(2, NextPowerOfTwo(n))
	sortKeyed(data, make([]E, n), make([]int, radix), maxKey, keyOf)
}

func key[T constraints.Integer](v T) uint64 {
	return uint64(v)
}

func maxOf[E any](data []E, keyOf func(E) uint64) uint64 {
	var m uint64
	for _, e := range data {
		if k := keyOf(e); k > m {
			m = k
		}
	}
	return m
}

// Validate reports the first negative value in data as an error wrapping
// ErrInvalidInput.
func Validate[T constraints.Integer](data []T) error {
	for i, v := range data {
		if v < 0 {
			return fmt.Errorf("%w: negative value %d at index %d", ErrInvalidInput, v, i)
		}
	}
	return nil
}

// passCount is the number of place values 1, b, b^2, ... that are <= maxKey.
func passCount(maxKey, radix uint64) int {
	passes := 0
	for place := uint64(1); place <= maxKey; place *= radix {
		passes++
		if place > maxKey/radix {
			break
		}
	}
	return passes
}

// sortKeyed runs counting passes from the least significant digit until the
// place value exceeds maxKey. scratch must be as long as data and counts holds
// one slot per bucket. The sorted result is always left in data.
func sortKeyed[E any](data, scratch []E, counts []int, maxKey uint64, keyOf func(E) uint64) {
	radix := uint64(len(counts))
	mask := radix - 1
	pow2 := radix&mask == 0
	step := uint(bits.TrailingZeros64(radix))

	src, dst := data, scratch
	place, shift := uint64(1), uint(0)
	for {
		if pow2 {
			sh := shift
			countingPass(src, dst, counts, func(e E) int { return int((keyOf(e) >> sh) & mask) })
		} else {
			p := place
			countingPass(src, dst, counts, func(e E) int { return int(keyOf(e) / p % radix) })
		}
		src, dst = dst, src

		// Stop before the next place value would pass maxKey or overflow.
		if place > maxKey/radix {
			break
		}
		place *= radix
		shift += step
	}

	if &src[0] != &data[0] {
		copy(data, src)
	}
}

// countingPass distributes src into dst by digit. counts ends up holding, per
// digit, one past the last slot of its bucket; filling buckets from the back
// while walking src in reverse keeps equal digits in their previous order.
func countingPass[E any](src, dst []E, counts []int, digitOf func(E) int) {
	clear(counts)
	for _, e := range src {
		counts[digitOf(e)]++
	}

	for i := 1; i < len(counts); i++ {
		counts[i] += counts[i-1]
	}

	for i := len(src) - 1; i >= 0; i-- {
		d := digitOf(src[i])
		counts[d]--
		dst[counts[d]] = src[i]
	}
}
