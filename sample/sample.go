package sample

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Sample is a generated input together with the value that appears once.
type Sample struct {
	Values []int32 `json:"values"`
	Once   *int32  `json:"once,omitempty"`
}

// Generate builds the values 0..count-1, each twice, shuffles them with rng
// and drops the last element. once is the dropped value, which is left with a
// single occurrence; ok is false when count <= 0 and there was nothing to drop.
// A nil rng is seeded from the clock.
func Generate(count int32, rng *rand.Rand) (values []int32, once int32, ok bool) {
	if count <= 0 {
		return []int32{}, 0, false
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	values = make([]int32, 0, 2*int(count))
	for i := int32(0); i < count; i++ {
		values = append(values, i)
	}
	values = append(values, values...)

	rng.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})

	once = values[len(values)-1]
	return values[:len(values)-1], once, true
}

// New wraps Generate into a Sample.
func New(count int32, rng *rand.Rand) Sample {
	values, once, ok := Generate(count, rng)
	s := Sample{Values: values}
	if ok {
		s.Once = &once
	}
	return s
}

// ParseValue parses a decimal 32-bit integer.
func ParseValue(s string) (int32, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return int32(v), nil
}

// ParseValues parses every element of args with ParseValue.
func ParseValues(args []string) ([]int32, error) {
	values := make([]int32, 0, len(args))
	for _, a := range args {
		v, err := ParseValue(a)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
