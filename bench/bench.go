package bench

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/Baptistemontan/bench-find-odd/finder"
	"github.com/Baptistemontan/bench-find-odd/metrics"
	"github.com/Baptistemontan/bench-find-odd/output"
	"github.com/Baptistemontan/bench-find-odd/radixsort"
	"github.com/Baptistemontan/bench-find-odd/sample"
)

// DefaultSizes are the input sizes measured when none are configured.
var DefaultSizes = []int{0, 2, 10, 64, 1024, 20_000, 300_000, 1_000_000}

const (
	DefaultMinTime       = 200 * time.Millisecond
	DefaultMaxIterations = 10_000
)

// Options controls a benchmark run.
type Options struct {
	Sizes         []int
	Methods       []string
	Seed          int64
	MinTime       time.Duration
	MaxIterations int
	Workers       int
}

// DefaultOptions measures every registered method on DefaultSizes.
func DefaultOptions() Options {
	return Options{
		Sizes:         append([]int(nil), DefaultSizes...),
		Methods:       finder.Names(),
		Seed:          42,
		MinTime:       DefaultMinTime,
		MaxIterations: DefaultMaxIterations,
		Workers:       runtime.NumCPU(),
	}
}

// Validate checks that the options can be run.
func (o Options) Validate() error {
	if len(o.Sizes) == 0 {
		return fmt.Errorf("at least one size is required")
	}
	for _, size := range o.Sizes {
		if size < 0 || size > math.MaxInt32 {
			return fmt.Errorf("size %d out of range [0, %d]", size, math.MaxInt32)
		}
	}
	if len(o.Methods) == 0 {
		return fmt.Errorf("at least one method is required")
	}
	for _, name := range o.Methods {
		if _, err := finder.Lookup(name); err != nil {
			return err
		}
	}
	if o.MinTime < 0 {
		return fmt.Errorf("minTime must not be negative, got %v", o.MinTime)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("maxIterations must be at least 1, got %d", o.MaxIterations)
	}
	return nil
}

// Measurement is the outcome of timing one method on one input.
type Measurement struct {
	Iterations  int
	Elapsed     time.Duration
	NsPerOp     float64
	AllocsPerOp float64
	BytesPerOp  float64
}

type generated struct {
	values []int32
	once   int32
	ok     bool
}

// sink keeps measured results alive.
var sink int32

// Run generates one sample per size, checks that every method agrees on the
// singleton and times each method. Progress lines are written to progress
// when it is not nil; measurements are recorded in rec when it is not nil.
//
// A cancelled ctx stops the run between measurements; the partial report is
// returned together with ctx.Err().
func Run(ctx context.Context, opts Options, rec *metrics.Recorder, progress io.Writer) (*output.Report, error) {
	runStart := time.Now()
	report := output.NewReport(runStart)
	report.Options = output.Options{
		Sizes:         opts.Sizes,
		Methods:       opts.Methods,
		Seed:          opts.Seed,
		MinTimeMS:     opts.MinTime.Milliseconds(),
		MaxIterations: opts.MaxIterations,
		Workers:       opts.Workers,
	}

	if err := opts.Validate(); err != nil {
		report.AddError("options", err.Error(), 1)
		return report, err
	}

	methods := make([]finder.Method, len(opts.Methods))
	for i, name := range opts.Methods {
		methods[i], _ = finder.Lookup(name)
	}

	logf(progress, "Generating %d samples with %d workers\n", len(opts.Sizes), workerCount(opts.Workers, len(opts.Sizes)))
	samples := generateSamples(opts.Sizes, opts.Seed, opts.Workers)

	sorter := radixsort.New[int32]()
	for i, size := range opts.Sizes {
		if err := ctx.Err(); err != nil {
			report.AddWarning("cancelled", fmt.Sprintf("run cancelled before size %d", size), len(opts.Sizes)-i)
			report.UpdateDuration(runStart)
			return report, err
		}

		s := samples[i]
		res := output.SizeResult{
			Size:      size,
			Length:    len(s.values),
			Agreement: true,
			Methods:   make([]output.MethodResult, 0, len(methods)),
		}
		if s.ok {
			once := s.once
			res.Expected = &once
		}
		plan := sorter.Plan(s.values)
		res.RadixPlan = &output.RadixPlan{Radix: plan.Radix, Passes: plan.Passes, Max: plan.Max}

		for _, m := range methods {
			if err := ctx.Err(); err != nil {
				report.Results = append(report.Results, res)
				report.AddWarning("cancelled", fmt.Sprintf("run cancelled during size %d", size), 1)
				report.UpdateDuration(runStart)
				return report, err
			}

			result := m.Find(s.values)
			correct := result == s.once
			if !correct {
				res.Agreement = false
				report.AddError("disagreement",
					fmt.Sprintf("%s returned %d at size %d, expected %d", m.Name, result, size, s.once), 1)
			}

			meas := Measure(m.Find, s.values, opts.MinTime, opts.MaxIterations)
			rec.Observe(m.Name, size, meas.Elapsed, meas.Iterations)

			res.Methods = append(res.Methods, output.MethodResult{
				Name:        m.Name,
				Result:      result,
				Correct:     correct,
				Iterations:  meas.Iterations,
				NsPerOp:     meas.NsPerOp,
				AllocsPerOp: meas.AllocsPerOp,
				BytesPerOp:  meas.BytesPerOp,
			})
			logf(progress, "  %-8s size=%-9d %12.1f ns/op (%d iterations)\n", m.Name, size, meas.NsPerOp, meas.Iterations)
		}

		report.Results = append(report.Results, res)
	}

	report.UpdateDuration(runStart)
	return report, nil
}

// Measure calls find on input until minTime has elapsed or maxIterations
// calls were made, whichever comes first, with at least one call. A zero
// minTime makes exactly one call.
func Measure(find finder.Finder, input []int32, minTime time.Duration, maxIterations int) Measurement {
	if maxIterations < 1 {
		maxIterations = 1
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	iterations := 0
	start := time.Now()
	for {
		sink ^= find(input)
		iterations++
		if iterations >= maxIterations || time.Since(start) >= minTime {
			break
		}
	}
	elapsed := time.Since(start)

	runtime.ReadMemStats(&after)

	n := float64(iterations)
	return Measurement{
		Iterations:  iterations,
		Elapsed:     elapsed,
		NsPerOp:     float64(elapsed.Nanoseconds()) / n,
		AllocsPerOp: float64(after.Mallocs-before.Mallocs) / n,
		BytesPerOp:  float64(after.TotalAlloc-before.TotalAlloc) / n,
	}
}

func workerCount(requested, jobs int) int {
	numWorkers := requested
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > jobs {
		numWorkers = jobs
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	return numWorkers
}

// generateSamples builds one sample per size. Size i is shuffled with seed+i,
// so the result does not depend on the worker count.
func generateSamples(sizes []int, seed int64, workers int) []generated {
	samples := make([]generated, len(sizes))
	jobs := make(chan int, len(sizes))
	for i := range sizes {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workerCount(workers, len(sizes)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rng := rand.New(rand.NewSource(seed + int64(i)))
				values, once, ok := sample.Generate(int32(sizes[i]), rng)
				samples[i] = generated{values: values, once: once, ok: ok}
			}
		}()
	}
	wg.Wait()
	return samples
}

func logf(w io.Writer, format string, args ...any) {
	if w != nil {
		fmt.Fprintf(w, format, args...)
	}
}
