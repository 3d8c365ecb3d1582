package output

import (
	"encoding/json"
	"runtime"
	"sync"
	"time"

	"github.com/Baptistemontan/bench-find-odd/version"
	"golang.org/x/sys/cpu"
)

// Report represents the complete benchmark output structure
type Report struct {
	Metadata Metadata     `json:"metadata"`
	Options  Options      `json:"options"`
	Results  []SizeResult `json:"results"`
	Warnings []Warning    `json:"warnings"`
	Errors   []Error      `json:"errors"`

	// Mutex for thread-safe warning/error appending
	mu sync.Mutex `json:"-"`
}

// Metadata contains information about the benchmark run
type Metadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
	DurationMS  int64     `json:"duration_ms"`
	Host        Host      `json:"host"`
}

// Host describes the machine the measurements were taken on
type Host struct {
	GOOS        string   `json:"goos"`
	GOARCH      string   `json:"goarch"`
	NumCPU      int      `json:"num_cpu"`
	GoVersion   string   `json:"go_version"`
	CPUFeatures []string `json:"cpu_features,omitempty"`
}

// Options echoes the benchmark parameters
type Options struct {
	Sizes         []int    `json:"sizes"`
	Methods       []string `json:"methods"`
	Seed          int64    `json:"seed"`
	MinTimeMS     int64    `json:"min_time_ms"`
	MaxIterations int      `json:"max_iterations"`
	Workers       int      `json:"workers"`
}

// SizeResult holds every method's measurement for one input size
type SizeResult struct {
	Size      int            `json:"size"`
	Length    int            `json:"length"`
	Expected  *int32         `json:"expected,omitempty"`
	Agreement bool           `json:"agreement"`
	RadixPlan *RadixPlan     `json:"radix_plan,omitempty"`
	Methods   []MethodResult `json:"methods"`
}

// RadixPlan describes the radix sort passes run for this input
type RadixPlan struct {
	Radix  int    `json:"radix"`
	Passes int    `json:"passes"`
	Max    uint64 `json:"max"`
}

// MethodResult is the measurement of one method on one input
type MethodResult struct {
	Name        string  `json:"name"`
	Result      int32   `json:"result"`
	Correct     bool    `json:"correct"`
	Iterations  int     `json:"iterations"`
	NsPerOp     float64 `json:"ns_per_op"`
	AllocsPerOp float64 `json:"allocs_per_op"`
	BytesPerOp  float64 `json:"bytes_per_op"`
}

// Warning represents a warning message
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// Error represents an error message
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// NewReport creates a new Report with default metadata
func NewReport(startTime time.Time) *Report {
	return &Report{
		Metadata: Metadata{
			GeneratedAt: time.Now().UTC(),
			Version:     version.Version,
			DurationMS:  time.Since(startTime).Milliseconds(),
			Host:        CurrentHost(),
		},
		Results:  []SizeResult{},
		Warnings: []Warning{},
		Errors:   []Error{},
	}
}

// CurrentHost describes the running machine
func CurrentHost() Host {
	return Host{
		GOOS:        runtime.GOOS,
		GOARCH:      runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		GoVersion:   runtime.Version(),
		CPUFeatures: cpuFeatures(),
	}
}

func cpuFeatures() []string {
	var features []string
	add := func(name string, ok bool) {
		if ok {
			features = append(features, name)
		}
	}

	switch runtime.GOARCH {
	case "amd64", "386":
		add("popcnt", cpu.X86.HasPOPCNT)
		add("sse4.2", cpu.X86.HasSSE42)
		add("bmi2", cpu.X86.HasBMI2)
		add("avx", cpu.X86.HasAVX)
		add("avx2", cpu.X86.HasAVX2)
		add("avx512f", cpu.X86.HasAVX512F)
	case "arm64":
		add("asimd", cpu.ARM64.HasASIMD)
		add("crc32", cpu.ARM64.HasCRC32)
		add("sve", cpu.ARM64.HasSVE)
	}
	return features
}

// ToJSON converts the output to pretty-printed JSON
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ToCompactJSON converts the output to compact JSON
func (r *Report) ToCompactJSON() ([]byte, error) {
	return json.Marshal(r)
}

// AddWarning adds a warning to the output (thread-safe)
func (r *Report) AddWarning(warningType, message string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, Warning{
		Type:    warningType,
		Message: message,
		Count:   count,
	})
}

// AddError adds an error to the output (thread-safe)
func (r *Report) AddError(errorType, message string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, Error{
		Type:    errorType,
		Message: message,
		Count:   count,
	})
}

// UpdateDuration updates the duration in metadata
func (r *Report) UpdateDuration(startTime time.Time) {
	r.Metadata.DurationMS = time.Since(startTime).Milliseconds()
}

// MethodNames returns the method names in the order they were measured,
// taken from the first size that has results.
func (r *Report) MethodNames() []string {
	if len(r.Options.Methods) > 0 {
		return r.Options.Methods
	}
	for _, res := range r.Results {
		if len(res.Methods) > 0 {
			names := make([]string, len(res.Methods))
			for i, m := range res.Methods {
				names[i] = m.Name
			}
			return names
		}
	}
	return nil
}

// Method returns the measurement of the named method, if any.
func (s *SizeResult) Method(name string) (MethodResult, bool) {
	for _, m := range s.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodResult{}, false
}

// Fastest returns the measured method with the lowest ns/op.
func (s *SizeResult) Fastest() (MethodResult, bool) {
	var best MethodResult
	found := false
	for _, m := range s.Methods {
		if m.Iterations == 0 {
			continue
		}
		if !found || m.NsPerOp < best.NsPerOp {
			best = m
			found = true
		}
	}
	return best, found
}
