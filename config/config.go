package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Baptistemontan/bench-find-odd/bench"
	"github.com/Baptistemontan/bench-find-odd/finder"
)

// ErrNoSizes is returned by Validate when the bench section lists no sizes.
var ErrNoSizes = errors.New("at least one size is required in bench configuration")

type BenchConfig struct {
	Sizes         []int
	Methods       []string
	Seed          int64
	MinTime       time.Duration
	MaxIterations int
	Workers       int
}

type OutputConfig struct {
	JSONPath    string
	PlotPath    string
	MetricsPath string
	Compact     bool
	Plain       bool
}

type Config struct {
	Bench  *BenchConfig
	Output *OutputConfig
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := bench.DefaultOptions()
	return &Config{
		Bench: &BenchConfig{
			Sizes:         opts.Sizes,
			Methods:       opts.Methods,
			Seed:          opts.Seed,
			MinTime:       opts.MinTime,
			MaxIterations: opts.MaxIterations,
			Workers:       opts.Workers,
		},
		Output: &OutputConfig{},
	}
}

func LoadConfig(configPath string) (*Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]any
	if _, err := toml.Decode(string(configData), &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config := Default()
	for key, value := range rawConfig {
		switch key {
		case "bench":
			if benchMap, ok := value.(map[string]any); ok {
				if err := parseBenchConfig(benchMap, config.Bench); err != nil {
					return nil, fmt.Errorf("parsing bench config: %w", err)
				}
			}
		case "output":
			if outputMap, ok := value.(map[string]any); ok {
				parseOutputConfig(outputMap, config.Output)
			}
		default:
			return nil, fmt.Errorf("unknown config section %q", key)
		}
	}

	return config, nil
}

// parseBenchConfig overlays the keys present in m onto config.
func parseBenchConfig(m map[string]any, config *BenchConfig) error {
	if v, ok := m["sizes"].([]any); ok {
		config.Sizes = config.Sizes[:0]
		for _, item := range v {
			i, ok := item.(int64)
			if !ok {
				return fmt.Errorf("invalid size %v: not an integer", item)
			}
			if i < 0 || i > math.MaxInt32 {
				return fmt.Errorf("size %d out of range [0, %d]", i, math.MaxInt32)
			}
			config.Sizes = append(config.Sizes, int(i))
		}
	}
	if v, ok := m["methods"].([]any); ok {
		config.Methods = nil
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("invalid method %v: not a string", item)
			}
			config.Methods = append(config.Methods, str)
		}
	}
	if v, ok := m["seed"].(int64); ok {
		config.Seed = v
	}
	if v, ok := m["minTime"].(string); ok {
		duration, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid minTime %q: %w", v, err)
		}
		config.MinTime = duration
	}
	if v, ok := m["maxIterations"].(int64); ok {
		config.MaxIterations = int(v)
	}
	if v, ok := m["workers"].(int64); ok {
		config.Workers = int(v)
	}
	return nil
}

func parseOutputConfig(m map[string]any, config *OutputConfig) {
	if v, ok := m["jsonPath"].(string); ok {
		config.JSONPath = v
	}
	if v, ok := m["plotPath"].(string); ok {
		config.PlotPath = v
	}
	if v, ok := m["metricsPath"].(string); ok {
		config.MetricsPath = v
	}
	if v, ok := m["compact"].(bool); ok {
		config.Compact = v
	}
	if v, ok := m["plain"].(bool); ok {
		config.Plain = v
	}
}

func (c *Config) Validate() error {
	if c.Bench == nil {
		return fmt.Errorf("bench configuration section is required")
	}

	if len(c.Bench.Sizes) == 0 {
		return ErrNoSizes
	}

	if len(c.Bench.Methods) == 0 {
		return fmt.Errorf("at least one method is required in bench configuration")
	}
	for _, name := range c.Bench.Methods {
		if _, err := finder.Lookup(name); err != nil {
			return err
		}
	}

	if c.Bench.MinTime < 0 {
		return fmt.Errorf("minTime must not be negative, got %v", c.Bench.MinTime)
	}

	if c.Bench.MaxIterations < 1 {
		return fmt.Errorf("maxIterations must be at least 1, got %d", c.Bench.MaxIterations)
	}

	if c.Bench.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Bench.Workers)
	}

	// Output paths are optional; when set, their directory has to exist.
	if c.Output != nil {
		for name, path := range map[string]string{
			"jsonPath":    c.Output.JSONPath,
			"plotPath":    c.Output.PlotPath,
			"metricsPath": c.Output.MetricsPath,
		} {
			if err := ValidateOutputPath(path); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}

	return nil
}

// ValidateOutputPath checks that the directory of path exists. An empty
// path is valid.
func ValidateOutputPath(path string) error {
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", dir)
	}
	if err != nil {
		return fmt.Errorf("cannot access directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	return nil
}

// BenchOptions converts the bench section into harness options.
func (c *Config) BenchOptions() bench.Options {
	if c.Bench == nil {
		return bench.DefaultOptions()
	}
	return bench.Options{
		Sizes:         c.Bench.Sizes,
		Methods:       c.Bench.Methods,
		Seed:          c.Bench.Seed,
		MinTime:       c.Bench.MinTime,
		MaxIterations: c.Bench.MaxIterations,
		Workers:       c.Bench.Workers,
	}
}
