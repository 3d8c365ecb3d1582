package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Baptistemontan/bench-find-odd/bench"
	"github.com/Baptistemontan/bench-find-odd/finder"
	"github.com/Baptistemontan/bench-find-odd/testutil"
)

func TestLoadConfig(t *testing.T) {
	outDir := t.TempDir()
	testConfigContent := `
[bench]
sizes = [0, 10, 1024]
methods = ["xor", "radix"]
seed = 7
minTime = "50ms"
maxIterations = 500
workers = 2

[output]
jsonPath = "` + filepath.ToSlash(filepath.Join(outDir, "report.json")) + `"
plotPath = "` + filepath.ToSlash(filepath.Join(outDir, "report.html")) + `"
metricsPath = "` + filepath.ToSlash(filepath.Join(outDir, "bench.prom")) + `"
compact = true
plain = true
`
	configPath := testutil.WriteTempConfig(t, testConfigContent)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !reflect.DeepEqual(config.Bench.Sizes, []int{0, 10, 1024}) {
		t.Errorf("Expected sizes [0 10 1024], got %v", config.Bench.Sizes)
	}
	if !reflect.DeepEqual(config.Bench.Methods, []string{"xor", "radix"}) {
		t.Errorf("Expected methods [xor radix], got %v", config.Bench.Methods)
	}
	if config.Bench.Seed != 7 {
		t.Errorf("Expected seed 7, got %d", config.Bench.Seed)
	}
	if config.Bench.MinTime != 50*time.Millisecond {
		t.Errorf("Expected minTime 50ms, got %v", config.Bench.MinTime)
	}
	if config.Bench.MaxIterations != 500 {
		t.Errorf("Expected maxIterations 500, got %d", config.Bench.MaxIterations)
	}
	if config.Bench.Workers != 2 {
		t.Errorf("Expected workers 2, got %d", config.Bench.Workers)
	}

	if !strings.HasSuffix(config.Output.JSONPath, "report.json") {
		t.Errorf("Unexpected jsonPath %q", config.Output.JSONPath)
	}
	if !strings.HasSuffix(config.Output.PlotPath, "report.html") {
		t.Errorf("Unexpected plotPath %q", config.Output.PlotPath)
	}
	if !strings.HasSuffix(config.Output.MetricsPath, "bench.prom") {
		t.Errorf("Unexpected metricsPath %q", config.Output.MetricsPath)
	}
	if !config.Output.Compact || !config.Output.Plain {
		t.Error("Expected compact and plain to be true")
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	configPath := testutil.WriteTempConfig(t, "[bench]\nseed = 1\n")

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if !reflect.DeepEqual(config.Bench.Sizes, bench.DefaultSizes) {
		t.Errorf("Expected default sizes, got %v", config.Bench.Sizes)
	}
	if !reflect.DeepEqual(config.Bench.Methods, finder.Names()) {
		t.Errorf("Expected all methods, got %v", config.Bench.Methods)
	}
	if config.Bench.MinTime != bench.DefaultMinTime {
		t.Errorf("Expected default minTime, got %v", config.Bench.MinTime)
	}
	if config.Output == nil {
		t.Fatal("Expected an output section")
	}
	if config.Output.JSONPath != "" {
		t.Errorf("Expected empty jsonPath, got %q", config.Output.JSONPath)
	}
}

func TestLoadConfig_DoesNotAliasDefaults(t *testing.T) {
	configPath := testutil.WriteTempConfig(t, "[bench]\nsizes = [3]\n")
	if _, err := LoadConfig(configPath); err != nil {
		t.Fatal(err)
	}
	if bench.DefaultSizes[0] != 0 {
		t.Errorf("DefaultSizes was modified: %v", bench.DefaultSizes)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid toml",
			content: "[bench\nsizes = [1]",
			wantErr: "failed to parse config file",
		},
		{
			name:    "unknown section",
			content: "[global]\nlogFile = \"x\"\n",
			wantErr: "unknown config section",
		},
		{
			name:    "negative size",
			content: "[bench]\nsizes = [-1]\n",
			wantErr: "out of range",
		},
		{
			name:    "size too large",
			content: "[bench]\nsizes = [3000000000]\n",
			wantErr: "out of range",
		},
		{
			name:    "non integer size",
			content: "[bench]\nsizes = [\"ten\"]\n",
			wantErr: "not an integer",
		},
		{
			name:    "non string method",
			content: "[bench]\nmethods = [\"xor\", 3]\n",
			wantErr: "not a string",
		},
		{
			name:    "invalid duration",
			content: "[bench]\nminTime = \"soon\"\n",
			wantErr: "invalid minTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := testutil.WriteTempConfig(t, tt.content)
			_, err := LoadConfig(configPath)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Expected read error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		is      error
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "no bench section", mutate: func(c *Config) { c.Bench = nil }, wantErr: true},
		{name: "no sizes", mutate: func(c *Config) { c.Bench.Sizes = nil }, wantErr: true, is: ErrNoSizes},
		{name: "no methods", mutate: func(c *Config) { c.Bench.Methods = nil }, wantErr: true},
		{name: "unknown method", mutate: func(c *Config) { c.Bench.Methods = []string{"bogo"} }, wantErr: true},
		{name: "negative minTime", mutate: func(c *Config) { c.Bench.MinTime = -time.Millisecond }, wantErr: true},
		{name: "zero maxIterations", mutate: func(c *Config) { c.Bench.MaxIterations = 0 }, wantErr: true},
		{name: "negative workers", mutate: func(c *Config) { c.Bench.Workers = -1 }, wantErr: true},
		{
			name:    "missing output directory",
			mutate:  func(c *Config) { c.Output.JSONPath = filepath.Join(os.TempDir(), "does-not-exist-dir", "r.json") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("Expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateOutputPath(""); err != nil {
		t.Errorf("Empty path should be valid: %v", err)
	}
	if err := ValidateOutputPath(filepath.Join(dir, "out.json")); err != nil {
		t.Errorf("Existing directory should be valid: %v", err)
	}
	if err := ValidateOutputPath(filepath.Join(dir, "nope", "out.json")); err == nil {
		t.Error("Missing directory should be invalid")
	}
	if err := ValidateOutputPath(filepath.Join(file, "out.json")); err == nil {
		t.Error("File used as directory should be invalid")
	}
}

func TestBenchOptions(t *testing.T) {
	config := Default()
	config.Bench.Sizes = []int{5}
	config.Bench.Methods = []string{"xor"}
	config.Bench.MinTime = time.Second

	opts := config.BenchOptions()
	if !reflect.DeepEqual(opts.Sizes, []int{5}) || !reflect.DeepEqual(opts.Methods, []string{"xor"}) {
		t.Errorf("Unexpected options %+v", opts)
	}
	if opts.MinTime != time.Second {
		t.Errorf("Expected minTime 1s, got %v", opts.MinTime)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Converted options invalid: %v", err)
	}

	empty := &Config{}
	if got := empty.BenchOptions(); len(got.Sizes) != len(bench.DefaultSizes) {
		t.Errorf("Expected defaults without a bench section, got %+v", got)
	}
}
