package cli

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Baptistemontan/bench-find-odd/bench"
	"github.com/Baptistemontan/bench-find-odd/config"
	"github.com/Baptistemontan/bench-find-odd/finder"
	"github.com/Baptistemontan/bench-find-odd/version"
	"github.com/mattn/go-isatty"
	cli "github.com/urfave/cli/v2"
)

// parseDate attempts to parse the build date
func parseDate(d string) time.Time {
	t, err := time.Parse(time.RFC3339, d)
	if err != nil {
		return time.Now()
	}
	return t
}

// isTerminal reports whether stdout can host the TUI.
var isTerminal = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Shared flag definitions to eliminate duplication
var (
	// Configuration flags
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to configuration file (mutually exclusive with other flags)",
	}

	// Benchmark flags
	sizesFlag = &cli.StringSliceFlag{
		Name:  "sizes",
		Usage: "Number of distinct values per sample (e.g., '0,10,1_000_000')",
	}
	methodsFlag = &cli.StringSliceFlag{
		Name:  "methods",
		Usage: "Methods to measure: " + strings.Join(finder.Names(), ", "),
	}
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Seed of the sample shuffle; size i is shuffled with seed+i",
		Value: 42,
	}
	minTimeFlag = &cli.DurationFlag{
		Name:  "minTime",
		Usage: "Minimum measuring time per method and size",
		Value: bench.DefaultMinTime,
	}
	maxIterationsFlag = &cli.IntFlag{
		Name:  "maxIterations",
		Usage: "Maximum calls per method and size",
		Value: bench.DefaultMaxIterations,
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Sample generation workers (0 uses every CPU)",
	}

	// Output flags
	jsonPathFlag = &cli.StringFlag{
		Name:  "jsonPath",
		Usage: "Path where to save the JSON report (e.g., '/path/to/report.json')",
	}
	plotPathFlag = &cli.StringFlag{
		Name:  "plotPath",
		Usage: "Path where to save the comparison chart (e.g., '/path/to/report.html'). If not provided, no plot will be generated.",
	}
	metricsPathFlag = &cli.StringFlag{
		Name:  "metricsPath",
		Usage: "Path where to write Prometheus metrics in text format (e.g., '/var/lib/node_exporter/bench.prom')",
	}
	compactFlag = &cli.BoolFlag{
		Name:  "compact",
		Usage: "Output compact JSON (no pretty printing)",
		Value: false,
	}
	plainFlag = &cli.BoolFlag{
		Name:  "plain",
		Usage: "Output plain text format for easy readability",
		Value: false,
	}
	tuiFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Launch TUI (Terminal User Interface) mode",
		Value: false,
	}

	// Input flags
	fileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Read values from a sample file (.json or one integer per line) instead of arguments",
	}
	methodFlag = &cli.StringFlag{
		Name:  "method",
		Usage: "Method used to find the value: " + strings.Join(finder.Names(), ", ") + " or all",
		Value: "radix",
	}

	// Generate flags
	countFlag = &cli.IntFlag{
		Name:     "count",
		Usage:    "Number of distinct values; the sample holds 2*count-1 values",
		Required: true,
	}
	generateSeedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Seed of the shuffle (random when not set)",
	}
	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "Write the sample to this file (.json for JSON) instead of stdout",
	}
)

// Shared validation functions
func validateConfigModeFlags(c *cli.Context, allowedFlags []string) error {
	allowed := make(map[string]bool)
	for _, flag := range allowedFlags {
		allowed[flag] = true
	}

	flagsToCheck := []string{
		"sizes", "methods", "seed", "minTime", "maxIterations", "workers",
		"jsonPath", "plotPath", "metricsPath", "tui", "compact", "plain",
	}

	for _, flag := range flagsToCheck {
		if c.IsSet(flag) && !allowed[flag] {
			return fmt.Errorf("when using --config, only %v flags are allowed", allowedFlags)
		}
	}
	return nil
}

func validateOutputFlags(c *cli.Context) error {
	if c.Bool("tui") {
		if c.Bool("plain") || c.Bool("compact") {
			return fmt.Errorf("--tui cannot be combined with --plain or --compact")
		}
		if !isTerminal() {
			return fmt.Errorf("--tui requires an interactive terminal")
		}
	}
	return nil
}

// parseSizes parses decimal sizes. Underscores may group digits.
func parseSizes(raw []string) ([]int, error) {
	sizes := make([]int, 0, len(raw))
	for _, s := range raw {
		s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
		size, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", s, err)
		}
		if size < 0 || size > math.MaxInt32 {
			return nil, fmt.Errorf("size %d out of range [0, %d]", size, math.MaxInt32)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func parseMethods(raw []string) ([]string, error) {
	methods := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if _, err := finder.Lookup(name); err != nil {
			return nil, err
		}
		methods = append(methods, name)
	}
	return methods, nil
}

// handleBenchCommand processes the bench command with proper separation of concerns
func handleBenchCommand(c *cli.Context) error {
	if err := validateOutputFlags(c); err != nil {
		return err
	}
	configPath := c.String("config")
	if configPath != "" {
		return handleBenchConfigMode(c, configPath)
	}
	return handleBenchFlagsMode(c)
}

// handleBenchConfigMode handles the bench command when using a config file
func handleBenchConfigMode(c *cli.Context, configPath string) error {
	if err := validateConfigModeFlags(c, []string{"tui", "compact", "plain"}); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid bench configuration: %w", err)
	}

	return BenchFromConfig(c, cfg, outputConfigFrom(c, cfg))
}

// handleBenchFlagsMode handles the bench command when using CLI flags only
func handleBenchFlagsMode(c *cli.Context) error {
	cfg := config.Default()

	if c.IsSet("sizes") {
		sizes, err := parseSizes(c.StringSlice("sizes"))
		if err != nil {
			return err
		}
		cfg.Bench.Sizes = sizes
	}
	if c.IsSet("methods") {
		methods, err := parseMethods(c.StringSlice("methods"))
		if err != nil {
			return err
		}
		cfg.Bench.Methods = methods
	}
	cfg.Bench.Seed = c.Int64("seed")
	cfg.Bench.MinTime = c.Duration("minTime")
	cfg.Bench.MaxIterations = c.Int("maxIterations")
	if c.IsSet("workers") {
		cfg.Bench.Workers = c.Int("workers")
	}

	cfg.Output.JSONPath = c.String("jsonPath")
	cfg.Output.PlotPath = c.String("plotPath")
	cfg.Output.MetricsPath = c.String("metricsPath")

	if err := cfg.Validate(); err != nil {
		return err
	}

	return BenchFromConfig(c, cfg, outputConfigFrom(c, cfg))
}

// outputConfigFrom merges output style flags over the config's output section.
func outputConfigFrom(c *cli.Context, cfg *config.Config) OutputConfig {
	oc := OutputConfig{
		Compact: c.Bool("compact"),
		Plain:   c.Bool("plain"),
		TUI:     c.Bool("tui"),
	}
	if cfg.Output != nil {
		oc.Compact = oc.Compact || cfg.Output.Compact
		oc.Plain = oc.Plain || cfg.Output.Plain
	}
	return oc
}

// NewApp builds the command line application.
func NewApp() *cli.App {
	return &cli.App{
		Name:     "bench-find-odd",
		Usage:    "Find the value that occurs an odd number of times and compare how fast each method does it",
		Version:  version.Version,
		Compiled: parseDate(version.Date),
		Commands: []*cli.Command{
			{
				Name:  "bench",
				Usage: "Measure every method on generated samples",
				Flags: []cli.Flag{
					// Configuration
					configFlag,
					// Benchmark flags
					sizesFlag,
					methodsFlag,
					seedFlag,
					minTimeFlag,
					maxIterationsFlag,
					workersFlag,
					// Output flags
					jsonPathFlag,
					plotPathFlag,
					metricsPathFlag,
					compactFlag,
					plainFlag,
					tuiFlag,
				},
				Action: handleBenchCommand,
			},
			{
				Name:      "find",
				Usage:     "Print the value that occurs an odd number of times",
				ArgsUsage: "[value...]",
				Flags: []cli.Flag{
					methodFlag,
					fileFlag,
				},
				Action: handleFindCommand,
			},
			{
				Name:      "sort",
				Usage:     "Radix sort non-negative values, one per output line",
				ArgsUsage: "[value...]",
				Flags: []cli.Flag{
					fileFlag,
				},
				Action: handleSortCommand,
			},
			{
				Name:  "generate",
				Usage: "Write a shuffled sample where every value occurs twice except one",
				Flags: []cli.Flag{
					countFlag,
					generateSeedFlag,
					outputFlag,
				},
				Action: handleGenerateCommand,
			},
		},
	}
}

var App = NewApp()
