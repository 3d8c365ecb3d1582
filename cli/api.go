package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Baptistemontan/bench-find-odd/bench"
	"github.com/Baptistemontan/bench-find-odd/config"
	"github.com/Baptistemontan/bench-find-odd/finder"
	"github.com/Baptistemontan/bench-find-odd/metrics"
	"github.com/Baptistemontan/bench-find-odd/output"
	"github.com/Baptistemontan/bench-find-odd/radixsort"
	"github.com/Baptistemontan/bench-find-odd/sample"
	"github.com/Baptistemontan/bench-find-odd/tui"
	cli "github.com/urfave/cli/v2"
)

// OutputConfig contains output formatting options
type OutputConfig struct {
	Compact bool
	Plain   bool
	TUI     bool
}

// ============================================================================
// BENCH
// ============================================================================

// BenchFromConfig runs the benchmark described by cfg. SIGINT and SIGTERM
// stop it between measurements; the partial report is still written.
func BenchFromConfig(c *cli.Context, cfg *config.Config, outputConfig OutputConfig) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if outputConfig.TUI {
		return executeTUI(ctx, cfg)
	}
	return executeBench(ctx, c.App.Writer, c.App.ErrWriter, cfg, outputConfig)
}

// executeBench runs the benchmark, writes the configured artifacts and
// prints the report to w. Progress goes to progress.
func executeBench(ctx context.Context, w, progress io.Writer, cfg *config.Config, outputConfig OutputConfig) error {
	rec := metrics.NewRecorder()
	report, runErr := bench.Run(ctx, cfg.BenchOptions(), rec, progress)

	writeArtifacts(report, rec, cfg.Output)

	if err := outputResult(w, report, outputConfig); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if len(report.Errors) > 0 {
		return fmt.Errorf("benchmark finished with %d errors", len(report.Errors))
	}
	return nil
}

// benchView is the interactive front end of a benchmark run.
type benchView interface {
	ProgressWriter() io.Writer
	SetReport(report *output.Report)
	ShowError(message string)
	Run() error
	Stop()
}

// executeTUI runs the benchmark behind the TUI. Quitting the TUI cancels it.
func executeTUI(ctx context.Context, cfg *config.Config) error {
	return runBenchView(ctx, cfg, tui.NewApp(cfg.BenchOptions()))
}

// runBenchView runs the benchmark while view is shown. It returns once the
// view has stopped and the benchmark goroutine has written its artifacts.
func runBenchView(ctx context.Context, cfg *config.Config, view benchView) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		rec := metrics.NewRecorder()
		report, err := bench.Run(ctx, cfg.BenchOptions(), rec, view.ProgressWriter())
		writeArtifacts(report, rec, cfg.Output)

		if ctx.Err() != nil {
			return
		}
		if err != nil {
			view.ShowError(fmt.Sprintf("Benchmark failed: %v", err))
			return
		}
		view.SetReport(report)
	}()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		view.Stop()
	}()

	err := view.Run()
	cancel()
	<-done
	<-stopped
	return err
}

// writeArtifacts writes the chart, metrics and JSON files requested in out.
// Failures are recorded in the report rather than aborting the run.
func writeArtifacts(report *output.Report, rec *metrics.Recorder, out *config.OutputConfig) {
	if report == nil || out == nil {
		return
	}

	if out.PlotPath != "" && len(report.Results) > 0 {
		plotStart := time.Now()
		if err := output.PlotComparison(report, out.PlotPath); err != nil {
			report.AddError("plot", err.Error(), 0)
		} else {
			report.AddWarning("info", fmt.Sprintf("Chart generated in %v at %s", time.Since(plotStart), out.PlotPath), 0)
		}
	}

	if out.MetricsPath != "" {
		if err := rec.WriteTextfile(out.MetricsPath); err != nil {
			report.AddError("metrics", fmt.Sprintf("failed to write metrics: %v", err), 0)
		} else {
			report.AddWarning("info", fmt.Sprintf("Metrics written to %s", out.MetricsPath), 0)
		}
	}

	if out.JSONPath != "" {
		var data []byte
		var err error
		if out.Compact {
			data, err = report.ToCompactJSON()
		} else {
			data, err = report.ToJSON()
		}
		if err == nil {
			err = os.WriteFile(out.JSONPath, data, 0644)
		}
		if err != nil {
			report.AddError("json", fmt.Sprintf("failed to write report: %v", err), 0)
		}
	}
}

// outputResult is the unified output function that handles all output formats
func outputResult(w io.Writer, report *output.Report, outputConfig OutputConfig) error {
	if outputConfig.Plain {
		return report.WritePlain(w)
	}

	var jsonBytes []byte
	var err error

	if outputConfig.Compact {
		jsonBytes, err = report.ToCompactJSON()
	} else {
		jsonBytes, err = report.ToJSON()
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

// ============================================================================
// FIND / SORT / GENERATE
// ============================================================================

// readValues returns the values named by --file or given as arguments.
func readValues(c *cli.Context) ([]int32, error) {
	if file := c.String("file"); file != "" {
		if c.Args().Len() > 0 {
			return nil, fmt.Errorf("values cannot be given both with --file and as arguments")
		}
		s, err := sample.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return s.Values, nil
	}

	if c.Args().Len() == 0 {
		return nil, fmt.Errorf("no values given: pass them as arguments or use --file")
	}
	return sample.ParseValues(c.Args().Slice())
}

func handleFindCommand(c *cli.Context) error {
	values, err := readValues(c)
	if err != nil {
		return err
	}
	if err := radixsort.Validate(values); err != nil {
		return err
	}

	name := c.String("method")
	if name == "all" {
		for _, m := range finder.Methods() {
			fmt.Fprintf(c.App.Writer, "%-8s %d\n", m.Name, m.Find(values))
		}
		return nil
	}

	m, err := finder.Lookup(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, m.Find(values))
	return nil
}

func handleSortCommand(c *cli.Context) error {
	values, err := readValues(c)
	if err != nil {
		return err
	}
	if err := radixsort.SortChecked(values); err != nil {
		return fmt.Errorf("cannot sort: %w", err)
	}
	return sample.WriteText(c.App.Writer, sample.Sample{Values: values})
}

func handleGenerateCommand(c *cli.Context) error {
	count := c.Int("count")
	if count < 0 || count > math.MaxInt32/2 {
		return fmt.Errorf("count %d out of range [0, %d]", count, math.MaxInt32/2)
	}

	var rng *rand.Rand
	if c.IsSet("seed") {
		rng = rand.New(rand.NewSource(c.Int64("seed")))
	}
	s := sample.New(int32(count), rng)

	if path := c.String("output"); path != "" {
		if err := config.ValidateOutputPath(path); err != nil {
			return err
		}
		if err := sample.WriteFile(path, s); err != nil {
			return err
		}
	} else if err := sample.WriteText(c.App.Writer, s); err != nil {
		return err
	}

	if s.Once != nil {
		fmt.Fprintf(c.App.ErrWriter, "Generated %d values, %d occurs once\n", len(s.Values), *s.Once)
	} else {
		fmt.Fprintln(c.App.ErrWriter, "Generated an empty sample")
	}
	return nil
}
