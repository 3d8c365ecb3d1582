package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Baptistemontan/bench-find-odd/config"
	"github.com/Baptistemontan/bench-find-odd/finder"
	"github.com/Baptistemontan/bench-find-odd/output"
)

// fakeView stands in for the TUI. quitOnFirstWrite makes Run return as soon
// as the benchmark reports progress, like a user pressing 'q' mid-run.
type fakeView struct {
	quitOnFirstWrite bool

	mu       sync.Mutex
	returned bool
	late     int
	writes   int
	reports  []*output.Report
	errors   []string
	stops    int

	firstWrite chan struct{}
	firstOnce  sync.Once
	stop       chan struct{}
	stopOnce   sync.Once
}

func newFakeView(quitOnFirstWrite bool) *fakeView {
	return &fakeView{
		quitOnFirstWrite: quitOnFirstWrite,
		firstWrite:       make(chan struct{}),
		stop:             make(chan struct{}),
	}
}

func (v *fakeView) record(f func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.returned {
		v.late++
	}
	f()
}

func (v *fakeView) ProgressWriter() io.Writer { return fakeWriter{v} }

func (v *fakeView) SetReport(report *output.Report) {
	v.record(func() { v.reports = append(v.reports, report) })
	v.stopOnce.Do(func() { close(v.stop) })
}

func (v *fakeView) ShowError(message string) {
	v.record(func() { v.errors = append(v.errors, message) })
	v.stopOnce.Do(func() { close(v.stop) })
}

func (v *fakeView) Stop() {
	v.record(func() { v.stops++ })
	v.stopOnce.Do(func() { close(v.stop) })
}

func (v *fakeView) Run() error {
	if v.quitOnFirstWrite {
		<-v.firstWrite
		return nil
	}
	<-v.stop
	return nil
}

type fakeWriter struct{ v *fakeView }

func (w fakeWriter) Write(p []byte) (int, error) {
	w.v.record(func() { w.v.writes++ })
	w.v.firstOnce.Do(func() { close(w.v.firstWrite) })
	return len(p), nil
}

func viewConfig(t *testing.T, sizes ...int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Bench.Sizes = sizes
	cfg.Bench.Methods = finder.Names()
	cfg.Bench.MinTime = time.Hour
	cfg.Bench.MaxIterations = 20
	cfg.Output.JSONPath = filepath.Join(t.TempDir(), "report.json")
	return cfg
}

func runViewWithTimeout(t *testing.T, ctx context.Context, cfg *config.Config, view *fakeView) error {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- runBenchView(ctx, cfg, view) }()

	select {
	case err := <-errc:
		view.mu.Lock()
		view.returned = true
		view.mu.Unlock()
		return err
	case <-time.After(30 * time.Second):
		t.Fatal("runBenchView did not return")
		return nil
	}
}

func readReport(t *testing.T, path string) *output.Report {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var report output.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	return &report
}

func TestRunBenchView_QuitMidRun(t *testing.T) {
	cfg := viewConfig(t, 1000, 50000, 200000)
	view := newFakeView(true)

	if err := runViewWithTimeout(t, context.Background(), cfg, view); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	readReport(t, cfg.Output.JSONPath)

	time.Sleep(50 * time.Millisecond)
	view.mu.Lock()
	defer view.mu.Unlock()
	if view.late != 0 {
		t.Errorf("view was used %d times after runBenchView returned", view.late)
	}
	if view.writes == 0 {
		t.Error("expected progress output before quitting")
	}
}

func TestRunBenchView_Completes(t *testing.T) {
	cfg := viewConfig(t, 10, 64)
	view := newFakeView(false)

	if err := runViewWithTimeout(t, context.Background(), cfg, view); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view.mu.Lock()
	defer view.mu.Unlock()
	if len(view.reports) != 1 {
		t.Fatalf("expected one report, got %d (errors %v)", len(view.reports), view.errors)
	}
	if got := len(view.reports[0].Results); got != 2 {
		t.Errorf("expected 2 results, got %d", got)
	}
	if got := len(readReport(t, cfg.Output.JSONPath).Results); got != 2 {
		t.Errorf("expected 2 results on disk, got %d", got)
	}
}

func TestRunBenchView_ParentCancelled(t *testing.T) {
	cfg := viewConfig(t, 10)
	view := newFakeView(false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runViewWithTimeout(t, ctx, cfg, view); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view.mu.Lock()
	defer view.mu.Unlock()
	if view.stops == 0 {
		t.Error("expected the view to be stopped")
	}
	if len(view.reports) != 0 || len(view.errors) != 0 {
		t.Errorf("cancelled run should not update the view: reports %d errors %v", len(view.reports), view.errors)
	}
}
