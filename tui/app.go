package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Baptistemontan/bench-find-odd/bench"
	"github.com/Baptistemontan/bench-find-odd/output"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Sort columns of the results table, cycled with 's'.
const (
	SortBySize = iota
	SortByNsPerOp
	SortByMethod
	SortByAllocs
	numSortColumns
)

var sortColumnNames = []string{"size", "ns/op", "method", "allocs/op"}

var tableHeaders = []string{"Size", "Method", "Result", "ns/op", "Iterations", "Allocs/op", "Bytes/op"}

// App represents the TUI application
type App struct {
	app          *tview.Application
	pages        *tview.Pages
	progressView *tview.TextView
	table        *tview.Table
	detail       *tview.TextView
	diagnostics  *tview.TextView
	statusBar    *tview.TextView

	opts bench.Options

	// Shared mutable state protected by mu (accessed from the bench goroutine)
	mu         sync.Mutex
	report     *output.Report
	rows       []Row
	sortColumn int

	benchComplete atomic.Bool

	// done is closed once Run has returned; later updates are dropped.
	done     chan struct{}
	doneOnce sync.Once
}

// Row is one method measurement at one input size.
type Row struct {
	Size   output.SizeResult
	Method output.MethodResult
}

// NewApp creates the TUI for a benchmark run with the given options.
func NewApp(opts bench.Options) *App {
	a := &App{
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
		opts:  opts,
		done:  make(chan struct{}),
	}
	a.setupUI()
	return a
}

// ProgressWriter returns a writer whose lines show up on the progress page.
// It is safe to use from any goroutine.
func (a *App) ProgressWriter() io.Writer {
	return progressWriter{a: a}
}

type progressWriter struct {
	a *App
}

func (w progressWriter) Write(p []byte) (int, error) {
	text := tview.Escape(string(p))
	w.a.queueUpdateDraw(func() {
		fmt.Fprint(w.a.progressView, text)
		w.a.progressView.ScrollToEnd()
	})
	return len(p), nil
}

// SetReport displays a finished report and switches to the results page.
func (a *App) SetReport(report *output.Report) {
	if report == nil {
		a.ShowError("Benchmark completed but returned no report")
		return
	}

	a.mu.Lock()
	a.report = report
	a.rows = SortRows(FlattenRows(report), a.sortColumn)
	a.mu.Unlock()

	a.benchComplete.Store(true)

	a.queueUpdateDraw(func() {
		a.displayResults()
		a.updateStatusBar()
		a.pages.SwitchToPage("results")
	})
}

// ShowError displays an error message on the progress page
func (a *App) ShowError(message string) {
	a.queueUpdateDraw(func() {
		fmt.Fprintf(a.progressView, "\n[red]Error:[white] %s\n\n[yellow]Press 'q' to quit[white]\n", tview.Escape(message))
		a.statusBar.SetText("[red]Benchmark failed[white] | Press 'q' to quit")
		a.pages.SwitchToPage("progress")
	})
}

// Run starts the TUI application
func (a *App) Run() error {
	defer a.doneOnce.Do(func() { close(a.done) })
	return a.app.Run()
}

// queueUpdateDraw hands f to the UI goroutine and waits for it to run, or
// returns without running it once Run has returned. tview never drains its
// update queue after Run, so a plain QueueUpdateDraw would block forever.
func (a *App) queueUpdateDraw(f func()) {
	select {
	case <-a.done:
		return
	default:
	}

	queued := make(chan struct{})
	go func() {
		defer close(queued)
		a.app.QueueUpdateDraw(f)
	}()

	select {
	case <-queued:
	case <-a.done:
	}
}

// Stop ends Run from any goroutine.
func (a *App) Stop() {
	a.app.Stop()
}

func (a *App) setupUI() {
	a.progressView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.progressView.SetBorder(true).SetTitle(" bench-find-odd Progress ").SetTitleAlign(tview.AlignCenter)
	fmt.Fprintf(a.progressView, "[white::b]Measuring %d sizes with methods %s[white::-]\n\n",
		len(a.opts.Sizes), strings.Join(a.opts.Methods, ", "))

	a.table = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.table.SetBorder(true).SetTitle(" Results ").SetTitleAlign(tview.AlignLeft)
	a.table.SetSelectedFunc(func(row, column int) {
		a.showDetail(row)
	})
	a.table.SetSelectionChangedFunc(func(row, column int) {
		a.showDetail(row)
	})

	a.detail = tview.NewTextView().SetDynamicColors(true)
	a.detail.SetBorder(true).SetTitle(" Detail ").SetTitleAlign(tview.AlignLeft)

	a.diagnostics = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.diagnostics.SetBorder(true).SetTitle(" Diagnostics ").SetTitleAlign(tview.AlignLeft)

	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetText("[yellow]Benchmark running...[white] | Press 'q' to quit")

	side := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.detail, 0, 2, false).
		AddItem(a.diagnostics, 0, 1, false)

	body := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.table, 0, 2, true).
		AddItem(side, 0, 1, false)

	progress := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.progressView, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	results := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.pages.AddPage("progress", progress, true, true)
	a.pages.AddPage("results", results, true, false)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'q', 'Q':
			a.app.Stop()
			return nil
		case 's', 'S':
			if a.benchComplete.Load() {
				a.cycleSort()
			}
			return nil
		case 'p', 'P':
			a.pages.SwitchToPage("progress")
			a.updateStatusBar()
			return nil
		case 'r', 'R':
			if a.benchComplete.Load() {
				a.pages.SwitchToPage("results")
				a.updateStatusBar()
			}
			return nil
		}
		return event
	})

	a.app.SetRoot(a.pages, true)
}

func (a *App) cycleSort() {
	a.mu.Lock()
	a.sortColumn = (a.sortColumn + 1) % numSortColumns
	a.rows = SortRows(a.rows, a.sortColumn)
	a.mu.Unlock()

	a.displayResults()
	a.updateStatusBar()
}

// displayResults fills the table, detail and diagnostics panels. Must run on
// the UI goroutine.
func (a *App) displayResults() {
	a.mu.Lock()
	rows := a.rows
	report := a.report
	a.mu.Unlock()

	a.table.Clear()
	for col, header := range tableHeaders {
		a.table.SetCell(0, col, tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetAttributes(tcell.AttrBold))
	}

	for i, r := range rows {
		color := tcell.ColorWhite
		if !r.Method.Correct {
			color = tcell.ColorRed
		} else if fastest, ok := r.Size.Fastest(); ok && fastest.Name == r.Method.Name {
			color = tcell.ColorGreen
		}
		for col, text := range RowCells(r) {
			cell := tview.NewTableCell(text).SetTextColor(color)
			if col != 1 {
				cell.SetAlign(tview.AlignRight)
			}
			a.table.SetCell(i+1, col, cell)
		}
	}

	if len(rows) > 0 {
		a.table.Select(1, 0)
		a.showDetail(1)
	} else {
		a.detail.SetText("[dim]No measurements[white]")
	}
	a.diagnostics.SetText(BuildDiagnosticsText(report))
}

func (a *App) showDetail(tableRow int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	idx := tableRow - 1
	if idx < 0 || idx >= len(a.rows) {
		return
	}
	a.detail.SetText(BuildDetailText(a.rows[idx]))
	a.detail.ScrollToBeginning()
}

func (a *App) updateStatusBar() {
	if !a.benchComplete.Load() {
		a.statusBar.SetText("[yellow]Benchmark running...[white] | 'q' to quit")
		return
	}

	frontPageName, _ := a.pages.GetFrontPage()
	if frontPageName == "progress" {
		a.statusBar.SetText("[green]Benchmark complete![white] | 'r': results, 'q': quit")
		return
	}

	a.mu.Lock()
	column := sortColumnNames[a.sortColumn]
	a.mu.Unlock()
	a.statusBar.SetText(fmt.Sprintf("[green]Benchmark complete![white] | sorted by [cyan]%s[white] | ↑↓: select, Enter: detail, 's': sort, 'p': progress, 'q': quit", column))
}

// FlattenRows lists every measurement of report in measured order.
func FlattenRows(report *output.Report) []Row {
	if report == nil {
		return nil
	}
	var rows []Row
	for _, res := range report.Results {
		for _, m := range res.Methods {
			rows = append(rows, Row{Size: res, Method: m})
		}
	}
	return rows
}

// SortRows returns rows ordered by column. Ties keep their measured order.
func SortRows(rows []Row, column int) []Row {
	sorted := append([]Row(nil), rows...)
	var less func(a, b Row) bool
	switch column {
	case SortByNsPerOp:
		less = func(a, b Row) bool { return a.Method.NsPerOp < b.Method.NsPerOp }
	case SortByMethod:
		less = func(a, b Row) bool { return a.Method.Name < b.Method.Name }
	case SortByAllocs:
		less = func(a, b Row) bool { return a.Method.AllocsPerOp < b.Method.AllocsPerOp }
	default:
		less = func(a, b Row) bool { return a.Size.Size < b.Size.Size }
	}
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}

// RowCells renders one table row in tableHeaders order.
func RowCells(r Row) []string {
	return []string{
		output.FormatNumber(r.Size.Size),
		r.Method.Name,
		fmt.Sprintf("%d", r.Method.Result),
		output.FormatFloat(r.Method.NsPerOp),
		output.FormatNumber(r.Method.Iterations),
		output.FormatFloat(r.Method.AllocsPerOp),
		output.FormatFloat(r.Method.BytesPerOp),
	}
}

// BuildDetailText describes one measurement for the detail panel.
func BuildDetailText(r Row) string {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("[white::b]%s[white::-] at size %s\n\n", r.Method.Name, output.FormatNumber(r.Size.Size)))
	content.WriteString(fmt.Sprintf("[dim]Input length:[white] %s\n", output.FormatNumber(r.Size.Length)))
	if r.Size.Expected != nil {
		content.WriteString(fmt.Sprintf("[dim]Expected:[white]     %d\n", *r.Size.Expected))
	} else {
		content.WriteString("[dim]Expected:[white]     none (empty input)\n")
	}
	if r.Method.Correct {
		content.WriteString(fmt.Sprintf("[dim]Result:[white]       [green]%d[white]\n", r.Method.Result))
	} else {
		content.WriteString(fmt.Sprintf("[dim]Result:[white]       [red]%d (wrong)[white]\n", r.Method.Result))
	}
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("[dim]ns/op:[white]        %s\n", output.FormatFloat(r.Method.NsPerOp)))
	content.WriteString(fmt.Sprintf("[dim]Iterations:[white]   %s\n", output.FormatNumber(r.Method.Iterations)))
	content.WriteString(fmt.Sprintf("[dim]Allocs/op:[white]    %s\n", output.FormatFloat(r.Method.AllocsPerOp)))
	content.WriteString(fmt.Sprintf("[dim]Bytes/op:[white]     %s\n", output.FormatFloat(r.Method.BytesPerOp)))

	if fastest, ok := r.Size.Fastest(); ok {
		if fastest.Name == r.Method.Name {
			content.WriteString("\n[green]Fastest at this size[white]\n")
		} else if fastest.NsPerOp > 0 {
			content.WriteString(fmt.Sprintf("\n[yellow]%.2fx[white] slower than %s\n", r.Method.NsPerOp/fastest.NsPerOp, fastest.Name))
		}
	}

	if p := r.Size.RadixPlan; p != nil {
		content.WriteString(fmt.Sprintf("\n[dim]Radix plan:[white]   %d buckets, %d passes, max %d\n", p.Radix, p.Passes, p.Max))
	}

	return content.String()
}

// BuildDiagnosticsText lists the report's warnings and errors.
func BuildDiagnosticsText(report *output.Report) string {
	if report == nil || (len(report.Warnings) == 0 && len(report.Errors) == 0) {
		return "[green]No warnings or errors[white]"
	}

	var content strings.Builder
	for _, e := range report.Errors {
		content.WriteString(fmt.Sprintf("[red]ERROR[white] %s: %s\n", e.Type, tview.Escape(e.Message)))
	}
	for _, w := range report.Warnings {
		content.WriteString(fmt.Sprintf("[yellow]WARN[white]  %s: %s\n", w.Type, tview.Escape(w.Message)))
	}
	return content.String()
}
