package output

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// PlotComparison renders an interactive HTML page comparing the methods:
// ns/op against input size on a log axis, and a bar chart of the largest size.
func PlotComparison(report *Report, filename string) error {
	if len(report.Results) == 0 {
		return fmt.Errorf("no results to plot")
	}

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(newScalingChart(report), newLargestSizeChart(report))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create chart file %s: %w", filename, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

func newScalingChart(report *Report) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "find-odd benchmark",
			Width:     "1200px",
			Height:    "600px",
			Theme:     types.ThemeVintage,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Time per call by input size",
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Input size",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "ns/op",
			Type: "log",
		}),
	)

	sizes := make([]string, len(report.Results))
	for i, res := range report.Results {
		sizes[i] = strconv.Itoa(res.Size)
	}
	line.SetXAxis(sizes)

	for _, name := range report.MethodNames() {
		data := make([]opts.LineData, len(report.Results))
		for i := range report.Results {
			if m, ok := report.Results[i].Method(name); ok && m.Iterations > 0 {
				data[i] = opts.LineData{Value: m.NsPerOp, Name: name}
			} else {
				data[i] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries(name, data)
	}
	return line
}

func newLargestSizeChart(report *Report) *charts.Bar {
	largest := report.Results[len(report.Results)-1]
	for _, res := range report.Results {
		if res.Size > largest.Size {
			largest = res
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1200px",
			Height: "400px",
			Theme:  types.ThemeVintage,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("ns/op at size %s", FormatNumber(largest.Size)),
			Left:  "center",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
	)

	names := make([]string, 0, len(largest.Methods))
	data := make([]opts.BarData, 0, len(largest.Methods))
	for _, m := range largest.Methods {
		names = append(names, m.Name)
		data = append(data, opts.BarData{Value: m.NsPerOp})
	}
	bar.SetXAxis(names).AddSeries("ns/op", data)
	return bar
}
