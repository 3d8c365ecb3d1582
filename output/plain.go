package output

import (
	"fmt"
	"io"
	"strings"
)

const (
	heavyRule = "==============================================================================="
	lightRule = "-------------------------------------------------------------------------------"
)

// WritePlain formats the report as human-readable plain text
func (r *Report) WritePlain(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", heavyRule)
	fmt.Fprintf(&b, "                         find-odd Benchmark Results\n")
	fmt.Fprintf(&b, "%s\n\n", heavyRule)

	fmt.Fprintf(&b, "OVERVIEW\n%s\n", lightRule)
	fmt.Fprintf(&b, "Generated:       %s\n", r.Metadata.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "Version:         %s\n", r.Metadata.Version)
	fmt.Fprintf(&b, "Duration:        %d ms\n", r.Metadata.DurationMS)
	fmt.Fprintf(&b, "Host:            %s/%s, %d CPUs, %s\n",
		r.Metadata.Host.GOOS, r.Metadata.Host.GOARCH, r.Metadata.Host.NumCPU, r.Metadata.Host.GoVersion)
	if len(r.Metadata.Host.CPUFeatures) > 0 {
		fmt.Fprintf(&b, "CPU Features:    %s\n", strings.Join(r.Metadata.Host.CPUFeatures, ", "))
	}
	fmt.Fprintf(&b, "Seed:            %d\n\n", r.Options.Seed)

	for _, res := range r.Results {
		fmt.Fprintf(&b, "SIZE %s (%s values)\n%s\n", FormatNumber(res.Size), FormatNumber(res.Length), lightRule)
		if res.Expected != nil {
			fmt.Fprintf(&b, "Expected:        %d\n", *res.Expected)
		} else {
			fmt.Fprintf(&b, "Expected:        none (default 0)\n")
		}
		if res.RadixPlan != nil {
			fmt.Fprintf(&b, "Radix Plan:      radix=%d passes=%d max=%d\n",
				res.RadixPlan.Radix, res.RadixPlan.Passes, res.RadixPlan.Max)
		}
		agreement := "yes"
		if !res.Agreement {
			agreement = "NO"
		}
		fmt.Fprintf(&b, "Agreement:       %s\n", agreement)

		fastest, hasFastest := res.Fastest()
		for _, m := range res.Methods {
			marker := ""
			if hasFastest && m.Name == fastest.Name {
				marker = "  [FASTEST]"
			}
			status := "ok"
			if !m.Correct {
				status = "WRONG"
			}
			fmt.Fprintf(&b, "  %-10s %14s ns/op  %10s iter  %8.1f allocs/op  %-5s result=%d%s\n",
				m.Name, FormatFloat(m.NsPerOp), FormatNumber(m.Iterations), m.AllocsPerOp, status, m.Result, marker)
		}
		fmt.Fprintf(&b, "\n")
	}

	if len(r.Warnings) > 0 || len(r.Errors) > 0 {
		fmt.Fprintf(&b, "DIAGNOSTICS\n%s\n", lightRule)
		if len(r.Warnings) > 0 {
			fmt.Fprintf(&b, "Warnings:\n")
			for _, warning := range r.Warnings {
				fmt.Fprintf(&b, "  - %s\n", warning.Message)
			}
		}
		if len(r.Errors) > 0 {
			fmt.Fprintf(&b, "Errors:\n")
			for _, err := range r.Errors {
				fmt.Fprintf(&b, "  - %s\n", err.Message)
			}
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "%s\n", heavyRule)

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatNumber adds thousand separators to numbers
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// FormatFloat renders ns/op values: one decimal below 100, thousand separators above.
func FormatFloat(f float64) string {
	if f < 100 {
		return fmt.Sprintf("%.1f", f)
	}
	return FormatNumber(int(f + 0.5))
}
