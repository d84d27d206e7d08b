package stockwatch

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func writeLines(path string, lines []string) error {
	var out strings.Builder
	for _, line := range lines {
		out.WriteString(line)
		out.WriteString("\n")
	}
	err := os.WriteFile(path, []byte(out.String()), 0644)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteOutOfStockReport writes one sku per line, in input order,
// replacing any previous report.
func WriteOutOfStockReport(path string, skus []string) error {
	return writeLines(path, skus)
}

// WriteChangeReport writes one `sku<TAB>label` line per classified
// transition, in input order.
func WriteChangeReport(path string, changes []Change) error {
	lines := make([]string, len(changes))
	for i, change := range changes {
		lines[i] = fmt.Sprintf("%s\t%s", change.Sku, change.Transition.Label())
	}
	return writeLines(path, lines)
}

type Summary struct {
	Checked         int
	Restocked       int
	StillOutOfStock int
	NewlyOutOfStock int
	ProbeErrors     int
}

func summarize(changes []Change, checked, probeErrors int) Summary {
	summary := Summary{Checked: checked, ProbeErrors: probeErrors}
	for _, change := range changes {
		switch change.Transition {
		case TransitionRestocked:
			summary.Restocked++
		case TransitionStillOutOfStock:
			summary.StillOutOfStock++
		case TransitionNewlyOutOfStock:
			summary.NewlyOutOfStock++
		}
	}
	return summary
}

func RenderSummary(out io.Writer, summary Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Transition", "Count"})
	t.AppendRows([]table.Row{
		{"restocked", summary.Restocked},
		{"still out of stock", summary.StillOutOfStock},
		{"newly out of stock", summary.NewlyOutOfStock},
		{"probe errors", summary.ProbeErrors},
	})
	t.AppendFooter(table.Row{"skus checked", summary.Checked})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
