package app

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"pilemap/domain/sheet"
)

// BuildImportReport produces a human-readable markdown report of one
// extraction for review before grading.
func BuildImportReport(res *sheet.ExtractionResult, letters sheet.ColumnLetters, mode string, summary *ExtractionSummary) string {
	var b strings.Builder

	b.WriteString("# Pile Import Report\n\n")
	fmt.Fprintf(&b, "- **Sheet**: %s\n", res.SheetName)
	fmt.Fprintf(&b, "- **Mode**: %s\n", mode)
	fmt.Fprintf(&b, "- **Rows**: %d\n", res.RowCount())
	if summary != nil {
		fmt.Fprintf(&b, "- **Trackers**: %d\n", summary.Trackers)
	}
	fmt.Fprintf(&b, "- **Columns**: frame=%s pole=%s x=%s y=%s z=%s\n",
		letters.Frame, letters.Pole, letters.X, letters.Y, letters.Z)
	if res.IsFallback {
		b.WriteString("\n> **Warning**: no header row was recognized; extraction started at row 1. ")
		b.WriteString("Verify the column letters before grading.\n")
	}

	if summary != nil {
		b.WriteString("\n## Coordinate ranges\n\n")
		b.WriteString("| Axis | Count | Min | Max | Mean | Std dev |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, axis := range summary.Axes {
			fmt.Fprintf(&b, "| %s | %d | %.3f | %.3f | %.3f | %.3f |\n",
				axis.Field, axis.Count, axis.Min, axis.Max, axis.Mean, axis.StdDev)
		}
		if summary.SlopeValid {
			fmt.Fprintf(&b, "\nEstimated north-south terrain slope: %.4f (elevation per unit northing)\n", summary.NorthSouthSlope)
		}
	}

	return b.String()
}

// RenderReportHTML renders a markdown report to HTML for the review UI.
func RenderReportHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
