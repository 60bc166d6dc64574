package cmd

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/fulmenhq/licensegate/internal/scan"
)

// renderTable formats the scan result as an aligned text table: one row per
// violation, followed by the summary counts.
func renderTable(result *scan.Result) string {
	var b strings.Builder

	summary := result.Report.Summary
	fmt.Fprintf(&b, "Workspaces: %d  Packages: %d  Allowed: %d  Violations: %d\n",
		len(result.Workspaces), summary.Total, summary.Allowed, summary.Violations)

	if len(result.Report.Violations) > 0 {
		b.WriteString("\n")
		headers := []string{"PACKAGE", "LICENSE", "VERSION"}
		rows := make([][]string, 0, len(result.Report.Violations))
		for _, v := range result.Report.Violations {
			rows = append(rows, []string{v.Package, v.License, v.Version})
		}
		writeAligned(&b, headers, rows)
	}

	if len(result.RangeAdvisories) > 0 {
		b.WriteString("\nRange advisories:\n")
		headers := []string{"PACKAGE", "DECLARED", "INSTALLED"}
		rows := make([][]string, 0, len(result.RangeAdvisories))
		for _, a := range result.RangeAdvisories {
			rows = append(rows, []string{a.Package, a.Declared, a.Installed})
		}
		writeAligned(&b, headers, rows)
	}

	return b.String()
}

// writeAligned pads columns by display width so wide runes line up.
func writeAligned(b *strings.Builder, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
}
