// Package lintreport renders a lintrule.Report for local, human-facing
// runs. Structured rendering formats (JSON, SARIF, HTML) are an explicit
// non-goal; this package produces the one plain-text summary cmd/dsflint
// prints, grounded on the shape of the teacher's text reporter with every
// format-specific concern (syntax highlighting, color themes) dropped.
package lintreport

import (
	"fmt"
	"io"

	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
)

// WriteText renders report to w: one line per item, grouped by producer
// phase, followed by a summary count per severity.
func WriteText(w io.Writer, report lintrule.Report) error {
	groups := []struct {
		name  string
		items []lintrule.LintItem
	}{
		{"discovery", report.Discovery},
		{"resolution", report.Resolution},
		{"bpmn", report.BPMN},
		{"fhir", report.FHIR},
	}

	counts := make(map[lintrule.Severity]int)
	for _, group := range groups {
		if len(group.items) == 0 {
			continue
		}
		for _, item := range lintrule.SortStable(group.items) {
			counts[item.Severity]++
			if _, err := fmt.Fprintf(w, "[%s] %-7s %s: %s (%s)\n",
				group.name, item.Severity, formatLocation(item.Location), item.Message, item.Kind); err != nil {
				return err
			}
		}
	}

	if report.TimedOut {
		if _, err := fmt.Fprintln(w, "warning: run exceeded its deadline; this report is partial"); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%d error(s), %d warning(s), %d info, %d success\n",
		counts[lintrule.SeverityError], counts[lintrule.SeverityWarning],
		counts[lintrule.SeverityInfo], counts[lintrule.SeveritySuccess])
	return err
}

func formatLocation(loc lintrule.Location) string {
	if loc.Element == "" {
		if loc.Line == 0 {
			return loc.File
		}
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	}
	if loc.Line == 0 {
		return fmt.Sprintf("%s#%s", loc.File, loc.Element)
	}
	return fmt.Sprintf("%s:%d#%s", loc.File, loc.Line, loc.Element)
}
