package presentation

import (
	"fmt"
	"io"

	"procopy/internal/domain"
	"procopy/internal/rules"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

// PrintPlan renders the plan preview: the planned files as source-relative
// paths plus a summary line. Long lists are truncated unless Verbose is set.
func (p Printer) PrintPlan(plan domain.CopyPlan) {
	fmt.Fprintf(p.Writer, "Plan (%s mode): %s -> %s\n", plan.Mode, plan.SourceRoot, plan.DestRoot)
	fmt.Fprintln(p.Writer)

	paths := plan.RelativePaths()
	if p.Verbose {
		for _, path := range paths {
			fmt.Fprintln(p.Writer, path)
		}
	} else {
		for _, line := range truncateLines(paths) {
			fmt.Fprintln(p.Writer, line)
		}
	}

	fmt.Fprintln(p.Writer)
	if plan.Total == 0 {
		fmt.Fprintln(p.Writer, "No files to copy.")
		return
	}
	fmt.Fprintf(p.Writer, "%d files to copy.\n", plan.Total)
}

// PrintExecution renders the completion summary of a finished copy run.
func (p Printer) PrintExecution(plan domain.CopyPlan, copied int) {
	fmt.Fprintf(p.Writer, "Copied %d of %d files to %s.\n", copied, plan.Total, plan.DestRoot)
}

// PrintRules renders the persisted exclusion rules grouped by kind.
func (p Printer) PrintRules(set *rules.Set) {
	printGroup(p.Writer, "Exact folder names:", set.Exact())
	printGroup(p.Writer, "Folder name prefixes:", set.Prefix())
	if globs := set.Glob(); len(globs) > 0 {
		printGroup(p.Writer, "Folder name globs:", globs)
	}
}

func printGroup(w io.Writer, title string, values []string) {
	fmt.Fprintln(w, title)
	if len(values) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, v := range values {
		fmt.Fprintf(w, "  %s\n", v)
	}
}

func truncateLines(lines []string) []string {
	if len(lines) <= 12 {
		return lines
	}
	head := lines[:5]
	tail := lines[len(lines)-5:]
	out := make([]string, 0, 11)
	out = append(out, head...)
	out = append(out, fmt.Sprintf("... %d more files ...", len(lines)-10))
	return append(out, tail...)
}
