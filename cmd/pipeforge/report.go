package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

// Styles mirror the teacher's internal/tui/styles.go palette, reused here
// for the non-interactive report instead of a bubbletea view.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	summaryStyle = lipgloss.NewStyle().MarginTop(1)
)

// printPipelineResult renders a PipelineResult as a per-node table followed
// by a styled summary line, for `run` and `run --dry-run`.
func printPipelineResult(w io.Writer, pipelineName string, result pipeline.PipelineResult) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("pipeline %s", pipelineName)))

	if result.DryRun {
		fmt.Fprintln(w, sectionStyle.Render("dry run"))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "nodes\t%d\n", result.NodeCount)
		fmt.Fprintf(tw, "layers\t%d\n", result.LayerCount)
		fmt.Fprintf(tw, "validated inputs\t%d\n", result.ValidatedInputs)
		tw.Flush()
		fmt.Fprintln(w, summaryStyle.Render(successStyle.Render("OK")))
		return
	}

	fmt.Fprintln(w, sectionStyle.Render("nodes"))
	names := make([]string, 0, len(result.Nodes))
	for name := range result.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "NAME\tSTATUS\tIN\tOUT\tELAPSED\n")
	for _, name := range names {
		n := result.Nodes[name]
		status := successStyle.Render("ok")
		if !n.Success {
			status = failureStyle.Render("failed")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", name, status, n.InputCount, n.OutputCount, n.Elapsed)
	}
	tw.Flush()

	summary := successStyle.Render(fmt.Sprintf("OK in %s", result.Elapsed))
	if !result.Success {
		summary = failureStyle.Render(fmt.Sprintf("FAILED in %s: %v", result.Elapsed, result.Error))
	}
	fmt.Fprintln(w, summaryStyle.Render(summary))
}

// printValidationResult renders a catalog.ValidationResult for `validate`.
func printValidationResult(w io.Writer, pipelineName string, result catalog.ValidationResult) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("pipeline %s", pipelineName)))
	if result.IsValid() {
		fmt.Fprintln(w, summaryStyle.Render(successStyle.Render("all external entries valid")))
		return
	}

	fmt.Fprintln(w, sectionStyle.Render("validation errors"))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ENTRY\tKIND\tMESSAGE\n")
	for _, e := range result.Errors {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.EntryKey, e.Kind, e.Message)
	}
	tw.Flush()
	fmt.Fprintln(w, summaryStyle.Render(failureStyle.Render(fmt.Sprintf("%d error(s)", len(result.Errors)))))
}
