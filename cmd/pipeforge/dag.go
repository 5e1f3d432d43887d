package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
	"github.com/pipeforge/pipeforge/internal/presentation/dagview"
)

func newDagCmd(flags *rootFlags, app *AppContext) *cobra.Command {
	var asJSON bool
	var interactive bool

	cmd := &cobra.Command{
		Use:   "dag <pipeline>",
		Short: "Print or browse a pipeline's built DAG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := app.CommandContext(cmd, "dag")
			name := args[0]
			path := resolvePipelinePath(flags, name)

			_, pip, err := app.PrepareUseCase.Prepare(ctx, flags.catalogPath, flags.catalogOverrides, path)
			if err != nil {
				return newCommandError("dag", name, err)
			}

			export := pip.ExportDag()

			if interactive {
				program := tea.NewProgram(dagview.New(name, export))
				_, err := program.Run()
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(export)
			}

			renderDagTree(cmd.OutOrStdout(), name, export)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the DAG export as JSON instead of a table")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Launch an interactive layer-by-layer DAG browser")
	return cmd
}

func renderDagTree(w io.Writer, name string, export pipeline.DagExport) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("pipeline %s", name)))

	byLayer := map[int][]pipeline.DagNode{}
	maxLayer := 0
	for _, n := range export.Nodes {
		byLayer[n.Layer] = append(byLayer[n.Layer], n)
		if n.Layer > maxLayer {
			maxLayer = n.Layer
		}
	}

	for layer := 0; layer <= maxLayer; layer++ {
		nodes := byLayer[layer]
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("layer %d", layer)))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "NODE\tINPUTS\tOUTPUTS\n")
		for _, n := range nodes {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", n.Name, joinKeys(n.Inputs), joinKeys(n.Outputs))
		}
		tw.Flush()
	}

	if len(export.Entries) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("entries"))
		byKey := make(map[string]pipeline.DagEntry, len(export.Entries))
		entries := make([]string, 0, len(export.Entries))
		for _, e := range export.Entries {
			byKey[e.Key] = e
			entries = append(entries, e.Key)
		}
		sort.Strings(entries)

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "KEY\tTYPE\tCAPABILITIES\n")
		for _, key := range entries {
			info := byKey[key]
			caps := skippedStyle.Render("-")
			if len(info.Capabilities) > 0 {
				caps = joinKeys(info.Capabilities)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", key, info.DataTypeName, caps)
		}
		tw.Flush()
	}
}

func joinKeys(ss []string) string {
	if len(ss) == 0 {
		return "-"
	}
	out := ss[0]
	for _, s := range ss[1:] {
		out += ", " + s
	}
	return out
}
