package main

import (
	"github.com/spf13/cobra"
)

// rootFlags holds the persistent flags every subcommand reads, mirroring
// the teacher's rootFlags/--verbose/--dry-run pairing in cmd/streamy/root.go,
// generalized with the catalog/pipeline path flags this CLI's config model
// needs.
type rootFlags struct {
	catalogPath      string
	catalogOverrides []string
	pipelinesDir     string
	verbose          bool
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "pipeforge",
		Short:         "Pipeforge builds and runs declarative, typed data pipelines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.catalogPath, "catalog", "catalog.yaml", "Path to the base catalog definition")
	cmd.PersistentFlags().StringArrayVar(&flags.catalogOverrides, "catalog-override", nil, "Additional catalog override file, in precedence order (repeatable)")
	cmd.PersistentFlags().StringVar(&flags.pipelinesDir, "pipelines-dir", "pipelines", "Directory containing one pipeline definition file per pipeline")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug-level logging")

	cmd.AddCommand(newRunCmd(flags, app))
	cmd.AddCommand(newValidateCmd(flags, app))
	cmd.AddCommand(newDagCmd(flags, app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
