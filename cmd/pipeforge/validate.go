package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

func newValidateCmd(flags *rootFlags, app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [pipeline]",
		Short: "Build a pipeline and inspect its external inputs without executing it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _ := app.CommandContext(cmd, "validate")
			opts := pipeline.RunOptions{StopOnFirstError: true}

			names := args
			if len(names) == 0 {
				paths, err := discoverPipelines(flags.pipelinesDir)
				if err != nil {
					return newCommandError("validate", "", err)
				}
				names = sortedNames(paths)
			}

			failed := false
			for _, name := range names {
				path := resolvePipelinePath(flags, name)
				_, result, err := app.ValidateUseCase.Validate(ctx, flags.catalogPath, flags.catalogOverrides, path, opts)
				if err != nil && result.IsValid() {
					return newCommandError("validate", name, err)
				}
				printValidationResult(cmd.OutOrStdout(), name, result)
				if !result.IsValid() {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("one or more pipelines failed validation")
			}
			return nil
		},
	}
	return cmd
}
