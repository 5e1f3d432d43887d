package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

func newRunCmd(flags *rootFlags, app *AppContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run [pipeline]",
		Short: "Run a pipeline, or every pipeline under --pipelines-dir merged into one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, logger := app.CommandContext(cmd, "run")
			opts := pipeline.RunOptions{DryRun: dryRun, StopOnFirstError: true}

			if len(args) == 1 {
				name := args[0]
				path := resolvePipelinePath(flags, name)
				_, result, err := app.RunUseCase.Run(ctx, flags.catalogPath, flags.catalogOverrides, path, opts)
				if err != nil {
					return newCommandError("run", name, err)
				}
				printPipelineResult(cmd.OutOrStdout(), name, result)
				if !result.Success {
					return fmt.Errorf("pipeline %q failed", name)
				}
				return nil
			}

			paths, err := discoverPipelines(flags.pipelinesDir)
			if err != nil {
				return newCommandError("run", "", err)
			}

			mergedName := "merged"
			_, merged, err := app.MergeUseCase.Merge(ctx, flags.catalogPath, flags.catalogOverrides, paths, mergedName)
			if err != nil {
				return newCommandError("run", mergedName, err)
			}

			result := merged.RunAsync(ctx, opts)
			logger.Info(ctx, "merged run complete", "pipelines", len(paths), "success", result.Success)
			printPipelineResult(cmd.OutOrStdout(), mergedName, result)
			if !result.Success {
				return fmt.Errorf("merged pipeline failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build and validate without executing any node")
	return cmd
}
