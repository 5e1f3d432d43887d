package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	applicationpipeline "github.com/pipeforge/pipeforge/internal/application/pipeline"
	domainnode "github.com/pipeforge/pipeforge/internal/domain/node"
	infracatalog "github.com/pipeforge/pipeforge/internal/infrastructure/catalog"
	configinfra "github.com/pipeforge/pipeforge/internal/infrastructure/config"
	engineinfra "github.com/pipeforge/pipeforge/internal/infrastructure/engine"
	eventsinfra "github.com/pipeforge/pipeforge/internal/infrastructure/events"
	logginginfra "github.com/pipeforge/pipeforge/internal/infrastructure/logging"
	metricsinfra "github.com/pipeforge/pipeforge/internal/infrastructure/metrics"
	"github.com/pipeforge/pipeforge/internal/nodes"
	"github.com/pipeforge/pipeforge/internal/ports"
)

func main() {
	level := "info"
	if envLevel := os.Getenv("PIPEFORGE_LOG_LEVEL"); envLevel != "" {
		level = envLevel
	}
	// The logger is built before cobra parses flags, so --verbose/-v is read
	// from the raw arguments here.
	verbose := false
	for _, arg := range os.Args[1:] {
		if arg == "--verbose" || arg == "-v" || arg == "--verbose=true" {
			verbose = true
		}
	}
	if verbose {
		level = "debug"
	}

	appLogger, err := logginginfra.New(logginginfra.Options{
		Level:     level,
		Human:     verbose || term.IsTerminal(int(os.Stderr.Fd())),
		Writer:    os.Stderr,
		Layer:     "infrastructure",
		Component: "cli",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pipeforge: failed to create logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := ports.GenerateCorrelationID()
	ctx := ports.WithCorrelationID(context.Background(), correlationID)

	nodeRegistry := domainnode.NewRegistry()
	if err := nodes.Register(nodeRegistry); err != nil {
		fmt.Fprintf(os.Stderr, "pipeforge: failed to register node types: %v\n", err)
		os.Exit(1)
	}

	entryRegistry := infracatalog.NewRegistry()
	if err := nodes.RegisterEntries(entryRegistry); err != nil {
		fmt.Fprintf(os.Stderr, "pipeforge: failed to register catalog entry types: %v\n", err)
		os.Exit(1)
	}

	catalogLoader := configinfra.NewYAMLCatalogLoader(appLogger.With("component", "catalog_loader"), entryRegistry)
	pipelineLoader := configinfra.NewYAMLPipelineLoader(appLogger.With("component", "pipeline_loader"), nodeRegistry)
	dagBuilder := engineinfra.NewDAGBuilder()
	eventPublisher := eventsinfra.NewLoggingPublisher(appLogger.With("component", "event_publisher"))
	metricsCollector := metricsinfra.New()

	executor := engineinfra.NewExecutor(
		engineinfra.WithExecutorLogger(appLogger.With("component", "executor")),
		engineinfra.WithExecutorMetrics(metricsCollector),
	)

	prepareUseCase := applicationpipeline.NewPrepareUseCase(
		catalogLoader,
		pipelineLoader,
		dagBuilder,
		appLogger.With("component", "prepare_usecase"),
		eventPublisher,
	)
	runUseCase := applicationpipeline.NewRunUseCase(
		prepareUseCase,
		executor,
		appLogger.With("component", "run_usecase"),
		eventPublisher,
	)
	validateUseCase := applicationpipeline.NewValidateUseCase(
		prepareUseCase,
		appLogger.With("component", "validate_usecase"),
		eventPublisher,
	)
	mergeUseCase := applicationpipeline.NewMergeUseCase(
		catalogLoader,
		pipelineLoader,
		dagBuilder,
		appLogger.With("component", "merge_usecase"),
		eventPublisher,
	)

	app := &AppContext{
		Logger:          appLogger,
		Events:          eventPublisher,
		PrepareUseCase:  prepareUseCase,
		RunUseCase:      runUseCase,
		ValidateUseCase: validateUseCase,
		MergeUseCase:    mergeUseCase,
	}

	rootCmd := newRootCmd(app)
	appLogger.Info(ctx, "starting pipeforge command", "pid", os.Getpid(), "correlation_id", correlationID)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
