// Package main provides the Automaton trigger runner, a long-running
// process that starts workflow executions from schedules and queues.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"github.com/automaton-hq/automaton/pkg/cmd"
	"github.com/automaton-hq/automaton/pkg/engine"
	"github.com/automaton-hq/automaton/pkg/log"
	"github.com/automaton-hq/automaton/pkg/otelhelper"
	"github.com/automaton-hq/automaton/pkg/services"
)

func main() {
	command := &cli.Command{
		Name:                  "automaton-runner",
		Usage:                 "Run workflow triggers (schedules, queues)",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:     "triggers-file",
				Aliases:  []string{"f"},
				Usage:    "Path to the YAML trigger configuration file",
				Required: true,
				Sources:  cli.EnvVars("TRIGGERS_FILE"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("runner")
			logger.InfoContext(ctx, "Initializing Automaton runner")

			if _, err := otelhelper.NewTracer(ctx, "automaton-runner"); err != nil {
				logger.WarnContext(ctx, "Failed to initialize tracer", "error", err)
			}

			persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), "automaton-runner", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			registry := cmd.NewRegistry(logger, nil)
			eng := engine.NewEngine(logger, persistence.ExecutionRepository(), eventBus, registry)
			workflowService := services.NewWorkflow(persistence, registry)
			executionService := services.NewExecution(logger, persistence, eng, workflowService)

			config, err := LoadConfig(command.String("triggers-file"))
			if err != nil {
				return err
			}

			runner := NewRunner(logger, executionService)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := runner.Start(ctx, config); err != nil {
				return err
			}

			<-ctx.Done()
			runner.Stop(context.Background())

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
