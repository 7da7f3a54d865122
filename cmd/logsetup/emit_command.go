package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"logsetup/internal/logging"
)

// installLogger is swapped by tests so emit can run more than once per process.
var installLogger = logging.SetupWith

var emitLevels = []slog.Level{
	logging.LevelTrace,
	slog.LevelDebug,
	slog.LevelInfo,
	slog.LevelWarn,
	slog.LevelError,
}

func newEmitCommand(ctx *commandContext) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "emit [message]",
		Short: "Install the process logger and write one record per level",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.loggerOptions()
			if err != nil {
				return err
			}
			opts.Writer = cmd.ErrOrStderr()

			logger, err := installLogger(detectEnvironment(), opts)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			message := "sample record"
			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				message = strings.TrimSpace(args[0])
			}

			runCtx := cmd.Context()
			scoped := logger
			if target = strings.TrimSpace(target); target != "" {
				scoped = logging.NewTargetLogger(logger, target)
			}
			for i, level := range emitLevels {
				if err := runCtx.Err(); err != nil {
					return err
				}
				scoped.Log(runCtx, level, message, logging.Int("seq", i+1))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "logsetup", "Target attached to emitted records")
	return cmd
}
