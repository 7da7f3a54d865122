package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"logsetup/internal/logging"
)

// detectEnvironment is swapped by tests.
var detectEnvironment = func() logging.Environment {
	return logging.DetectEnvironment(os.Stderr)
}

func newDetectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Show how stderr is attached and which output mode applies",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ctx.loggerOptions()
			if err != nil {
				return err
			}
			env := detectEnvironment()

			filterValue := "invalid"
			if filter, err := env.ResolveFilter(opts.DefaultLevel); err == nil {
				filterValue = filter.String()
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				detectRows(env, opts, filterValue),
			))
			return nil
		},
	}
}

func detectRows(env logging.Environment, opts logging.Options, filterValue string) [][]string {
	hint := valueOrDash(env.JournalStream)
	if env.JournalStream != "" {
		if _, ok := logging.ParseJournalStream(env.JournalStream); !ok {
			hint += " (malformed)"
		}
	}

	identity := "-"
	if env.Prober != nil {
		if id, err := env.Prober.Identity(env.Descriptor); err == nil {
			identity = id.String()
		} else {
			identity = "unavailable: " + err.Error()
		}
	}

	format := opts.Format
	if format == "" {
		format = "console"
	}

	return [][]string{
		{"Terminal", yesNo(env.Terminal)},
		{logging.JournalStreamEnv, hint},
		{"Stderr identity", identity},
		{"Journal connected", yesNo(env.JournalConnected())},
		{logging.FilterEnv, valueOrDash(env.Filter)},
		{"Default level", valueOrDash(opts.DefaultLevel)},
		{"Effective filter", filterValue},
		{"Format", format},
		{"Mode", logging.SelectMode(env).String()},
	}
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
