package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"logsetup/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	// DefaultLevel is the filter used when LOG_FILTER is absent or invalid.
	DefaultLevel string
	// Format is "console" (default) or "json".
	Format string
	// Writer receives log lines; nil means os.Stderr.
	Writer io.Writer
	// RunID, when set, is attached to every record as run_id.
	RunID string
	// JournalPriority prefixes console lines with <N> syslog priorities in
	// journal mode.
	JournalPriority bool
}

// installed guards the process-wide logger.
var installed atomic.Bool

// Setup detects how stderr is attached, builds the logger and installs it as
// the slog default. It succeeds at most once per process; later calls fail
// with ErrAlreadyInitialized. Call it before anything can reopen stderr.
func Setup(defaultLevel string) (*slog.Logger, error) {
	return SetupWith(DetectEnvironment(os.Stderr), Options{DefaultLevel: defaultLevel})
}

// SetupWith is Setup with an explicit environment and options.
func SetupWith(env Environment, opts Options) (*slog.Logger, error) {
	logger, _, err := New(env, opts)
	if err != nil {
		return nil, err
	}
	if !installed.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInitialized
	}
	slog.SetDefault(logger)
	return logger, nil
}

// New builds a logger for env without touching process-wide state and
// reports the output mode it selected.
func New(env Environment, opts Options) (*slog.Logger, Mode, error) {
	filter, err := env.ResolveFilter(opts.DefaultLevel)
	if err != nil {
		return nil, ModePlain, fmt.Errorf("resolve log filter: %w", err)
	}

	mode := SelectMode(env)

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(w, mode.Timestamps())
	case "console":
		handler = newConsoleHandler(w, consoleOptions{
			timestamps: mode.Timestamps(),
			color:      mode.Color(),
			priority:   opts.JournalPriority && mode == ModeJournal,
		})
	default:
		return nil, mode, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	handler = newFilterHandler(handler, filter)
	handler = newRunIDHandler(handler, opts.RunID)
	return slog.New(handler), mode, nil
}

// OptionsFromConfig maps the [logging] section onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	opts := Options{
		DefaultLevel:    cfg.Logging.Level,
		Format:          cfg.Logging.Format,
		JournalPriority: cfg.Logging.JournalPriority,
	}
	if cfg.Logging.TagRun {
		opts.RunID = uuid.NewString()
	}
	return opts
}
