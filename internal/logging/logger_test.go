package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"logsetup/internal/config"
)

var timestampPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{6}[+-]\d{2}:\d{2} `)

// resetInstalled lets a test install the process logger again.
func resetInstalled(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	installed.Store(false)
	t.Cleanup(func() {
		installed.Store(false)
		slog.SetDefault(prev)
	})
}

func journalEnv(terminal bool) Environment {
	return Environment{JournalStream: "8:1234", Terminal: terminal, Prober: fixedProber(Identity{Device: 8, Inode: 1234})}
}

func mismatchEnv(terminal bool) Environment {
	return Environment{JournalStream: "8:1234", Terminal: terminal, Prober: fixedProber(Identity{Device: 9, Inode: 1234})}
}

func newTestLogger(t *testing.T, env Environment, opts Options) (*slog.Logger, *bytes.Buffer, Mode) {
	t.Helper()
	var buf bytes.Buffer
	opts.Writer = &buf
	if opts.DefaultLevel == "" {
		opts.DefaultLevel = "info"
	}
	logger, mode, err := New(env, opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return logger, &buf, mode
}

func firstLine(buf *bytes.Buffer) string {
	return strings.SplitN(buf.String(), "\n", 2)[0]
}

func TestSetupWithSucceedsOnce(t *testing.T) {
	resetInstalled(t)
	var buf bytes.Buffer

	logger, err := SetupWith(Environment{}, Options{DefaultLevel: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("first SetupWith returned error: %v", err)
	}
	if slog.Default() != logger {
		t.Fatal("expected installed logger to become the slog default")
	}

	_, err = SetupWith(Environment{}, Options{DefaultLevel: "debug", Writer: &buf})
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second SetupWith error = %v, want ErrAlreadyInitialized", err)
	}
	if slog.Default() != logger {
		t.Fatal("second SetupWith must not replace the installed logger")
	}

	slog.Info("through default")
	if !strings.Contains(buf.String(), "through default") {
		t.Fatalf("expected default logger to write to the first writer, got %q", buf.String())
	}
}

func TestSetupWithInvalidDefaultLeavesNothingInstalled(t *testing.T) {
	resetInstalled(t)
	before := slog.Default()

	_, err := SetupWith(Environment{}, Options{DefaultLevel: "loud"})
	if !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("SetupWith error = %v, want ErrInvalidFilter", err)
	}
	if slog.Default() != before {
		t.Fatal("failed SetupWith must not change the default logger")
	}

	if _, err := SetupWith(Environment{}, Options{DefaultLevel: "info", Writer: &bytes.Buffer{}}); err != nil {
		t.Fatalf("SetupWith after a failed attempt returned error: %v", err)
	}
}

func TestSetupWithUnsupportedFormat(t *testing.T) {
	resetInstalled(t)
	if _, err := SetupWith(Environment{}, Options{DefaultLevel: "info", Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format to fail")
	}
	if installed.Load() {
		t.Fatal("failed SetupWith must not consume the one-shot guard")
	}
}

func TestSetupReadsProcessEnvironment(t *testing.T) {
	resetInstalled(t)
	t.Setenv(FilterEnv, "")
	t.Setenv(JournalStreamEnv, "")

	if _, err := Setup("nonsense"); !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("Setup error = %v, want ErrInvalidFilter", err)
	}

	t.Setenv(FilterEnv, "warn")
	if _, err := Setup("nonsense"); err != nil {
		t.Fatalf("Setup with a valid LOG_FILTER returned error: %v", err)
	}
	if _, err := Setup("info"); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Setup error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestFilterOverrideTakesPrecedence(t *testing.T) {
	logger, buf, _ := newTestLogger(t, Environment{Filter: "debug"}, Options{DefaultLevel: "error"})
	logger.Debug("debug visible")
	if !strings.Contains(buf.String(), "debug visible") {
		t.Fatalf("expected override to enable debug, got %q", buf.String())
	}
}

func TestInvalidFilterOverrideFallsBackToDefault(t *testing.T) {
	logger, buf, _ := newTestLogger(t, Environment{Filter: "app=shout"}, Options{DefaultLevel: "warn"})
	logger.Info("info hidden")
	logger.Warn("warn visible")
	if strings.Contains(buf.String(), "info hidden") {
		t.Fatalf("expected default warn filter to drop info, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "warn visible") {
		t.Fatalf("expected warn record, got %q", buf.String())
	}
}

func TestJournalModeOmitsTimestampAndColor(t *testing.T) {
	for _, terminal := range []bool{true, false} {
		logger, buf, mode := newTestLogger(t, journalEnv(terminal), Options{})
		if mode != ModeJournal {
			t.Fatalf("terminal=%v: mode = %v, want journal", terminal, mode)
		}
		NewTargetLogger(logger, "app").Info("hello", "key", "value")

		if got, want := firstLine(buf), " INFO app: hello key=value"; got != want {
			t.Fatalf("terminal=%v: line = %q, want %q", terminal, got, want)
		}
	}
}

func TestJournalMismatchKeepsTimestamps(t *testing.T) {
	logger, buf, mode := newTestLogger(t, mismatchEnv(false), Options{})
	if mode != ModePlain {
		t.Fatalf("mode = %v, want plain", mode)
	}
	logger.Info("hello")
	if line := firstLine(buf); !timestampPrefix.MatchString(line) {
		t.Fatalf("expected timestamp prefix, got %q", line)
	}

	logger, buf, mode = newTestLogger(t, mismatchEnv(true), Options{})
	if mode != ModeTerminal {
		t.Fatalf("mode = %v, want terminal", mode)
	}
	logger.Info("hello")
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI color on terminal, got %q", buf.String())
	}
}

func TestPlainModeHasTimestampWithoutAnsi(t *testing.T) {
	logger, buf, _ := newTestLogger(t, Environment{}, Options{})
	NewTargetLogger(logger, "app").Warn("careful", "attempt", 2)

	line := firstLine(buf)
	if !timestampPrefix.MatchString(line) {
		t.Fatalf("expected timestamp prefix, got %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("expected no ANSI codes, got %q", line)
	}
	if rest := timestampPrefix.ReplaceAllString(line, ""); rest != " WARN app: careful attempt=2" {
		t.Fatalf("unexpected line body %q", rest)
	}
}

func TestTerminalModeHasTimestampAndAnsi(t *testing.T) {
	logger, buf, _ := newTestLogger(t, Environment{Terminal: true}, Options{})
	NewTargetLogger(logger, "app").Error("boom")

	out := buf.String()
	if !strings.Contains(out, ansiRed+"ERROR"+ansiReset) {
		t.Fatalf("expected colored level, got %q", out)
	}
	if !strings.Contains(out, ansiDim+"app:"+ansiReset) {
		t.Fatalf("expected dimmed target, got %q", out)
	}
	plain := regexp.MustCompile("\x1b\\[[0-9;]*m").ReplaceAllString(out, "")
	if !timestampPrefix.MatchString(plain) {
		t.Fatalf("expected timestamp once colors are stripped, got %q", plain)
	}
}

func TestMalformedHintsBehaveLikeAbsent(t *testing.T) {
	prober := fixedProber(Identity{Device: 8, Inode: 1234})
	for _, hint := range []string{"abc:1", "81234", "8:1:2", "8:1234:0", ":", "-1:2", "8:-1", " 8:1234"} {
		for _, terminal := range []bool{true, false} {
			withHint := SelectMode(Environment{JournalStream: hint, Terminal: terminal, Prober: prober})
			without := SelectMode(Environment{Terminal: terminal, Prober: prober})
			if withHint != without {
				t.Errorf("hint %q terminal=%v: mode %v, want %v", hint, terminal, withHint, without)
			}
		}
	}
}

func TestJournalPriorityPrefix(t *testing.T) {
	logger, buf, _ := newTestLogger(t, journalEnv(false), Options{JournalPriority: true, DefaultLevel: "debug"})
	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	want := []string{"<7>DEBUG d", "<6> INFO i", "<4> WARN w", "<3>ERROR e"}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestJournalPriorityIgnoredOutsideJournal(t *testing.T) {
	logger, buf, _ := newTestLogger(t, Environment{}, Options{JournalPriority: true})
	logger.Info("i")
	if strings.HasPrefix(buf.String(), "<") {
		t.Fatalf("expected no priority prefix outside the journal, got %q", buf.String())
	}
}

func TestTargetDirectives(t *testing.T) {
	logger, buf, _ := newTestLogger(t, journalEnv(false), Options{DefaultLevel: "warn,db=debug,db.pool=trace"})

	NewTargetLogger(logger, "db").Debug("db debug")
	NewTargetLogger(logger, "db").Log(context.Background(), LevelTrace, "db trace")
	NewTargetLogger(logger, "db.pool").Log(context.Background(), LevelTrace, "pool trace")
	NewTargetLogger(logger, "http").Info("http info")
	logger.Info("untargeted info")
	logger.Debug("record target", FieldTarget, "db")

	out := buf.String()
	for _, want := range []string{"DEBUG db: db debug", "TRACE db.pool: pool trace", "DEBUG db: record target"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
	for _, unwanted := range []string{"db trace", "http info", "untargeted info"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("expected %q to be filtered, got %q", unwanted, out)
		}
	}
}

func TestGroupedAttributes(t *testing.T) {
	logger, buf, _ := newTestLogger(t, journalEnv(false), Options{})
	logger.WithGroup("req").Info("served", "path", "/x", slog.Group("user", "id", 7))
	if got, want := firstLine(buf), " INFO served req.path=/x req.user.id=7"; got != want {
		t.Fatalf("line = %q, want %q", got, want)
	}
}

func TestGroupKeepsAttachedTargetAndPrefixes(t *testing.T) {
	logger, buf, _ := newTestLogger(t, journalEnv(false), Options{})
	NewTargetLogger(logger, "app").With("conn", 1).WithGroup("req").Info("served", "path", "/x")
	if got, want := firstLine(buf), " INFO app: served conn=1 req.path=/x"; got != want {
		t.Fatalf("line = %q, want %q", got, want)
	}
}

func TestGroupedTargetFollowsAttachedFilter(t *testing.T) {
	logger, buf, _ := newTestLogger(t, journalEnv(false), Options{DefaultLevel: "warn,db=debug"})
	grouped := NewTargetLogger(logger, "db").WithGroup("q")
	grouped.Debug("kept", "sql", "select")
	grouped.Debug("still db", FieldTarget, "http")

	want := []string{"DEBUG db: kept q.sql=select", "DEBUG db: still db q.target=http"}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecordTargetOverridesAttachedTarget(t *testing.T) {
	logger, buf, _ := newTestLogger(t, journalEnv(false), Options{DefaultLevel: "warn,db=debug"})
	http := NewTargetLogger(logger, "http")

	http.Debug("query", FieldTarget, "db")
	http.Debug("dropped")
	http.Warn("slow", FieldTarget, "db")

	want := []string{"DEBUG db: query", " WARN db: slow"}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestJSONFormat(t *testing.T) {
	logger, buf, _ := newTestLogger(t, journalEnv(false), Options{Format: "json", DefaultLevel: "trace"})
	NewTargetLogger(logger, "app").Log(context.Background(), LevelTrace, "hello", "n", 1)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json line %q: %v", buf.String(), err)
	}
	if _, ok := record["ts"]; ok {
		t.Fatalf("expected no timestamp in journal mode, got %v", record)
	}
	if record["level"] != "trace" || record["msg"] != "hello" || record[FieldTarget] != "app" {
		t.Fatalf("unexpected record %v", record)
	}

	logger, buf, _ = newTestLogger(t, Environment{}, Options{Format: "json"})
	logger.Info("stamped")
	record = nil
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json line %q: %v", buf.String(), err)
	}
	ts, _ := record["ts"].(string)
	if !timestampPrefix.MatchString(ts + " ") {
		t.Fatalf("expected local timestamp, got %q", ts)
	}
}

func TestRunIDTagging(t *testing.T) {
	logger, buf, _ := newTestLogger(t, journalEnv(false), Options{RunID: "abc"})
	logger.Info("tagged")
	if got, want := firstLine(buf), " INFO tagged run_id=abc"; got != want {
		t.Fatalf("line = %q, want %q", got, want)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"
	cfg.Logging.TagRun = true
	cfg.Logging.JournalPriority = true

	opts := OptionsFromConfig(&cfg)
	if opts.DefaultLevel != "debug" || opts.Format != "json" || !opts.JournalPriority {
		t.Fatalf("unexpected options %+v", opts)
	}
	if _, err := uuid.Parse(opts.RunID); err != nil {
		t.Fatalf("expected a UUID run id, got %q: %v", opts.RunID, err)
	}

	defaults := OptionsFromConfig(nil)
	if defaults.DefaultLevel != "info" || defaults.RunID != "" {
		t.Fatalf("unexpected default options %+v", defaults)
	}
}

func TestConcurrentLoggingWritesWholeLines(t *testing.T) {
	logger, buf, _ := newTestLogger(t, journalEnv(false), Options{})

	const goroutines = 50
	const perGoroutine = 20
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			target := NewTargetLogger(logger, fmt.Sprintf("worker%d", id))
			for j := 0; j < perGoroutine; j++ {
				target.Info("tick", "n", j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != goroutines*perGoroutine {
		t.Fatalf("expected %d lines, got %d", goroutines*perGoroutine, len(lines))
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, " INFO worker") || !strings.Contains(line, ": tick n=") {
			t.Fatalf("line %d appears garbled: %q", i, line)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("expected no-op logger to be disabled")
	}
	NewTargetLogger(nil, "x").Error("dropped")
}
