package logging

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
)

const (
	// LevelTrace sits below slog.LevelDebug for very chatty diagnostics.
	LevelTrace = slog.Level(-8)
	// LevelOff disables every record it is applied to.
	LevelOff = slog.Level(math.MaxInt32)
)

// defaultFilterLevel applies when a filter names only targets.
const defaultFilterLevel = slog.LevelError

// Filter maps log targets to the minimum level they emit.
type Filter struct {
	level      slog.Level
	directives []directive
}

type directive struct {
	target string
	level  slog.Level
}

// ParseFilter parses a comma-separated list of directives. Each directive is
// either a bare level, which sets the default, or target=level.
func ParseFilter(raw string) (*Filter, error) {
	f := &Filter{level: defaultFilterLevel}
	byTarget := make(map[string]int)
	seen := 0

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		seen++

		target, levelText, hasTarget := strings.Cut(part, "=")
		if !hasTarget {
			level, err := parseLevel(part)
			if err != nil {
				return nil, err
			}
			f.level = level
			continue
		}

		target = strings.TrimSpace(target)
		if target == "" {
			return nil, fmt.Errorf("%w: directive %q has no target", ErrInvalidFilter, part)
		}
		level, err := parseLevel(levelText)
		if err != nil {
			return nil, err
		}
		if idx, ok := byTarget[target]; ok {
			f.directives[idx].level = level
			continue
		}
		byTarget[target] = len(f.directives)
		f.directives = append(f.directives, directive{target: target, level: level})
	}

	if seen == 0 {
		return nil, fmt.Errorf("%w: no directives in %q", ErrInvalidFilter, raw)
	}

	// Longest target first so the most specific directive wins.
	sort.SliceStable(f.directives, func(i, j int) bool {
		return len(f.directives[i].target) > len(f.directives[j].target)
	})
	return f, nil
}

func parseLevel(text string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off":
		return LevelOff, nil
	default:
		return 0, fmt.Errorf("%w: unknown level %q", ErrInvalidFilter, strings.TrimSpace(text))
	}
}

// Level returns the default level used for records without a matching target.
func (f *Filter) Level() slog.Level {
	return f.level
}

// LevelFor returns the minimum level enabled for target.
func (f *Filter) LevelFor(target string) slog.Level {
	if target != "" {
		for _, d := range f.directives {
			if targetMatches(d.target, target) {
				return d.level
			}
		}
	}
	return f.level
}

// MinLevel returns the most verbose level any directive enables.
func (f *Filter) MinLevel() slog.Level {
	lowest := f.level
	for _, d := range f.directives {
		if d.level < lowest {
			lowest = d.level
		}
	}
	return lowest
}

// Enabled reports whether a record at level from target passes the filter.
func (f *Filter) Enabled(target string, level slog.Level) bool {
	limit := f.LevelFor(target)
	return limit != LevelOff && level >= limit
}

// String renders the filter in canonical directive form.
func (f *Filter) String() string {
	parts := make([]string, 0, len(f.directives)+1)
	parts = append(parts, levelName(f.level))
	for _, d := range f.directives {
		parts = append(parts, d.target+"="+levelName(d.level))
	}
	return strings.Join(parts, ",")
}

// targetMatches reports whether pattern names target or one of its parents.
func targetMatches(pattern, target string) bool {
	if !strings.HasPrefix(target, pattern) {
		return false
	}
	rest := target[len(pattern):]
	return rest == "" ||
		strings.HasPrefix(rest, ".") ||
		strings.HasPrefix(rest, "/") ||
		strings.HasPrefix(rest, "::")
}

func levelName(level slog.Level) string {
	if level == LevelOff {
		return "off"
	}
	return strings.ToLower(strings.TrimSpace(levelLabel(level)))
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return " WARN"
	case level >= slog.LevelInfo:
		return " INFO"
	case level >= slog.LevelDebug:
		return "DEBUG"
	default:
		return "TRACE"
	}
}
