package logging

import (
	"io"
	"log/slog"
	"strings"
)

// newJSONHandler emits one JSON object per record. Level filtering is left
// to the wrapping filterHandler, so every level reaches it.
func newJSONHandler(w io.Writer, timestamps bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level: LevelTrace,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				if !timestamps {
					return slog.Attr{}
				}
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(formatTimestamp(attr.Value.Time()))
				}
			case slog.LevelKey:
				if level, ok := attr.Value.Any().(slog.Level); ok {
					attr.Value = slog.StringValue(levelName(level))
				} else {
					attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
