package logging

import (
	"context"
	"log/slog"
)

// filterHandler applies a Filter in front of an output handler. A target key
// on the record replaces the one attached through WithAttrs, unless the record
// is logged inside a group, where the attached target always applies.
type filterHandler struct {
	next    slog.Handler
	filter  *Filter
	target  string
	grouped bool
}

func newFilterHandler(next slog.Handler, filter *Filter) slog.Handler {
	if next == nil || filter == nil {
		return NoopHandler{}
	}
	return &filterHandler{next: next, filter: filter}
}

func (h *filterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	limit := h.filter.LevelFor(h.target)
	if !h.grouped {
		// The record may still name a more verbose target; Handle decides.
		limit = h.filter.MinLevel()
	}
	if limit == LevelOff || level < limit {
		return false
	}
	return h.next.Enabled(ctx, level)
}

func (h *filterHandler) Handle(ctx context.Context, record slog.Record) error {
	target := h.target
	if !h.grouped {
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == FieldTarget {
				target = attrString(attr.Value)
			}
			return true
		})
	}
	if !h.filter.Enabled(target, record.Level) {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h *filterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.next = h.next.WithAttrs(attrs)
	if !h.grouped {
		for _, attr := range attrs {
			if attr.Key == FieldTarget {
				clone.target = attrString(attr.Value)
			}
		}
	}
	return &clone
}

func (h *filterHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.next = h.next.WithGroup(name)
	clone.grouped = true
	return &clone
}
