package logging

import "time"

// ISO-8601 with offset, microsecond precision.
const logTimestampLayout = "2006-01-02T15:04:05.000000-07:00"

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(logTimestampLayout)
}
