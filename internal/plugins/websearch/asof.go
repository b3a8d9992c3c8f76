package websearch

import (
	"strings"
	"time"
)

// Layouts accepted for as_of, tried in order. Those without a zone are
// read as UTC.
var asOfLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseAsOf reads an ISO 8601 cutoff and returns it in UTC. Empty or
// unparseable input yields ok=false and is ignored by the caller.
func ParseAsOf(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range asOfLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// formatISO renders t with a numeric UTC offset, e.g.
// 2024-01-15T00:00:00+00:00.
func formatISO(t time.Time) string {
	layout := "2006-01-02T15:04:05"
	if t.Nanosecond() != 0 {
		layout += ".000000"
	}
	return t.UTC().Format(layout) + "+00:00"
}
