package logs

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"nyamedia/internal/logging"
)

// Record is one parsed line of the JSON log file.
type Record struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   map[string]any
}

// ParseRecord decodes a JSON log line. Lines that are not JSON objects are
// returned as an error so callers can pass them through unchanged.
func ParseRecord(line string) (Record, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Record{}, fmt.Errorf("parse log line: %w", err)
	}
	rec := Record{Attrs: raw}
	if ts, ok := raw["ts"].(string); ok {
		rec.Time, _ = time.Parse(time.RFC3339, ts)
	}
	rec.Level, _ = raw["level"].(string)
	rec.Message, _ = raw["msg"].(string)
	delete(raw, "ts")
	delete(raw, "level")
	delete(raw, "msg")
	return rec, nil
}

// Attr returns the attribute value rendered as a string, or "".
func (r Record) Attr(key string) string {
	value, ok := r.Attrs[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Filter selects records. Zero fields match everything.
type Filter struct {
	MinLevel string
	SeriesID string
	RunID    string
}

// Match reports whether rec passes the filter.
func (f Filter) Match(rec Record) bool {
	if f.MinLevel != "" && levelRank(rec.Level) < levelRank(f.MinLevel) {
		return false
	}
	if f.SeriesID != "" && rec.Attr(logging.FieldSeriesID) != f.SeriesID {
		return false
	}
	if f.RunID != "" && !strings.HasPrefix(rec.Attr(logging.FieldRunID), f.RunID) {
		return false
	}
	return true
}

func levelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return 0
	case "warn", "warning":
		return 2
	case "error":
		return 3
	default:
		return 1
	}
}

// Format renders rec on one line in the console layout:
// TS LEVEL component [series N]: message key=value ...
func (r Record) Format() string {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(r.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", strings.ToUpper(r.Level))
	if component := r.Attr(logging.FieldComponent); component != "" {
		b.WriteByte(' ')
		b.WriteString(component)
	}
	if series := r.Attr(logging.FieldSeriesID); series != "" {
		fmt.Fprintf(&b, " [series %s]", series)
	}
	b.WriteString(": ")
	b.WriteString(r.Message)

	keys := make([]string, 0, len(r.Attrs))
	for key := range r.Attrs {
		switch key {
		case logging.FieldComponent, logging.FieldSeriesID, "source":
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%s", key, r.Attr(key))
	}
	return b.String()
}
