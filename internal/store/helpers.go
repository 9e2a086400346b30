package store

import "time"

type scanner interface{ Scan(dest ...any) error }

// Fixed-width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteLayout is what CURRENT_TIMESTAMP defaults produce.
const sqliteLayout = "2006-01-02 15:04:05"

// nullIfEmpty maps "" to NULL so optional columns stay unset.
func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timestampLayout)
}

func sqliteBool(value bool) int {
	if value {
		return 1
	}
	return 0
}

// parseTimestamp accepts both our fixed-width layout and SQLite's default.
func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, sqliteLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
