package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// parseID parses a snowflake identifier from a path or body value.
func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, ErrInvalidRequest
	}
	return id, nil
}

// parseDate accepts ISO-8601 timestamps and plain dates; both normalize
// to UTC.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidRequest
	}
	if value, err := time.Parse(time.RFC3339, raw); err == nil {
		return value.UTC(), nil
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, ErrInvalidRequest
	}
	return value.UTC(), nil
}

// parseOptionalDate parses a date when present, nil otherwise.
func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
