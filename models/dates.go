// ABOUTME: Date parsing shared by the CLI, MCP, and HTTP inputs
// ABOUTME: Accepts RFC 3339 timestamps, zone-less ISO datetimes, or plain YYYY-MM-DD dates
package models

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate returns nil for an empty string. Datetimes without a zone are read as UTC.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS, or RFC 3339)", raw)
}
