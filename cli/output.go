// ABOUTME: Shared output helpers for CLI commands
// ABOUTME: Commands print to stdout, swapped out in tests
package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
)

var stdout io.Writer = os.Stdout

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// parseID reads the first positional argument as a record ID.
func parseID(args []string, entity string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s ID is required", entity)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", entity, args[0])
	}
	return id, nil
}
