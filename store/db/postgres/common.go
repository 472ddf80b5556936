package postgres

import (
	"fmt"
	"strings"
)

// placeholder returns a placeholder for PostgreSQL (uses $1, $2, ...)
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// inPlaceholders returns a "$k, $k+1, ..." string starting at offset+1 and
// the matching []any args for a slice of IDs.
func inPlaceholders(ids []string, offset int) (string, []any) {
	list := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		list[i] = placeholder(offset + i + 1)
		args[i] = id
	}
	return strings.Join(list, ", "), args
}
