package sqlite

import (
	"strings"
)

// maxSQLVars bounds bind variables per IN clause to stay within SQLite's
// default SQLITE_MAX_VARIABLE_NUMBER (999).
const maxSQLVars = 500

// placeholder returns a placeholder for SQLite (uses ?)
func placeholder(n int) string {
	return "?"
}

// placeholders returns n placeholders for SQLite
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// inPlaceholders returns a "?, ?, ..." string and []any args for a slice of IDs.
func inPlaceholders(ids []string) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return placeholders(len(ids)), args
}

// queryChunked executes a callback for each chunk of IDs, splitting at
// maxSQLVars to avoid bind-variable limits.
func queryChunked(ids []string, fn func(chunk []string) error) error {
	for i := 0; i < len(ids); i += maxSQLVars {
		end := i + maxSQLVars
		if end > len(ids) {
			end = len(ids)
		}
		if err := fn(ids[i:end]); err != nil {
			return err
		}
	}
	return nil
}
