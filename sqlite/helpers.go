package sqlite

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// timeLayout is RFC3339 with fixed-width nanoseconds, so stored timestamps
// sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime formats t for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if values are > 0.
// SQLite requires a LIMIT before OFFSET, so an offset alone uses LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	} else if offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// hashParts computes the xxHash of the parts joined by unit separators and
// returns it as a hex string.
func hashParts(parts ...[]string) string {
	d := xxhash.New()
	for _, p := range parts {
		for _, s := range p {
			_, _ = d.WriteString(s)
			_, _ = d.WriteString("\x1f")
		}
		_, _ = d.WriteString("\x1e")
	}
	return hex.EncodeToString(d.Sum(nil))
}
