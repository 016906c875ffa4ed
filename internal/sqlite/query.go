package sqlite

import (
	"strings"
	"time"
)

// rangeClause builds the WHERE/ORDER/LIMIT tail shared by meal and workout
// listings over a millisecond timestamp column.
func rangeClause(column string, from, to time.Time, ascending bool, limit int) (string, []interface{}) {
	var b strings.Builder
	var args []interface{}
	if !from.IsZero() {
		b.WriteString(" AND " + column + " >= ?")
		args = append(args, millis(from))
	}
	if !to.IsZero() {
		b.WriteString(" AND " + column + " <= ?")
		args = append(args, millis(to))
	}
	if ascending {
		b.WriteString(" ORDER BY " + column + " ASC")
	} else {
		b.WriteString(" ORDER BY " + column + " DESC")
	}
	if limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	return b.String(), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
