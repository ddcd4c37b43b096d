package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/alexanderramin/obra/internal/domain"
)

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// parseNullableDate is parseNullableTime for civil dates.
func parseNullableDate(s sql.NullString) *domain.Date {
	if !s.Valid || s.String == "" {
		return nil
	}
	d, err := domain.ParseDate(s.String)
	if err != nil {
		return nil
	}
	return &d
}

func nullableDateToString(d *domain.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}

// nullableDateToTime converts a date for a Postgres DATE column.
func nullableDateToTime(d *domain.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time()
}

func dateFromNullableTime(t *time.Time) *domain.Date {
	if t == nil {
		return nil
	}
	d := domain.DateOf(*t)
	return &d
}

func statusStrings(statuses []domain.ActivityStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
