package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateOnly wraps time.Time for the calendar-date columns (visit dates) so we
// control both JSON un/marshaling and SQL driver encoding. Clients send either
// a bare date ("2026-02-14") or a full RFC3339 timestamp; we always emit the
// bare date.
type DateOnly time.Time

const dateLayout = "2006-01-02"

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*d = DateOnly(time.Time{})
		return nil
	}

	if t, err := time.Parse(dateLayout, s); err == nil {
		*d = DateOnly(t)
		return nil
	}

	// intake forms coming through the mobile app send full timestamps; the
	// calendar date must be taken in the sender's own offset, not UTC, or a
	// WIB (UTC+7) booking made before 07:00 lands on the previous day
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("DateOnly.UnmarshalJSON: cannot parse %q: %w", s, err)
	}
	*d = DateOnly(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(dateLayout))
}

// Value implements driver.Valuer so GORM/pgx can bind DateOnly to a DATE
// column parameter.
func (d DateOnly) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Scan implements sql.Scanner so GORM can read DATE columns back.
func (d *DateOnly) Scan(src interface{}) error {
	if src == nil {
		*d = DateOnly(time.Time{})
		return nil
	}

	switch v := src.(type) {
	case time.Time:
		*d = DateOnly(v)
		return nil
	case []byte:
		t, err := time.Parse(dateLayout, string(v))
		if err != nil {
			return fmt.Errorf("DateOnly.Scan: parse %q: %w", string(v), err)
		}
		*d = DateOnly(t)
		return nil
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return fmt.Errorf("DateOnly.Scan: parse %q: %w", v, err)
		}
		*d = DateOnly(t)
		return nil
	default:
		return fmt.Errorf("DateOnly.Scan: unsupported type %T", src)
	}
}

// SameDay reports whether both dates fall on the same calendar day.
func (d DateOnly) SameDay(other time.Time) bool {
	t := time.Time(d)
	return t.Year() == other.Year() && t.YearDay() == other.YearDay()
}
