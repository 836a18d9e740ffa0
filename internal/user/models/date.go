package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the wire format for birth dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. It round-trips through
// JSON as "YYYY-MM-DD" and through SQL as a DATE column. The zero value is
// the zero time and reports IsZero.
type Date time.Time

// ParseDate parses a "YYYY-MM-DD" string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date(t), nil
}

// NewDate builds a Date from its calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	return time.Time(d).Format(DateLayout)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return time.Time(d).Before(time.Time(other))
}

// Equal reports calendar-date equality.
func (d Date) Equal(other Date) bool {
	return d.String() == other.String()
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

// AgeAt returns the number of completed years between d and the given
// instant. Someone whose birthday is tomorrow has not completed the year.
func (d Date) AgeAt(now time.Time) int {
	birth := time.Time(d)
	years := now.Year() - birth.Year()
	anniversary := NewDate(birth.Year()+years, birth.Month(), birth.Day())
	if DateOf(now).Before(anniversary) {
		years--
	}
	return years
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date must be a %q string", DateLayout)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for DATE columns.
func (d Date) Value() (driver.Value, error) {
	return time.Time(d), nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}
