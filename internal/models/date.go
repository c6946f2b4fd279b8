package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

var scanLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// Date is a calendar date column that reads and writes "YYYY-MM-DD" JSON.
// The zero Date is stored as NULL.
type Date struct {
	datatypes.Date
}

// NewDate truncates t to its calendar day
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Date: datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))}
}

// ParseDate parses "YYYY-MM-DD" or an RFC3339 timestamp
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

// Time returns the date as midnight UTC
func (d Date) Time() time.Time {
	return time.Time(d.Date)
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d.Time().IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// Value stores the zero date as NULL
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Date.Value()
}

// Scan accepts driver time values and the text forms sqlite returns
func (d *Date) Scan(value interface{}) error {
	var text string
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return d.Date.Scan(value)
	}
	for _, layout := range scanLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	return fmt.Errorf("unable to scan date %q", text)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", RFC3339, "" and null
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
