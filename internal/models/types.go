package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day stored as YYYY-MM-DD text.
type Date string

func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// Scan validates dates read back from the store, so a Date obtained from a
// row is always well formed.
func (d *Date) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*d = DateOf(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Time assumes d is well formed, as every Date from DateOf, ParseDate or
// Scan is. It returns the zero time otherwise.
func (d Date) Time() time.Time {
	t, _ := time.Parse(dateLayout, string(d))
	return t
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// DaysSince returns the number of calendar days from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.Time().Sub(other.Time()).Hours() / 24)
}

func (d Date) String() string { return string(d) }

// JSONMap is a free-form JSON object column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(src interface{}) error {
	b, ok := asBytes(src)
	if !ok {
		*m = nil
		return nil
	}
	return json.Unmarshal(b, m)
}

// Int reads a numeric field, tolerating the float64 json.Unmarshal produces.
func (m JSONMap) Int(key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (m JSONMap) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// StringList is a JSON array of strings column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	b, ok := asBytes(src)
	if !ok {
		*l = nil
		return nil
	}
	return json.Unmarshal(b, (*[]string)(l))
}

func asBytes(src interface{}) ([]byte, bool) {
	switch v := src.(type) {
	case []byte:
		return v, len(v) > 0
	case string:
		return []byte(v), v != ""
	}
	return nil, false
}
