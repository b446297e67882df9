package property

import (
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ParseDateTime parses a strict ISO-8601 date or date-time string. A value
// of exactly ten characters is a date; anything longer must be a full
// RFC 3339 timestamp. No other layout is coerced.
func ParseDateTime(s string) (DateTime, error) {
	if len(s) == len(dateLayout) {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return DateTime{}, err
		}
		return DateTime{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return DateTime{}, err
	}
	return DateTime{Time: t, HasTime: true}, nil
}

// String formats the instant in its original precision: a bare date, or a
// millisecond timestamp with offset.
func (d DateTime) String() string {
	if d.HasTime {
		return d.Time.Format(dateTimeLayout)
	}
	return d.Time.Format(dateLayout)
}

// NewDate builds a date-only instant.
func NewDate(year int, month time.Month, day int) DateTime {
	return DateTime{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// NewDateTime builds an instant with a time component.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t, HasTime: true}
}

func parseDateRange(start string, end, timeZone *string, property string) (*DateRange, error) {
	s, err := ParseDateTime(start)
	if err != nil {
		return nil, &MalformedValueError{Property: property, Type: "date", Reason: "start is not ISO-8601: " + start}
	}
	r := &DateRange{Start: s, TimeZone: timeZone}
	if end != nil {
		e, err := ParseDateTime(*end)
		if err != nil {
			return nil, &MalformedValueError{Property: property, Type: "date", Reason: "end is not ISO-8601: " + *end}
		}
		r.End = &e
	}
	return r, nil
}
