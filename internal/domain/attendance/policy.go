package attendance

import (
	"fmt"
	"time"
)

const (
	DefaultShiftStartTime    = "09:00"
	DefaultShiftEndTime      = "18:00"
	DefaultExpectedWorkHours = 9.0

	// HalfDayThresholdHours is the fixed policy line: fewer worked hours than this is a half day.
	HalfDayThresholdHours = 4.0

	shiftTimeLayout = "15:04"
	DateLayout      = "2006-01-02"
)

// ShiftPolicy is the live default shift. It is copied onto a record when the record is created.
type ShiftPolicy struct {
	StartTime         string
	EndTime           string
	ExpectedWorkHours float64
}

func DefaultShiftPolicy() ShiftPolicy {
	return ShiftPolicy{
		StartTime:         DefaultShiftStartTime,
		EndTime:           DefaultShiftEndTime,
		ExpectedWorkHours: DefaultExpectedWorkHours,
	}
}

func (p ShiftPolicy) Validate() error {
	if _, err := time.Parse(shiftTimeLayout, p.StartTime); err != nil {
		return fmt.Errorf("invalid shift start time %q: must be HH:mm", p.StartTime)
	}
	if _, err := time.Parse(shiftTimeLayout, p.EndTime); err != nil {
		return fmt.Errorf("invalid shift end time %q: must be HH:mm", p.EndTime)
	}
	if p.ExpectedWorkHours <= 0 {
		return fmt.Errorf("expected work hours must be positive, got %v", p.ExpectedWorkHours)
	}
	return nil
}

// NormalizeDate truncates t to midnight of its calendar day in loc.
func NormalizeDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// IsWeekend reports whether the normalized day falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ShiftInstant combines an "HH:mm" shift time with the calendar day of date.
// An unparsable value falls back to fallback.
func ShiftInstant(date time.Time, hhmm string, fallback string) time.Time {
	t, err := time.Parse(shiftTimeLayout, hhmm)
	if err != nil {
		t, _ = time.Parse(shiftTimeLayout, fallback)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}
