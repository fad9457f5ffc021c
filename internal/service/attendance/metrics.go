package attendance

import (
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

var (
	millisPerMinute = decimal.NewFromInt(int64(time.Minute / time.Millisecond))
	minutesPerHour  = decimal.NewFromInt(60)
)

// exactMinutes is the elapsed time from `from` to `to` in fractional minutes, at millisecond precision.
func exactMinutes(from, to time.Time) decimal.Decimal {
	return decimal.NewFromInt(to.Sub(from).Milliseconds()).Div(millisPerMinute)
}

// roundMinutes rounds elapsed minutes to the nearest whole minute, halves going up.
func roundMinutes(from, to time.Time) int {
	return int(exactMinutes(from, to).Round(0).IntPart())
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// dayMetrics holds everything derived from a completed check-in/check-out pair.
type dayMetrics struct {
	WorkHours             float64
	OvertimeHours         float64
	LateArrivalMinutes    int
	EarlyDepartureMinutes int
	Status                attendance.Status
}

// workHours is (checkOut - checkIn - closed breaks) / 60, rounded to 2 places.
// A check-out before check-in, or breaks longer than the span, is ErrInvalidTimeRange.
func workHours(checkIn, checkOut time.Time, breaks attendance.Breaks) (float64, error) {
	if checkOut.Before(checkIn) {
		return 0, attendance.ErrInvalidTimeRange
	}

	net := exactMinutes(checkIn, checkOut).Sub(decimal.NewFromInt(int64(breaks.ClosedMinutes())))
	if net.IsNegative() {
		return 0, attendance.ErrInvalidTimeRange
	}

	return round2(net.Div(minutesPerHour)), nil
}

// lateArrivalMinutes is how far checkIn is past the shift start on the record's day, else 0.
func lateArrivalMinutes(checkIn, date time.Time, shiftStart string) int {
	expected := attendance.ShiftInstant(date, shiftStart, attendance.DefaultShiftStartTime)
	if !checkIn.After(expected) {
		return 0
	}
	return roundMinutes(expected, checkIn)
}

// earlyDepartureMinutes is how far checkOut is before the shift end on the record's day, else 0.
func earlyDepartureMinutes(checkOut, date time.Time, shiftEnd string) int {
	expected := attendance.ShiftInstant(date, shiftEnd, attendance.DefaultShiftEndTime)
	if !checkOut.Before(expected) {
		return 0
	}
	return roundMinutes(checkOut, expected)
}

func overtimeHours(worked, expected float64) float64 {
	if worked <= expected {
		return 0
	}
	return round2(decimal.NewFromFloat(worked).Sub(decimal.NewFromFloat(expected)))
}

func statusForHours(worked float64) attendance.Status {
	if worked < attendance.HalfDayThresholdHours {
		return attendance.StatusHalfDay
	}
	return attendance.StatusPresent
}

// computeDay derives every metric for a record whose check-in and check-out are both known.
func computeDay(rec attendance.Attendance, checkIn, checkOut time.Time) (dayMetrics, error) {
	worked, err := workHours(checkIn, checkOut, rec.Breaks)
	if err != nil {
		return dayMetrics{}, err
	}

	expected := rec.ExpectedWorkHours
	if expected <= 0 {
		expected = attendance.DefaultExpectedWorkHours
	}

	return dayMetrics{
		WorkHours:             worked,
		OvertimeHours:         overtimeHours(worked, expected),
		LateArrivalMinutes:    lateArrivalMinutes(checkIn, rec.Date, rec.ShiftStartTime),
		EarlyDepartureMinutes: earlyDepartureMinutes(checkOut, rec.Date, rec.ShiftEndTime),
		Status:                statusForHours(worked),
	}, nil
}

func (m dayMetrics) apply(rec *attendance.Attendance) {
	rec.WorkHours = &m.WorkHours
	rec.OvertimeHours = &m.OvertimeHours
	rec.LateArrivalMinutes = &m.LateArrivalMinutes
	rec.EarlyDepartureMinutes = &m.EarlyDepartureMinutes
}
