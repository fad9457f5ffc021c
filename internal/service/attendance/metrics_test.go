package attendance

import (
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedBreak(start, end time.Time) attendance.Break {
	d := roundMinutes(start, end)
	return attendance.Break{StartTime: start, EndTime: &end, DurationMinutes: &d}
}

func TestRoundMinutes(t *testing.T) {
	base := monday(9, 0)

	tests := []struct {
		name  string
		delta time.Duration
		want  int
	}{
		{name: "exact", delta: 15 * time.Minute, want: 15},
		{name: "just under half", delta: 15*time.Minute + 29*time.Second, want: 15},
		{name: "half rounds up", delta: 15*time.Minute + 30*time.Second, want: 16},
		{name: "sub-second", delta: 999 * time.Millisecond, want: 0},
		{name: "zero", delta: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundMinutes(base, base.Add(tt.delta)))
		})
	}
}

func TestWorkHours(t *testing.T) {
	in := monday(9, 0)

	hours, err := workHours(in, monday(17, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, 8.0, hours)

	breaks := attendance.Breaks{closedBreak(monday(12, 0), monday(12, 30))}
	hours, err = workHours(in, monday(18, 0), breaks)
	require.NoError(t, err)
	assert.Equal(t, 8.5, hours)

	hours, err = workHours(in, monday(12, 59), nil)
	require.NoError(t, err)
	assert.Equal(t, 3.98, hours)

	hours, err = workHours(in, in, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, hours)
}

func TestWorkHours_InvalidTimeRange(t *testing.T) {
	_, err := workHours(monday(17, 0), monday(9, 0), nil)
	assert.ErrorIs(t, err, attendance.ErrInvalidTimeRange)

	// Breaks recorded for longer than the span
	breaks := attendance.Breaks{closedBreak(monday(8, 0), monday(11, 0))}
	_, err = workHours(monday(9, 0), monday(10, 0), breaks)
	assert.ErrorIs(t, err, attendance.ErrInvalidTimeRange)
}

func TestLateAndEarlyMinutes(t *testing.T) {
	day := monday(0, 0)

	assert.Equal(t, 0, lateArrivalMinutes(monday(9, 0), day, "09:00"))
	assert.Equal(t, 15, lateArrivalMinutes(monday(9, 15), day, "09:00"))
	assert.Equal(t, 0, lateArrivalMinutes(monday(8, 15), day, "09:00"))
	assert.Equal(t, 45, lateArrivalMinutes(monday(9, 15), day, "08:30"))
	// Unparsable snapshot falls back to the default start
	assert.Equal(t, 15, lateArrivalMinutes(monday(9, 15), day, "nine"))

	assert.Equal(t, 60, earlyDepartureMinutes(monday(17, 0), day, "18:00"))
	assert.Equal(t, 0, earlyDepartureMinutes(monday(18, 0), day, "18:00"))
	assert.Equal(t, 0, earlyDepartureMinutes(monday(19, 0), day, "18:00"))
}

func TestOvertimeAndStatus(t *testing.T) {
	assert.Equal(t, 0.0, overtimeHours(8, 9))
	assert.Equal(t, 0.0, overtimeHours(9, 9))
	assert.Equal(t, 1.5, overtimeHours(10.5, 9))
	assert.Equal(t, 0.33, overtimeHours(9.33, 9))

	assert.Equal(t, attendance.StatusHalfDay, statusForHours(3.98))
	assert.Equal(t, attendance.StatusPresent, statusForHours(4))
}

func TestComputeDay_DefaultsExpectedHours(t *testing.T) {
	rec := attendance.Attendance{
		Date:           monday(0, 0),
		ShiftStartTime: "09:00",
		ShiftEndTime:   "18:00",
	}

	m, err := computeDay(rec, monday(8, 0), monday(19, 0))

	require.NoError(t, err)
	assert.Equal(t, 11.0, m.WorkHours)
	assert.Equal(t, 2.0, m.OvertimeHours)
	assert.Equal(t, attendance.StatusPresent, m.Status)
}
