package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var (
	halfDayWeight = decimal.NewFromFloat(0.5)
	hundred       = decimal.NewFromInt(100)
)

// statsRange resolves the filter to an inclusive day range, defaulting to the current calendar month.
func (s *AttendanceServiceImpl) statsRange(filter attendance.StatsFilter) (time.Time, time.Time, error) {
	today := attendance.NormalizeDate(s.now(), s.loc)
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 1, -1)

	if filter.StartDate != nil && *filter.StartDate != "" {
		parsed, err := time.ParseInLocation(attendance.DateLayout, *filter.StartDate, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		parsed, err := time.ParseInLocation(attendance.DateLayout, *filter.EndDate, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, validator.ValidationErrors{{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		}}
	}

	return start, end, nil
}

// GetStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStats(ctx context.Context, filter attendance.StatsFilter) (attendance.StatsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.StatsResponse{}, err
	}

	start, end, err := s.statsRange(filter)
	if err != nil {
		return attendance.StatsResponse{}, err
	}

	records, err := s.AttendanceRepository.ListByEmployeeInRange(ctx, filter.EmployeeID, start, end)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	counts := make(map[attendance.Status]int, len(attendance.Statuses))
	for _, status := range attendance.Statuses {
		counts[status] = 0
	}

	totalHours := decimal.Zero
	totalOvertime := decimal.Zero
	lateArrivals := 0
	earlyDepartures := 0

	for _, rec := range records {
		counts[rec.Status]++

		if rec.WorkHours != nil {
			totalHours = totalHours.Add(decimal.NewFromFloat(*rec.WorkHours))
		}
		if rec.OvertimeHours != nil {
			totalOvertime = totalOvertime.Add(decimal.NewFromFloat(*rec.OvertimeHours))
		}
		if rec.LateArrivalMinutes != nil && *rec.LateArrivalMinutes > 0 {
			lateArrivals++
		}
		if rec.EarlyDepartureMinutes != nil && *rec.EarlyDepartureMinutes > 0 {
			earlyDepartures++
		}
	}

	total := len(records)
	leaveDays := counts[attendance.StatusLeave]
	workingDays := total - leaveDays

	average := decimal.Zero
	rate := decimal.Zero
	if workingDays > 0 {
		days := decimal.NewFromInt(int64(workingDays))
		average = totalHours.Div(days)

		attended := decimal.NewFromInt(int64(counts[attendance.StatusPresent])).
			Add(decimal.NewFromInt(int64(counts[attendance.StatusHalfDay])).Mul(halfDayWeight))
		rate = attended.Div(days).Mul(hundred)
	}

	return attendance.StatsResponse{
		EmployeeID:         filter.EmployeeID,
		StartDate:          start.Format(attendance.DateLayout),
		EndDate:            end.Format(attendance.DateLayout),
		TotalDays:          total,
		StatusCounts:       counts,
		PresentDays:        counts[attendance.StatusPresent],
		AbsentDays:         counts[attendance.StatusAbsent],
		HalfDays:           counts[attendance.StatusHalfDay],
		LeaveDays:          leaveDays,
		WorkingDays:        workingDays,
		TotalWorkHours:     round2(totalHours),
		TotalOvertimeHours: round2(totalOvertime),
		AverageWorkHours:   round2(average),
		LateArrivals:       lateArrivals,
		EarlyDepartures:    earlyDepartures,
		AttendanceRate:     round2(rate),
	}, nil
}
