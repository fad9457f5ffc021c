package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
)

// MarkAbsentees implements attendance.AttendanceService.
//
// Every active employee without a record for the day gets one: LEAVE when an
// approved leave covers the day, ABSENT otherwise. Existing records are never
// touched. A failed insert is logged and skipped so one bad row does not stop
// the rest of the roster.
func (s *AttendanceServiceImpl) MarkAbsentees(ctx context.Context, req attendance.MarkAbsenteesRequest) (attendance.SweepResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.SweepResult{}, err
	}

	target := attendance.NormalizeDate(s.now(), s.loc)
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.ParseInLocation(attendance.DateLayout, *req.Date, s.loc)
		if err != nil {
			return attendance.SweepResult{}, err
		}
		target = parsed
	}

	result := attendance.SweepResult{Date: target.Format(attendance.DateLayout)}
	logger := s.logger.With(slog.String("date", result.Date))

	if attendance.IsWeekend(target) {
		result.Skipped = true
		result.Reason = "weekend"
		logger.Info("absentee sweep skipped", slog.String("reason", result.Reason))
		return result, nil
	}

	roster, err := s.EmployeeRepository.ListActiveIDs(ctx)
	if err != nil {
		return attendance.SweepResult{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, target)
	if err != nil {
		return attendance.SweepResult{}, fmt.Errorf("failed to list attendance for date: %w", err)
	}

	leaves, err := s.LeaveRequestRepository.FindApprovedCovering(ctx, target)
	if err != nil {
		return attendance.SweepResult{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	accounted := make(map[string]struct{}, len(records))
	for _, rec := range records {
		accounted[rec.EmployeeID] = struct{}{}
	}

	onLeave := make(map[string]struct{}, len(leaves))
	for _, l := range leaves {
		if l.Covers(target) {
			onLeave[l.EmployeeID] = struct{}{}
		}
	}

	for _, employeeID := range roster {
		if _, ok := accounted[employeeID]; ok {
			continue
		}
		if _, ok := onLeave[employeeID]; ok {
			continue
		}

		note := "Auto-marked absent"
		if s.insertSwept(ctx, logger, employeeID, target, attendance.StatusAbsent, note) {
			accounted[employeeID] = struct{}{}
			result.Absent++
		} else {
			result.Failed++
		}
	}

	// Leave is applied from the leave system itself, so it also covers
	// employees that are no longer on the active roster.
	for _, l := range leaves {
		if !l.Covers(target) {
			continue
		}
		if _, ok := accounted[l.EmployeeID]; ok {
			continue
		}

		note := leaveNote(l.LeaveType)
		if s.insertSwept(ctx, logger, l.EmployeeID, target, attendance.StatusLeave, note) {
			result.OnLeave++
		} else {
			result.Failed++
		}
		accounted[l.EmployeeID] = struct{}{}
	}

	result.Marked = result.Absent + result.OnLeave

	logger.Info("absentee sweep completed",
		slog.Int("absent", result.Absent),
		slog.Int("on_leave", result.OnLeave),
		slog.Int("failed", result.Failed),
	)

	return result, nil
}

func leaveNote(t leave.LeaveType) string {
	return fmt.Sprintf("On %s leave", t)
}

func (s *AttendanceServiceImpl) insertSwept(ctx context.Context, logger *slog.Logger, employeeID string, date time.Time, status attendance.Status, note string) bool {
	record := s.newRecord(employeeID, date, status)
	record.Notes = &note

	if _, err := s.AttendanceRepository.Create(ctx, record); err != nil {
		level := slog.LevelError
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			// Employee checked in between the listing and the insert
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "absentee sweep insert failed",
			slog.String("employee_id", employeeID),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
		return false
	}

	return true
}
