package cron

import (
	"context"
	"log/slog"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
)

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	sweepSpec         string
}

// NewAttendanceJobs wires the absentee sweep to sweepSpec. An empty spec disables it.
func NewAttendanceJobs(attendanceService attendance.AttendanceService, sweepSpec string) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		sweepSpec:         sweepSpec,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	if j.sweepSpec == "" {
		slog.Info("Cron: absentee sweep disabled")
		return nil
	}
	return scheduler.AddJob("mark_absentees", j.sweepSpec, j.MarkAbsentees)
}

// MarkAbsentees sweeps the current day in the service's reference time zone
func (j *AttendanceJobs) MarkAbsentees(ctx context.Context) error {
	slog.Info("Cron: Starting mark absentees job")

	result, err := j.attendanceService.MarkAbsentees(ctx, attendance.MarkAbsenteesRequest{})
	if err != nil {
		return err
	}

	if result.Skipped {
		slog.Info("Cron: Absentee sweep skipped", "date", result.Date, "reason", result.Reason)
		return nil
	}

	slog.Info("Cron: Marked absentees",
		"date", result.Date,
		"absent", result.Absent,
		"on_leave", result.OnLeave,
		"failed", result.Failed)
	return nil
}
