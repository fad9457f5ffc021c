package attendance

import (
	"context"
)

// AttendanceService defines the attendance lifecycle, sweep and statistics operations
type AttendanceService interface {
	// CheckIn opens the working day for an employee
	CheckIn(ctx context.Context, req CheckInRequest) (ActionResponse, error)

	// CheckOut closes the working day and computes the derived metrics
	CheckOut(ctx context.Context, req CheckOutRequest) (ActionResponse, error)

	StartBreak(ctx context.Context, employeeID string) (AttendanceResponse, error)
	EndBreak(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// GetToday returns nil when the employee has no record for the current day
	GetToday(ctx context.Context, employeeID string) (*AttendanceResponse, error)

	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// UpdateAttendance is an administrative correction of a record
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	RequestRegularization(ctx context.Context, req RegularizationRequest) (ActionResponse, error)
	ProcessRegularization(ctx context.Context, req ProcessRegularizationRequest) (ActionResponse, error)

	// MarkAbsentees inserts ABSENT/LEAVE records for everyone unaccounted for on the target day
	MarkAbsentees(ctx context.Context, req MarkAbsenteesRequest) (SweepResult, error)

	GetStats(ctx context.Context, filter StatsFilter) (StatsResponse, error)
}
