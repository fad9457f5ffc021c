package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists one record per (employee, calendar day).
// Dates passed in must already be normalized to midnight.
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrDuplicateRecord when the
	// (employee, date) pair already exists.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID returns ErrRecordNotFound when no record has the id.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns nil, nil when the employee has no record for the day.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Save replaces every mutable column of a previously loaded record.
	Save(ctx context.Context, attendance Attendance) error

	// SaveCheckIn is Save guarded on the stored row still having no check-in.
	// Returns ErrAlreadyCheckedIn when another check-in got there first.
	SaveCheckIn(ctx context.Context, attendance Attendance) error

	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// ListByEmployeeInRange returns records with start <= date <= end, oldest first.
	ListByEmployeeInRange(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
}
