package employee

import "context"

// EmployeeRepository is the employee directory as seen by attendance.
type EmployeeRepository interface {
	// ListActiveIDs returns the ids of every active, non-deleted employee
	ListActiveIDs(ctx context.Context) ([]string, error)
}
