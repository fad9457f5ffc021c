package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository is the leave system as seen by attendance.
type LeaveRequestRepository interface {
	// FindApprovedCovering returns APPROVED leaves with start_date <= date <= end_date
	FindApprovedCovering(ctx context.Context, date time.Time) ([]ApprovedLeave, error)
}
