package leave

import (
	"time"
)

type LeaveType string

const (
	LeaveTypePaid   LeaveType = "PAID"
	LeaveTypeSick   LeaveType = "SICK"
	LeaveTypeUnpaid LeaveType = "UNPAID"
	LeaveTypeCasual LeaveType = "CASUAL"
)

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "PENDING"
	LeaveRequestStatusApproved LeaveRequestStatus = "APPROVED"
	LeaveRequestStatusRejected LeaveRequestStatus = "REJECTED"
)

// ApprovedLeave is an approved leave request whose [StartDate, EndDate] interval
// covers a given day.
type ApprovedLeave struct {
	ID         string
	EmployeeID string
	LeaveType  LeaveType
	StartDate  time.Time
	EndDate    time.Time
}

// Covers reports whether date falls within the leave, both ends inclusive.
func (l ApprovedLeave) Covers(date time.Time) bool {
	return !date.Before(l.StartDate) && !date.After(l.EndDate)
}
