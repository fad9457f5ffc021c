package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrWeekendNotAllowed = errors.New("attendance cannot be marked on weekends")
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
	ErrNoCheckInFound    = errors.New("no check-in found for today")
	ErrCheckInRequired   = errors.New("you must check in first")
	ErrInvalidTimeRange  = errors.New("check-out time cannot be before check-in time")

	// Break errors
	ErrBreakAlreadyActive = errors.New("a break is already in progress")
	ErrNoActiveBreak      = errors.New("no active break found")

	// Regularization errors
	ErrMissingField                = errors.New("required field is missing")
	ErrNotARegularizationRequest   = errors.New("attendance record is not a regularization request")
	ErrInvalidRegularizationAction = errors.New("action must be APPROVED or REJECTED")

	// Store errors
	ErrRecordNotFound  = errors.New("attendance record not found")
	ErrDuplicateRecord = errors.New("attendance record already exists for this employee and date")
	ErrInvalidStatus   = errors.New("invalid attendance status")
)
