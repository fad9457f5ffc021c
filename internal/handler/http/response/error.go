package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, user.ErrIdentityMissing):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Attendance state conflicts
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrBreakAlreadyActive),
		errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, err.Error())

	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")

	// Remaining business rule violations
	case errors.Is(err, attendance.ErrWeekendNotAllowed),
		errors.Is(err, attendance.ErrNoCheckInFound),
		errors.Is(err, attendance.ErrCheckInRequired),
		errors.Is(err, attendance.ErrNoActiveBreak),
		errors.Is(err, attendance.ErrInvalidTimeRange),
		errors.Is(err, attendance.ErrNotARegularizationRequest),
		errors.Is(err, attendance.ErrInvalidRegularizationAction),
		errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, attendance.ErrMissingField):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", slog.String("error", err.Error()))
		InternalServerError(w, "An unexpected error occurred")
	}
}
