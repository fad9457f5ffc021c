package attendance

import (
	"strings"

	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

// ========================================
// LIFECYCLE DTOs
// ========================================

type GeoPointRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   *string `json:"address,omitempty"`
}

func (g *GeoPointRequest) validate(prefix string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if g.Latitude < -90 || g.Latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + ".latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if g.Longitude < -180 || g.Longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   prefix + ".longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	return errs
}

func (g *GeoPointRequest) toGeoPoint() *GeoPoint {
	if g == nil {
		return nil
	}
	return &GeoPoint{Latitude: g.Latitude, Longitude: g.Longitude, Address: g.Address}
}

type CheckInRequest struct {
	EmployeeID string           `json:"-"`
	Location   *GeoPointRequest `json:"location,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Location != nil {
		errs = append(errs, r.Location.validate("location")...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *CheckInRequest) GeoPoint() *GeoPoint {
	return r.Location.toGeoPoint()
}

type CheckOutRequest struct {
	EmployeeID string           `json:"-"`
	Location   *GeoPointRequest `json:"location,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Location != nil {
		errs = append(errs, r.Location.validate("location")...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *CheckOutRequest) GeoPoint() *GeoPoint {
	return r.Location.toGeoPoint()
}

// ========================================
// REGULARIZATION DTOs
// ========================================

// RegularizationRequest asks for a past day to be corrected. Missing date or
// reason is reported by the service as ErrMissingField; Validate only checks formats.
type RegularizationRequest struct {
	EmployeeID string  `json:"-"`
	Date       string  `json:"date"`                // YYYY-MM-DD
	Reason     string  `json:"reason"`              // Required
	CheckIn    *string `json:"check_in,omitempty"`  // RFC3339
	CheckOut   *string `json:"check_out,omitempty"` // RFC3339
}

func (r *RegularizationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.Date) {
		if _, valid := validator.IsValidDate(r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.CheckIn != nil {
		if _, valid := validator.IsValidDateTime(*r.CheckIn); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be an RFC3339 timestamp",
			})
		}
	}

	if r.CheckOut != nil {
		if _, valid := validator.IsValidDateTime(*r.CheckOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ProcessRegularizationRequest struct {
	ID         string  `json:"-"`
	ApproverID string  `json:"-"`
	Action     string  `json:"action"` // APPROVED or REJECTED
	Notes      *string `json:"notes,omitempty"`
}

func (r *ProcessRegularizationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{
			Field:   "approver_id",
			Message: "approver_id is required",
		})
	}

	r.Action = strings.ToUpper(strings.TrimSpace(r.Action))

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// ADMIN DTOs
// ========================================

// UpdateAttendanceRequest lets HR/admin fix a record, e.g. a forgotten check-out
type UpdateAttendanceRequest struct {
	ID       string  `json:"-"`
	Status   *string `json:"status,omitempty"`
	CheckIn  *string `json:"check_in,omitempty"`  // RFC3339
	CheckOut *string `json:"check_out,omitempty"` // RFC3339
	Notes    *string `json:"notes,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil {
		if _, err := ParseStatus(strings.ToUpper(*r.Status)); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PRESENT, ABSENT, HALF_DAY, LEAVE, PENDING, HOLIDAY, WEEKEND",
			})
		}
	}

	if r.CheckIn != nil {
		if _, valid := validator.IsValidDateTime(*r.CheckIn); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in",
				Message: "check_in must be an RFC3339 timestamp",
			})
		}
	}

	if r.CheckOut != nil {
		if _, valid := validator.IsValidDateTime(*r.CheckOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MarkAbsenteesRequest struct {
	Date *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

func (r *MarkAbsenteesRequest) Validate() error {
	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			return validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
	}
	return nil
}

type StatsFilter struct {
	EmployeeID string  `json:"employee_id"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *StatsFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================

type BreakResponse struct {
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

type AttendanceResponse struct {
	ID                    string          `json:"id"`
	EmployeeID            string          `json:"employee_id"`
	Date                  string          `json:"date"`
	Status                string          `json:"status"`
	CheckIn               *string         `json:"check_in,omitempty"`
	CheckOut              *string         `json:"check_out,omitempty"`
	Breaks                []BreakResponse `json:"breaks"`
	OnBreak               bool            `json:"on_break"`
	WorkHours             *float64        `json:"work_hours,omitempty"`
	OvertimeHours         *float64        `json:"overtime_hours,omitempty"`
	LateArrivalMinutes    *int            `json:"late_arrival_minutes,omitempty"`
	EarlyDepartureMinutes *int            `json:"early_departure_minutes,omitempty"`
	ShiftStartTime        string          `json:"shift_start_time"`
	ShiftEndTime          string          `json:"shift_end_time"`
	ExpectedWorkHours     float64         `json:"expected_work_hours"`
	IsRegularized         bool            `json:"is_regularized"`
	RegularizationReason  *string         `json:"regularization_reason,omitempty"`
	RegularizationStatus  *string         `json:"regularization_status,omitempty"`
	ApprovedBy            *string         `json:"approved_by,omitempty"`
	ApprovedAt            *string         `json:"approved_at,omitempty"`
	Notes                 *string         `json:"notes,omitempty"`
	Location              *Location       `json:"location,omitempty"`
	CreatedAt             string          `json:"created_at"`
	UpdatedAt             string          `json:"updated_at"`
}

// ActionResponse carries the updated record plus the message the caller relays to the user
type ActionResponse struct {
	Attendance AttendanceResponse `json:"attendance"`
	Message    string             `json:"message"`
}

type SweepResult struct {
	Date    string `json:"date"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
	Marked  int    `json:"marked"`
	Absent  int    `json:"absent"`
	OnLeave int    `json:"on_leave"`
	Failed  int    `json:"failed"`
}

type StatsResponse struct {
	EmployeeID         string         `json:"employee_id"`
	StartDate          string         `json:"start_date"`
	EndDate            string         `json:"end_date"`
	TotalDays          int            `json:"total_days"`
	StatusCounts       map[Status]int `json:"status_counts"`
	PresentDays        int            `json:"present_days"`
	AbsentDays         int            `json:"absent_days"`
	HalfDays           int            `json:"half_days"`
	LeaveDays          int            `json:"leave_days"`
	WorkingDays        int            `json:"working_days"`
	TotalWorkHours     float64        `json:"total_work_hours"`
	TotalOvertimeHours float64        `json:"total_overtime_hours"`
	AverageWorkHours   float64        `json:"average_work_hours"`
	LateArrivals       int            `json:"late_arrivals"`
	EarlyDepartures    int            `json:"early_departures"`
	AttendanceRate     float64        `json:"attendance_rate"`
}
