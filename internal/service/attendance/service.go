package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/employee"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/clock"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	leave.LeaveRequestRepository
	clock  clock.Clock
	loc    *time.Location
	policy attendance.ShiftPolicy
	logger *slog.Logger
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	clk clock.Clock,
	loc *time.Location,
	policy attendance.ShiftPolicy,
	logger *slog.Logger,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceServiceImpl{
		AttendanceRepository:   attendanceRepo,
		EmployeeRepository:     employeeRepo,
		LeaveRequestRepository: leaveRequestRepo,
		clock:                  clk,
		loc:                    loc,
		policy:                 policy,
		logger:                 logger,
	}
}

func (s *AttendanceServiceImpl) now() time.Time {
	return s.clock.Now().In(s.loc)
}

// newRecord builds an empty record for the day with the current shift policy snapshotted onto it.
func (s *AttendanceServiceImpl) newRecord(employeeID string, date time.Time, status attendance.Status) attendance.Attendance {
	return attendance.Attendance{
		ID:                uuid.Must(uuid.NewV7()).String(),
		EmployeeID:        employeeID,
		Date:              date,
		Status:            status,
		Breaks:            attendance.Breaks{},
		ShiftStartTime:    s.policy.StartTime,
		ShiftEndTime:      s.policy.EndTime,
		ExpectedWorkHours: s.policy.ExpectedWorkHours,
	}
}

func requireEmployeeID(employeeID string) error {
	if validator.IsEmpty(employeeID) {
		return validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id is required",
		}}
	}
	return nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.ActionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ActionResponse{}, err
	}

	now := s.now()
	today := attendance.NormalizeDate(now, s.loc)

	if attendance.IsWeekend(today) {
		return attendance.ActionResponse{}, attendance.ErrWeekendNotAllowed
	}

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
	if err != nil {
		return attendance.ActionResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if existing != nil && existing.HasCheckedIn() {
		return attendance.ActionResponse{}, attendance.ErrAlreadyCheckedIn
	}

	var record attendance.Attendance
	if existing != nil {
		// Sweep or regularization created the row before the employee arrived
		record = *existing
		if swept := existing.Status; swept == attendance.StatusAbsent || swept == attendance.StatusLeave {
			note := fmt.Sprintf("Checked in over %s record", swept)
			record.Notes = &note
		}
	} else {
		record = s.newRecord(req.EmployeeID, today, attendance.StatusPresent)
	}

	lateMinutes := lateArrivalMinutes(now, today, s.policy.StartTime)

	record.Status = attendance.StatusPresent
	record.CheckIn = &now
	record.LateArrivalMinutes = &lateMinutes
	record.ShiftStartTime = s.policy.StartTime
	record.ShiftEndTime = s.policy.EndTime
	record.ExpectedWorkHours = s.policy.ExpectedWorkHours
	if point := req.GeoPoint(); point != nil {
		record.Location.CheckIn = point
	}

	if existing == nil {
		record, err = s.AttendanceRepository.Create(ctx, record)
		if err != nil {
			if errors.Is(err, attendance.ErrDuplicateRecord) {
				return attendance.ActionResponse{}, attendance.ErrAlreadyCheckedIn
			}
			return attendance.ActionResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
		}
	} else {
		if err := s.AttendanceRepository.SaveCheckIn(ctx, record); err != nil {
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				return attendance.ActionResponse{}, err
			}
			return attendance.ActionResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
		}
	}

	message := "On time"
	if lateMinutes > 0 {
		message = fmt.Sprintf("You are %d minutes late", lateMinutes)
	}

	return attendance.ActionResponse{
		Attendance: mapAttendanceToResponse(record, s.loc),
		Message:    message,
	}, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.ActionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ActionResponse{}, err
	}

	now := s.now()
	today := attendance.NormalizeDate(now, s.loc)

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
	if err != nil {
		return attendance.ActionResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if record == nil {
		return attendance.ActionResponse{}, attendance.ErrNoCheckInFound
	}

	if record.HasCheckedOut() {
		return attendance.ActionResponse{}, attendance.ErrAlreadyCheckedOut
	}

	if !record.HasCheckedIn() {
		return attendance.ActionResponse{}, attendance.ErrCheckInRequired
	}

	metrics, err := computeDay(*record, *record.CheckIn, now)
	if err != nil {
		return attendance.ActionResponse{}, err
	}

	record.CheckOut = &now
	metrics.apply(record)
	record.Status = metrics.Status
	if point := req.GeoPoint(); point != nil {
		record.Location.CheckOut = point
	}

	if err := s.AttendanceRepository.Save(ctx, *record); err != nil {
		return attendance.ActionResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	// Early departure wins over overtime when both apply
	message := "Checked out successfully"
	switch {
	case metrics.EarlyDepartureMinutes > 0:
		message = fmt.Sprintf("You left %d minutes early", metrics.EarlyDepartureMinutes)
	case metrics.OvertimeHours > 0:
		message = fmt.Sprintf("You worked %.2f hours of overtime", metrics.OvertimeHours)
	}

	return attendance.ActionResponse{
		Attendance: mapAttendanceToResponse(*record, s.loc),
		Message:    message,
	}, nil
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	if err := requireEmployeeID(employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	today := attendance.NormalizeDate(now, s.loc)

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if record == nil || !record.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrCheckInRequired
	}

	if record.HasCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	if record.Breaks.Open() >= 0 {
		return attendance.AttendanceResponse{}, attendance.ErrBreakAlreadyActive
	}

	record.Breaks = append(record.Breaks, attendance.Break{StartTime: now})

	if err := s.AttendanceRepository.Save(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to start break: %w", err)
	}

	return mapAttendanceToResponse(*record, s.loc), nil
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	if err := requireEmployeeID(employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	today := attendance.NormalizeDate(now, s.loc)

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if record == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoActiveBreak
	}

	if record.HasCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	idx := record.Breaks.Open()
	if idx < 0 {
		return attendance.AttendanceResponse{}, attendance.ErrNoActiveBreak
	}

	duration := roundMinutes(record.Breaks[idx].StartTime, now)
	record.Breaks[idx].EndTime = &now
	record.Breaks[idx].DurationMinutes = &duration

	if err := s.AttendanceRepository.Save(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to end break: %w", err)
	}

	return mapAttendanceToResponse(*record, s.loc), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error) {
	if err := requireEmployeeID(employeeID); err != nil {
		return nil, err
	}

	today := attendance.NormalizeDate(s.now(), s.loc)

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	resp := mapAttendanceToResponse(*record, s.loc)
	return &resp, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrRecordNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return mapAttendanceToResponse(record, s.loc), nil
}

func formatInstant(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(loc).Format(time.RFC3339)
	return &formatted
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance, loc *time.Location) attendance.AttendanceResponse {
	breaks := make([]attendance.BreakResponse, 0, len(att.Breaks))
	for _, b := range att.Breaks {
		breaks = append(breaks, attendance.BreakResponse{
			StartTime:       b.StartTime.In(loc).Format(time.RFC3339),
			EndTime:         formatInstant(b.EndTime, loc),
			DurationMinutes: b.DurationMinutes,
		})
	}

	var regularizationStatus *string
	if att.RegularizationStatus != nil {
		v := string(*att.RegularizationStatus)
		regularizationStatus = &v
	}

	var location *attendance.Location
	if att.Location.CheckIn != nil || att.Location.CheckOut != nil {
		l := att.Location
		location = &l
	}

	return attendance.AttendanceResponse{
		ID:                    att.ID,
		EmployeeID:            att.EmployeeID,
		Date:                  att.Date.Format(attendance.DateLayout),
		Status:                string(att.Status),
		CheckIn:               formatInstant(att.CheckIn, loc),
		CheckOut:              formatInstant(att.CheckOut, loc),
		Breaks:                breaks,
		OnBreak:               att.Breaks.Open() >= 0,
		WorkHours:             att.WorkHours,
		OvertimeHours:         att.OvertimeHours,
		LateArrivalMinutes:    att.LateArrivalMinutes,
		EarlyDepartureMinutes: att.EarlyDepartureMinutes,
		ShiftStartTime:        att.ShiftStartTime,
		ShiftEndTime:          att.ShiftEndTime,
		ExpectedWorkHours:     att.ExpectedWorkHours,
		IsRegularized:         att.IsRegularized,
		RegularizationReason:  att.RegularizationReason,
		RegularizationStatus:  regularizationStatus,
		ApprovedBy:            att.ApprovedBy,
		ApprovedAt:            formatInstant(att.ApprovedAt, loc),
		Notes:                 att.Notes,
		Location:              location,
		CreatedAt:             att.CreatedAt.In(loc).Format(time.RFC3339),
		UpdatedAt:             att.UpdatedAt.In(loc).Format(time.RFC3339),
	}
}
