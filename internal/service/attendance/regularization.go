package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
)

func parseInstant(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, ok := validator.IsValidDateTime(*s)
	if !ok {
		return nil, fmt.Errorf("invalid timestamp %q", *s)
	}
	return &t, nil
}

// RequestRegularization implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RequestRegularization(ctx context.Context, req attendance.RegularizationRequest) (attendance.ActionResponse, error) {
	if err := requireEmployeeID(req.EmployeeID); err != nil {
		return attendance.ActionResponse{}, err
	}

	if validator.IsEmpty(req.Date) {
		return attendance.ActionResponse{}, fmt.Errorf("%w: date", attendance.ErrMissingField)
	}
	if validator.IsEmpty(req.Reason) {
		return attendance.ActionResponse{}, fmt.Errorf("%w: reason", attendance.ErrMissingField)
	}

	if err := req.Validate(); err != nil {
		return attendance.ActionResponse{}, err
	}

	date, err := time.ParseInLocation(attendance.DateLayout, req.Date, s.loc)
	if err != nil {
		return attendance.ActionResponse{}, err
	}

	checkIn, err := parseInstant(req.CheckIn)
	if err != nil {
		return attendance.ActionResponse{}, err
	}
	checkOut, err := parseInstant(req.CheckOut)
	if err != nil {
		return attendance.ActionResponse{}, err
	}

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.ActionResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	var record attendance.Attendance
	if existing != nil {
		record = *existing
	} else {
		record = s.newRecord(req.EmployeeID, date, attendance.StatusPending)
	}

	reason := strings.TrimSpace(req.Reason)
	pending := attendance.RegularizationPending

	record.IsRegularized = true
	record.RegularizationReason = &reason
	record.RegularizationStatus = &pending

	// Proposed times are stored as-is; metrics are only derived on approval
	if checkIn != nil {
		record.CheckIn = checkIn
	}
	if checkOut != nil {
		record.CheckOut = checkOut
	}

	if existing == nil {
		record, err = s.AttendanceRepository.Create(ctx, record)
		if err != nil {
			if errors.Is(err, attendance.ErrDuplicateRecord) {
				return attendance.ActionResponse{}, attendance.ErrDuplicateRecord
			}
			return attendance.ActionResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
		}
	} else {
		if err := s.AttendanceRepository.Save(ctx, record); err != nil {
			return attendance.ActionResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
		}
	}

	return attendance.ActionResponse{
		Attendance: mapAttendanceToResponse(record, s.loc),
		Message:    "Regularization request submitted",
	}, nil
}

// ProcessRegularization implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ProcessRegularization(ctx context.Context, req attendance.ProcessRegularizationRequest) (attendance.ActionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ActionResponse{}, err
	}

	action, err := attendance.ParseRegularizationAction(req.Action)
	if err != nil {
		return attendance.ActionResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.ActionResponse{}, attendance.ErrRecordNotFound
		}
		return attendance.ActionResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if !record.IsRegularized {
		return attendance.ActionResponse{}, attendance.ErrNotARegularizationRequest
	}

	message := "Regularization rejected"

	switch action {
	case attendance.RegularizationRejected:
		record.Status = attendance.StatusAbsent

	case attendance.RegularizationApproved:
		message = "Regularization approved"

		switch {
		case record.HasCheckedIn() && record.HasCheckedOut():
			metrics, err := computeDay(record, *record.CheckIn, *record.CheckOut)
			if err != nil {
				return attendance.ActionResponse{}, err
			}
			metrics.apply(&record)
			record.Status = metrics.Status
		case record.HasCheckedIn():
			record.Status = attendance.StatusHalfDay
		default:
			record.Status = attendance.StatusPresent
		}
	}

	now := s.now()
	approver := req.ApproverID

	record.RegularizationStatus = &action
	record.ApprovedBy = &approver
	record.ApprovedAt = &now
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	if err := s.AttendanceRepository.Save(ctx, record); err != nil {
		return attendance.ActionResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return attendance.ActionResponse{
		Attendance: mapAttendanceToResponse(record, s.loc),
		Message:    message,
	}, nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrRecordNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	checkIn, err := parseInstant(req.CheckIn)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	checkOut, err := parseInstant(req.CheckOut)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if checkIn != nil {
		record.CheckIn = checkIn
	}
	if checkOut != nil {
		record.CheckOut = checkOut
	}

	timesChanged := checkIn != nil || checkOut != nil
	if timesChanged && record.HasCheckedIn() && record.HasCheckedOut() {
		metrics, err := computeDay(record, *record.CheckIn, *record.CheckOut)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		metrics.apply(&record)
		record.Status = metrics.Status
	}

	// An explicit status always wins over the derived one
	if req.Status != nil {
		status, err := attendance.ParseStatus(strings.ToUpper(*req.Status))
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		record.Status = status
	}

	if req.Notes != nil {
		record.Notes = req.Notes
	}

	if err := s.AttendanceRepository.Save(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return mapAttendanceToResponse(record, s.loc), nil
}
