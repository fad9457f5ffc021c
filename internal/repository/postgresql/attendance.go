package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const attendanceColumns = `
	id, employee_id, date, status,
	check_in, check_out, breaks,
	work_hours, overtime_hours, late_arrival_minutes, early_departure_minutes,
	shift_start_time, shift_end_time, expected_work_hours,
	is_regularized, regularization_reason, regularization_status, approved_by, approved_at,
	notes, location, created_at, updated_at
`

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewAttendanceRepository returns a store whose DATE values are read back as midnight in loc.
func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &attendanceRepository{db: db, loc: loc}
}

// dateParam sends only the calendar day, so the session time zone cannot shift it
func dateParam(t time.Time) string {
	return t.Format(attendance.DateLayout)
}

// inLocation re-attaches a DATE column, decoded at UTC midnight, to loc
func inLocation(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

func (a *attendanceRepository) scan(row pgx.Row) (attendance.Attendance, error) {
	var (
		att                  attendance.Attendance
		regularizationStatus *string
	)

	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.Status,
		&att.CheckIn, &att.CheckOut, &att.Breaks,
		&att.WorkHours, &att.OvertimeHours, &att.LateArrivalMinutes, &att.EarlyDepartureMinutes,
		&att.ShiftStartTime, &att.ShiftEndTime, &att.ExpectedWorkHours,
		&att.IsRegularized, &att.RegularizationReason, &regularizationStatus, &att.ApprovedBy, &att.ApprovedAt,
		&att.Notes, &att.Location, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	att.Date = inLocation(att.Date, a.loc)
	if regularizationStatus != nil {
		rs := attendance.RegularizationStatus(*regularizationStatus)
		att.RegularizationStatus = &rs
	}
	if att.Breaks == nil {
		att.Breaks = attendance.Breaks{}
	}

	return att, nil
}

func regularizationStatusParam(rs *attendance.RegularizationStatus) *string {
	if rs == nil {
		return nil
	}
	s := string(*rs)
	return &s
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if newAttendance.Breaks == nil {
		newAttendance.Breaks = attendance.Breaks{}
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date, status,
			check_in, check_out, breaks,
			work_hours, overtime_hours, late_arrival_minutes, early_departure_minutes,
			shift_start_time, shift_end_time, expected_work_hours,
			is_regularized, regularization_reason, regularization_status, approved_by, approved_at,
			notes, location
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		dateParam(newAttendance.Date),
		string(newAttendance.Status),
		newAttendance.CheckIn,
		newAttendance.CheckOut,
		newAttendance.Breaks,
		newAttendance.WorkHours,
		newAttendance.OvertimeHours,
		newAttendance.LateArrivalMinutes,
		newAttendance.EarlyDepartureMinutes,
		newAttendance.ShiftStartTime,
		newAttendance.ShiftEndTime,
		newAttendance.ExpectedWorkHours,
		newAttendance.IsRegularized,
		newAttendance.RegularizationReason,
		regularizationStatusParam(newAttendance.RegularizationStatus),
		newAttendance.ApprovedBy,
		newAttendance.ApprovedAt,
		newAttendance.Notes,
		newAttendance.Location,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	att, err := a.scan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrRecordNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "22P02" { // invalid_text_representation, not a uuid
			return attendance.Attendance{}, attendance.ErrRecordNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND date = $2`

	att, err := a.scan(q.QueryRow(ctx, query, employeeID, dateParam(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// update writes every mutable column of att. guard is ANDed onto the id match.
func (a *attendanceRepository) update(ctx context.Context, att attendance.Attendance, guard string) (int64, error) {
	q := GetQuerier(ctx, a.db)

	if att.Breaks == nil {
		att.Breaks = attendance.Breaks{}
	}

	query := `
		UPDATE attendances SET
			status = $2,
			check_in = $3,
			check_out = $4,
			breaks = $5,
			work_hours = $6,
			overtime_hours = $7,
			late_arrival_minutes = $8,
			early_departure_minutes = $9,
			shift_start_time = $10,
			shift_end_time = $11,
			expected_work_hours = $12,
			is_regularized = $13,
			regularization_reason = $14,
			regularization_status = $15,
			approved_by = $16,
			approved_at = $17,
			notes = $18,
			location = $19,
			updated_at = NOW()
		WHERE id = $1` + guard

	commandTag, err := q.Exec(ctx, query,
		att.ID,
		string(att.Status),
		att.CheckIn,
		att.CheckOut,
		att.Breaks,
		att.WorkHours,
		att.OvertimeHours,
		att.LateArrivalMinutes,
		att.EarlyDepartureMinutes,
		att.ShiftStartTime,
		att.ShiftEndTime,
		att.ExpectedWorkHours,
		att.IsRegularized,
		att.RegularizationReason,
		regularizationStatusParam(att.RegularizationStatus),
		att.ApprovedBy,
		att.ApprovedAt,
		att.Notes,
		att.Location,
	)
	if err != nil {
		return 0, err
	}

	return commandTag.RowsAffected(), nil
}

// Save implements attendance.AttendanceRepository.
func (a *attendanceRepository) Save(ctx context.Context, att attendance.Attendance) error {
	affected, err := a.update(ctx, att, "")
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	if affected == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// SaveCheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) SaveCheckIn(ctx context.Context, att attendance.Attendance) error {
	affected, err := a.update(ctx, att, " AND check_in IS NULL")
	if err != nil {
		return fmt.Errorf("failed to record check-in: %w", err)
	}

	// Row locked by a concurrent check-in that committed first
	if affected == 0 {
		return attendance.ErrAlreadyCheckedIn
	}

	return nil
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := a.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}

	return records, rows.Err()
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE date = $1 ORDER BY employee_id`

	records, err := a.list(ctx, query, dateParam(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}
	return records, nil
}

// ListByEmployeeInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeInRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	records, err := a.list(ctx, query, employeeID, dateParam(start), dateParam(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for employee: %w", err)
	}
	return records, nil
}
