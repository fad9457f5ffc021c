package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db  *database.DB
	loc *time.Location
}

func NewLeaveRequestRepository(db *database.DB, loc *time.Location) leave.LeaveRequestRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &leaveRequestRepositoryImpl{db: db, loc: loc}
}

// FindApprovedCovering implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) FindApprovedCovering(ctx context.Context, date time.Time) ([]leave.ApprovedLeave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date
		FROM leave_requests lr
		WHERE lr.status = $1
		  AND lr.start_date <= $2
		  AND lr.end_date >= $2
		ORDER BY lr.created_at ASC
	`

	rows, err := q.Query(ctx, query, string(leave.LeaveRequestStatusApproved), dateParam(date))
	if err != nil {
		return nil, fmt.Errorf("failed to find approved leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.ApprovedLeave
	for rows.Next() {
		var (
			l         leave.ApprovedLeave
			leaveType string
		)
		if err := rows.Scan(&l.ID, &l.EmployeeID, &leaveType, &l.StartDate, &l.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan approved leave: %w", err)
		}
		l.LeaveType = leave.LeaveType(leaveType)
		l.StartDate = inLocation(l.StartDate, r.loc)
		l.EndDate = inLocation(l.EndDate, r.loc)
		leaves = append(leaves, l)
	}

	return leaves, rows.Err()
}
