package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweepDay() time.Time {
	return at(2026, time.October, 19, 0, 0, 0)
}

func newSweepEnv(t *testing.T) *testEnv {
	t.Helper()

	env := newTestEnv(t, at(2026, time.October, 19, 23, 55, 0))
	env.employees.ids = []string{"emp-present", "emp-absent", "emp-leave"}
	env.leaves.leaves = []leave.ApprovedLeave{
		{
			ID:         "leave-1",
			EmployeeID: "emp-leave",
			LeaveType:  leave.LeaveTypeSick,
			StartDate:  at(2026, time.October, 19, 0, 0, 0),
			EndDate:    at(2026, time.October, 20, 0, 0, 0),
		},
	}
	env.repo.seed(attendance.Attendance{
		ID:         "present",
		EmployeeID: "emp-present",
		Date:       sweepDay(),
		Status:     attendance.StatusPresent,
		CheckIn:    timePtr(at(2026, time.October, 19, 9, 0, 0)),
	})
	return env
}

func recordFor(t *testing.T, env *testEnv, employeeID string) attendance.Attendance {
	t.Helper()
	records := env.repo.forEmployee(employeeID)
	require.Len(t, records, 1)
	return records[0]
}

func TestAttendanceService_MarkAbsentees_MarksAbsentAndLeave(t *testing.T) {
	env := newSweepEnv(t)

	result, err := env.svc.MarkAbsentees(context.Background(), attendance.MarkAbsenteesRequest{})

	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", result.Date)
	assert.False(t, result.Skipped)
	assert.Equal(t, 2, result.Marked)
	assert.Equal(t, 1, result.Absent)
	assert.Equal(t, 1, result.OnLeave)
	assert.Equal(t, 0, result.Failed)

	absent := recordFor(t, env, "emp-absent")
	assert.Equal(t, attendance.StatusAbsent, absent.Status)
	require.NotNil(t, absent.Notes)
	assert.Equal(t, "Auto-marked absent", *absent.Notes)
	assert.Equal(t, "09:00", absent.ShiftStartTime)

	onLeave := recordFor(t, env, "emp-leave")
	assert.Equal(t, attendance.StatusLeave, onLeave.Status)
	require.NotNil(t, onLeave.Notes)
	assert.Equal(t, "On SICK leave", *onLeave.Notes)

	present := recordFor(t, env, "emp-present")
	assert.Equal(t, attendance.StatusPresent, present.Status)
	assert.Nil(t, present.Notes)
}

func TestAttendanceService_MarkAbsentees_Idempotent(t *testing.T) {
	ctx := context.Background()
	env := newSweepEnv(t)

	_, err := env.svc.MarkAbsentees(ctx, attendance.MarkAbsenteesRequest{})
	require.NoError(t, err)
	before := env.repo.count()

	second, err := env.svc.MarkAbsentees(ctx, attendance.MarkAbsenteesRequest{})

	require.NoError(t, err)
	assert.Equal(t, 0, second.Marked)
	assert.Equal(t, 0, second.Failed)
	assert.Equal(t, before, env.repo.count())
}

func TestAttendanceService_MarkAbsentees_WeekendSkipped(t *testing.T) {
	env := newSweepEnv(t)
	saturday := "2026-10-17"

	result, err := env.svc.MarkAbsentees(context.Background(), attendance.MarkAbsenteesRequest{Date: &saturday})

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, "weekend", result.Reason)
	assert.Equal(t, 0, result.Marked)
	assert.Equal(t, 1, env.repo.count())
}

func TestAttendanceService_MarkAbsentees_ExplicitDate(t *testing.T) {
	env := newSweepEnv(t)
	friday := "2026-10-16"

	result, err := env.svc.MarkAbsentees(context.Background(), attendance.MarkAbsenteesRequest{Date: &friday})

	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", result.Date)
	// The sick leave starts on Monday, so everyone is absent on Friday
	assert.Equal(t, 3, result.Absent)
	assert.Equal(t, 0, result.OnLeave)
}

func TestAttendanceService_MarkAbsentees_LeaveOutsideRoster(t *testing.T) {
	env := newSweepEnv(t)
	env.leaves.leaves = append(env.leaves.leaves, leave.ApprovedLeave{
		ID:         "leave-2",
		EmployeeID: "emp-contractor",
		LeaveType:  leave.LeaveTypeUnpaid,
		StartDate:  at(2026, time.October, 19, 0, 0, 0),
		EndDate:    at(2026, time.October, 19, 0, 0, 0),
	})

	result, err := env.svc.MarkAbsentees(context.Background(), attendance.MarkAbsenteesRequest{})

	require.NoError(t, err)
	assert.Equal(t, 2, result.OnLeave)
	contractor := recordFor(t, env, "emp-contractor")
	assert.Equal(t, "On UNPAID leave", *contractor.Notes)
}

func TestAttendanceService_MarkAbsentees_OverlappingLeavesInsertOnce(t *testing.T) {
	env := newSweepEnv(t)
	env.leaves.leaves = append(env.leaves.leaves, leave.ApprovedLeave{
		ID:         "leave-3",
		EmployeeID: "emp-leave",
		LeaveType:  leave.LeaveTypePaid,
		StartDate:  at(2026, time.October, 12, 0, 0, 0),
		EndDate:    at(2026, time.October, 23, 0, 0, 0),
	})

	result, err := env.svc.MarkAbsentees(context.Background(), attendance.MarkAbsenteesRequest{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.OnLeave)
	assert.Equal(t, 0, result.Failed)
	recordFor(t, env, "emp-leave")
}

func TestAttendanceService_MarkAbsentees_InsertFailureIsSkipped(t *testing.T) {
	env := newSweepEnv(t)
	env.employees.ids = append(env.employees.ids, "emp-broken", "emp-late")
	env.repo.failFor["emp-broken"] = errStoreDown
	env.repo.failFor["emp-late"] = attendance.ErrDuplicateRecord

	result, err := env.svc.MarkAbsentees(context.Background(), attendance.MarkAbsenteesRequest{})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 1, result.Absent)
	assert.Equal(t, 1, result.OnLeave)
	assert.Empty(t, env.repo.forEmployee("emp-broken"))
}

func TestAttendanceService_MarkAbsentees_CollaboratorFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("roster", func(t *testing.T) {
		env := newSweepEnv(t)
		env.employees.err = errStoreDown

		_, err := env.svc.MarkAbsentees(ctx, attendance.MarkAbsenteesRequest{})
		assert.ErrorIs(t, err, errStoreDown)
		assert.Equal(t, 1, env.repo.count())
	})

	t.Run("leave system", func(t *testing.T) {
		env := newSweepEnv(t)
		env.leaves.err = errStoreDown

		_, err := env.svc.MarkAbsentees(ctx, attendance.MarkAbsenteesRequest{})
		assert.ErrorIs(t, err, errStoreDown)
		assert.Equal(t, 1, env.repo.count())
	})
}

func TestAttendanceService_MarkAbsentees_InvalidDate(t *testing.T) {
	env := newSweepEnv(t)
	bad := "19-10-2026"

	_, err := env.svc.MarkAbsentees(context.Background(), attendance.MarkAbsenteesRequest{Date: &bad})

	assert.Error(t, err)
	assert.Equal(t, 1, env.repo.count())
}
