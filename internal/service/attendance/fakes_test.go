package attendance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/leave"
)

var errStoreDown = errors.New("store unavailable")

// memoryAttendanceRepository enforces (employee_id, date) uniqueness like the real table.
type memoryAttendanceRepository struct {
	mu        sync.Mutex
	records   map[string]attendance.Attendance
	failFor   map[string]error
	listErr   error
	saveCalls int
}

func newMemoryAttendanceRepository() *memoryAttendanceRepository {
	return &memoryAttendanceRepository{
		records: make(map[string]attendance.Attendance),
		failFor: make(map[string]error),
	}
}

func cloneAttendance(a attendance.Attendance) attendance.Attendance {
	if a.Breaks != nil {
		a.Breaks = append(attendance.Breaks{}, a.Breaks...)
	}
	return a
}

func sameDay(a, b time.Time) bool {
	return a.Format(attendance.DateLayout) == b.Format(attendance.DateLayout)
}

func (m *memoryAttendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failFor[a.EmployeeID]; ok {
		return attendance.Attendance{}, err
	}

	for _, existing := range m.records {
		if existing.EmployeeID == a.EmployeeID && sameDay(existing.Date, a.Date) {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	m.records[a.ID] = cloneAttendance(a)
	return cloneAttendance(a), nil
}

func (m *memoryAttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrRecordNotFound
	}
	return cloneAttendance(a), nil
}

func (m *memoryAttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.records {
		if a.EmployeeID == employeeID && sameDay(a.Date, date) {
			c := cloneAttendance(a)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memoryAttendanceRepository) Save(ctx context.Context, a attendance.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[a.ID]; !ok {
		return attendance.ErrRecordNotFound
	}
	m.saveCalls++
	a.UpdatedAt = time.Now()
	m.records[a.ID] = cloneAttendance(a)
	return nil
}

func (m *memoryAttendanceRepository) SaveCheckIn(ctx context.Context, a attendance.Attendance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[a.ID]
	if !ok || stored.CheckIn != nil {
		return attendance.ErrAlreadyCheckedIn
	}
	m.saveCalls++
	a.UpdatedAt = time.Now()
	m.records[a.ID] = cloneAttendance(a)
	return nil
}

func (m *memoryAttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	var out []attendance.Attendance
	for _, a := range m.records {
		if sameDay(a.Date, date) {
			out = append(out, cloneAttendance(a))
		}
	}
	return out, nil
}

func (m *memoryAttendanceRepository) ListByEmployeeInRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	var out []attendance.Attendance
	for _, a := range m.records {
		if a.EmployeeID == employeeID && !a.Date.Before(start) && !a.Date.After(end) {
			out = append(out, cloneAttendance(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// seed stores a record directly, bypassing uniqueness, for arranging test state.
func (m *memoryAttendanceRepository) seed(a attendance.Attendance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[a.ID] = cloneAttendance(a)
}

func (m *memoryAttendanceRepository) forEmployee(employeeID string) []attendance.Attendance {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []attendance.Attendance
	for _, a := range m.records {
		if a.EmployeeID == employeeID {
			out = append(out, cloneAttendance(a))
		}
	}
	return out
}

func (m *memoryAttendanceRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

type fakeEmployeeRepository struct {
	ids []string
	err error
}

func (f *fakeEmployeeRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	return f.ids, f.err
}

type fakeLeaveRequestRepository struct {
	leaves []leave.ApprovedLeave
	err    error
}

func (f *fakeLeaveRequestRepository) FindApprovedCovering(ctx context.Context, date time.Time) ([]leave.ApprovedLeave, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []leave.ApprovedLeave
	for _, l := range f.leaves {
		if l.Covers(date) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testEnv struct {
	svc       attendance.AttendanceService
	repo      *memoryAttendanceRepository
	employees *fakeEmployeeRepository
	leaves    *fakeLeaveRequestRepository
	clock     *fakeClock
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:      newMemoryAttendanceRepository(),
		employees: &fakeEmployeeRepository{},
		leaves:    &fakeLeaveRequestRepository{},
		clock:     &fakeClock{now: now},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	env.svc = NewAttendanceService(env.repo, env.employees, env.leaves, env.clock, time.UTC, attendance.DefaultShiftPolicy(), logger)
	return env
}

// at builds an instant on the given day in UTC.
func at(year int, month time.Month, day, hour, minute, second int) time.Time {
	return time.Date(year, month, day, hour, minute, second, 0, time.UTC)
}

// monday is 2026-10-19 at the given time.
func monday(hour, minute int) time.Time {
	return at(2026, time.October, 19, hour, minute, 0)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }
