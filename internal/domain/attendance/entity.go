package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusHalfDay Status = "HALF_DAY"
	StatusLeave   Status = "LEAVE"
	StatusPending Status = "PENDING"
	StatusHoliday Status = "HOLIDAY"
	StatusWeekend Status = "WEEKEND"
)

// Statuses lists every valid status tag in display order.
var Statuses = []Status{
	StatusPresent,
	StatusAbsent,
	StatusHalfDay,
	StatusLeave,
	StatusPending,
	StatusHoliday,
	StatusWeekend,
}

// ParseStatus converts a raw tag into a Status, rejecting anything outside the closed set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusLeave,
		StatusPending, StatusHoliday, StatusWeekend:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

type RegularizationStatus string

const (
	RegularizationPending  RegularizationStatus = "PENDING"
	RegularizationApproved RegularizationStatus = "APPROVED"
	RegularizationRejected RegularizationStatus = "REJECTED"
)

// ParseRegularizationAction accepts only the two decisions an approver can take.
func ParseRegularizationAction(s string) (RegularizationStatus, error) {
	switch RegularizationStatus(s) {
	case RegularizationApproved, RegularizationRejected:
		return RegularizationStatus(s), nil
	}
	return "", ErrInvalidRegularizationAction
}

// Break is one pause inside a working day. DurationMinutes is frozen when the break ends.
type Break struct {
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
}

func (b Break) IsOpen() bool {
	return b.EndTime == nil
}

// Breaks is the ordered, append-only break log of a record. At most one entry is open.
type Breaks []Break

// Open returns the index of the break without an end time, or -1.
func (bs Breaks) Open() int {
	for i := range bs {
		if bs[i].IsOpen() {
			return i
		}
	}
	return -1
}

// ClosedMinutes sums the frozen durations of finished breaks. Open breaks do not count.
func (bs Breaks) ClosedMinutes() int {
	total := 0
	for _, b := range bs {
		if b.DurationMinutes != nil {
			total += *b.DurationMinutes
		}
	}
	return total
}

// Value implements driver.Valuer for database storage
func (bs Breaks) Value() (driver.Value, error) {
	if bs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(bs)
}

// Scan implements sql.Scanner for database retrieval
func (bs *Breaks) Scan(value interface{}) error {
	if value == nil {
		*bs = Breaks{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Breaks: invalid type")
	}

	return json.Unmarshal(bytes, bs)
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   *string `json:"address,omitempty"`
}

type Location struct {
	CheckIn  *GeoPoint `json:"check_in,omitempty"`
	CheckOut *GeoPoint `json:"check_out,omitempty"`
}

// Value implements driver.Valuer for database storage
func (l Location) Value() (driver.Value, error) {
	if l.CheckIn == nil && l.CheckOut == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *Location) Scan(value interface{}) error {
	if value == nil {
		*l = Location{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Location: invalid type")
	}

	return json.Unmarshal(bytes, l)
}

// Attendance is the single record an employee has for one calendar day.
// Shift fields are a snapshot taken when the record is created and are never
// refreshed from the live policy.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status

	CheckIn  *time.Time
	CheckOut *time.Time
	Breaks   Breaks

	WorkHours             *float64
	OvertimeHours         *float64
	LateArrivalMinutes    *int
	EarlyDepartureMinutes *int

	ShiftStartTime    string
	ShiftEndTime      string
	ExpectedWorkHours float64

	IsRegularized        bool
	RegularizationReason *string
	RegularizationStatus *RegularizationStatus
	ApprovedBy           *string
	ApprovedAt           *time.Time

	Notes    *string
	Location Location

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Attendance) HasCheckedIn() bool {
	return a.CheckIn != nil
}

func (a *Attendance) HasCheckedOut() bool {
	return a.CheckOut != nil
}
