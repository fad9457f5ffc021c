package employee

// EmploymentStatus is the roster state kept by the employee directory.
// Only active employees are expected to attend.
type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
