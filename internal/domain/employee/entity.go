package employee

import "time"

// EmploymentStatus enum
type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "active"
	StatusOnLeave    EmploymentStatus = "on_leave"
	StatusTerminated EmploymentStatus = "terminated"
)

// Employee is referenced by the payroll engine by identifier only; it is owned
// and mutated by other workflows.
type Employee struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Status    EmploymentStatus
	HireDate  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
