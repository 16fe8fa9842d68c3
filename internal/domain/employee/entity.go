package employee

import (
	"context"
	"time"
)

// Contract status values for an employee.
const (
	StatusAvailable = "AVAILABLE"
	StatusAssigned  = "ASSIGNED"
	StatusOnLeave   = "ON_LEAVE"
)

// Employee is an active workforce member as read from the platform store.
type Employee struct {
	ID        int64
	Code      string
	FirstName string
	LastName  string
	Email     string
	HireDate  *time.Time
	Status    string
	TeamID    *int64
}

// Skill is one (employee, skill, level) pair. Level runs 1-5.
type Skill struct {
	EmployeeID int64
	SkillID    int64
	Name       string
	Level      int
}

// Repository reads employee records. The store is owned by the surrounding
// HR application; this service only consumes it.
type Repository interface {
	// ListActive returns all active, non-deleted employees.
	ListActive(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id int64) (Employee, error)
	// ListSkills returns every (employee, skill, level) pair, optionally
	// filtered to one employee.
	ListSkills(ctx context.Context, employeeID *int64) ([]Skill, error)
	// CountTeamMembers returns the number of active members in a team.
	CountTeamMembers(ctx context.Context, teamID int64) (int, error)
}
