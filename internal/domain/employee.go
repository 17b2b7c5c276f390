package domain

import "time"

// Role enumerates the actors of the leave workflow.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
	RoleHR       Role = "HR"
	RoleTeamLead Role = "Team Lead"
	RoleAdmin    Role = "Admin"
)

// Roles lists every known role.
var Roles = []Role{RoleEmployee, RoleManager, RoleHR, RoleTeamLead, RoleAdmin}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, candidate := range Roles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Gender selects the leave policy applied to an employee.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Employee is any person who can sign in, including HR, managers and team leads.
type Employee struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Gender       Gender
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
