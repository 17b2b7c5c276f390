package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/leave-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestOwns(t *testing.T) {
	ticket := &domain.Ticket{
		EmployeeID:      "emp-1",
		DepartmentID:    strPtr("dept-a"),
		AssignedHREmail: strPtr("h@x.com"),
		AssignedTL:      strPtr("tl@x.com"),
	}

	cases := []struct {
		name  string
		rule  Ownership
		actor *domain.Employee
		want  bool
	}{
		{"owner", OwnershipOwner, &domain.Employee{ID: "emp-1"}, true},
		{"other employee", OwnershipOwner, &domain.Employee{ID: "emp-2"}, false},
		{"assigned hr case insensitive", OwnershipAssignedHR, &domain.Employee{Email: "H@X.com"}, true},
		{"other hr", OwnershipAssignedHR, &domain.Employee{Email: "other@x.com"}, false},
		{"assigned tl", OwnershipAssignedTL, &domain.Employee{Email: "tl@x.com"}, true},
		{"department manager", OwnershipDepartmentManager, &domain.Employee{DepartmentID: strPtr("dept-a")}, true},
		{"foreign manager", OwnershipDepartmentManager, &domain.Employee{DepartmentID: strPtr("dept-b")}, false},
		{"org-wide manager", OwnershipDepartmentManager, &domain.Employee{}, true},
		{"nil actor", OwnershipOwner, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Owns(tc.rule, tc.actor, ticket, ""))
		})
	}
}

func TestOwnsUnassignedTicket(t *testing.T) {
	ticket := &domain.Ticket{EmployeeID: "emp-1"}
	assert.False(t, Owns(OwnershipAssignedHR, &domain.Employee{Email: "h@x.com"}, ticket, ""))
	assert.False(t, Owns(OwnershipAssignedTL, &domain.Employee{Email: "tl@x.com"}, ticket, ""))
}

func TestOwnsFallsBackToDepartmentLead(t *testing.T) {
	unassigned := &domain.Ticket{EmployeeID: "emp-1", DepartmentID: strPtr("dept-a")}
	lead := &domain.Employee{Email: "TL@x.com", Role: domain.RoleTeamLead}

	assert.True(t, Owns(OwnershipAssignedTL, lead, unassigned, "tl@x.com"))
	assert.False(t, Owns(OwnershipAssignedTL, lead, unassigned, "other@x.com"))
	assert.True(t, CanView(lead, unassigned, "tl@x.com"))

	assigned := &domain.Ticket{EmployeeID: "emp-1", AssignedTL: strPtr("next@x.com")}
	assert.False(t, Owns(OwnershipAssignedTL, lead, assigned, "tl@x.com"), "assigned_tl wins once set")
}

func TestRequiredOwnership(t *testing.T) {
	assert.Equal(t, OwnershipNone, RequiredOwnership(domain.RoleEmployee, ActionCreate))
	assert.Equal(t, OwnershipOwner, RequiredOwnership(domain.RoleEmployee, ActionReRaise))
	assert.Equal(t, OwnershipAssignedHR, RequiredOwnership(domain.RoleHR, ActionAskQuery))
	assert.Equal(t, OwnershipAssignedTL, RequiredOwnership(domain.RoleTeamLead, ActionTLApprove))
	assert.Equal(t, OwnershipDepartmentManager, RequiredOwnership(domain.RoleManager, ActionAssign))
}

func TestCanView(t *testing.T) {
	ticket := &domain.Ticket{EmployeeID: "emp-1"}
	assert.True(t, CanView(&domain.Employee{Role: domain.RoleAdmin}, ticket, ""))
	assert.True(t, CanView(&domain.Employee{ID: "emp-1", Role: domain.RoleEmployee}, ticket, ""))
	assert.False(t, CanView(&domain.Employee{ID: "emp-2", Role: domain.RoleEmployee}, ticket, ""))
	assert.False(t, CanView(&domain.Employee{Email: "h@x.com", Role: domain.RoleHR}, ticket, ""))
}
