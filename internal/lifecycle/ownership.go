package lifecycle

import (
	"strings"

	"github.com/spec-kit/leave-service/internal/domain"
)

// Ownership names the relation an actor must have with a ticket to act on it.
type Ownership int

const (
	OwnershipNone Ownership = iota
	OwnershipOwner
	OwnershipAssignedHR
	OwnershipAssignedTL
	OwnershipDepartmentManager
)

var ownershipByRole = map[domain.Role]Ownership{
	domain.RoleEmployee: OwnershipOwner,
	domain.RoleHR:       OwnershipAssignedHR,
	domain.RoleTeamLead: OwnershipAssignedTL,
	domain.RoleManager:  OwnershipDepartmentManager,
}

// RequiredOwnership returns the relation role must hold to apply action.
// Creation has no existing ticket to own.
func RequiredOwnership(role domain.Role, action Action) Ownership {
	if action == ActionCreate {
		return OwnershipNone
	}
	return ownershipByRole[role]
}

// Owns reports whether actor satisfies rule for ticket. departmentTL is the team lead email of
// the ticket's department; it stands in for assigned_tl until a TL has been assigned.
func Owns(rule Ownership, actor *domain.Employee, ticket *domain.Ticket, departmentTL string) bool {
	if actor == nil || ticket == nil {
		return false
	}
	switch rule {
	case OwnershipNone:
		return true
	case OwnershipOwner:
		return ticket.EmployeeID == actor.ID
	case OwnershipAssignedHR:
		return sameEmail(ticket.AssignedHREmail, actor.Email)
	case OwnershipAssignedTL:
		if ticket.AssignedTL == nil {
			return departmentTL != "" && sameEmail(&departmentTL, actor.Email)
		}
		return sameEmail(ticket.AssignedTL, actor.Email)
	case OwnershipDepartmentManager:
		// Managers without a department oversee the whole organisation.
		if actor.DepartmentID == nil {
			return true
		}
		return ticket.DepartmentID != nil && *ticket.DepartmentID == *actor.DepartmentID
	default:
		return false
	}
}

// CanView reports whether actor may read ticket.
func CanView(actor *domain.Employee, ticket *domain.Ticket, departmentTL string) bool {
	if actor == nil {
		return false
	}
	if actor.Role == domain.RoleAdmin {
		return true
	}
	return Owns(ownershipByRole[actor.Role], actor, ticket, departmentTL)
}

func sameEmail(assigned *string, email string) bool {
	return assigned != nil && email != "" && strings.EqualFold(*assigned, email)
}
