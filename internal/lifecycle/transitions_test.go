package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
)

func TestNext(t *testing.T) {
	cases := []struct {
		name   string
		role   domain.Role
		action Action
		from   domain.TicketState
		want   domain.TicketState
		effect Effect
		err    error
	}{
		{"employee updates pending", domain.RoleEmployee, ActionUpdate, pending, pending, EffectNone, nil},
		{"employee deletes pending", domain.RoleEmployee, ActionDelete, pending, pending, EffectRemove, nil},
		{"employee cannot delete in progress", domain.RoleEmployee, ActionDelete, inProgress, domain.TicketState{}, EffectNone, ErrInvalidTransition},
		{"manager assigns", domain.RoleManager, ActionAssign, pending, inProgress, EffectNone, nil},
		{"manager cannot assign twice", domain.RoleManager, ActionAssign, inProgress, domain.TicketState{}, EffectNone, ErrInvalidTransition},
		{"manager reassigns", domain.RoleManager, ActionReassign, inProgress, inProgress, EffectNone, nil},
		{"hr forwards after answer", domain.RoleHR, ActionForwardToTL, queryAnswered, tlLevelPending, EffectNone, nil},
		{"tl approves", domain.RoleTeamLead, ActionTLApprove, tlLevelPending, tlLevelApproved, EffectNone, nil},
		{"tl rejects", domain.RoleTeamLead, ActionTLReject, tlLevelPending, tlRejected, EffectNone, nil},
		{"tl cannot approve twice", domain.RoleTeamLead, ActionTLApprove, tlLevelApproved, domain.TicketState{}, EffectNone, ErrInvalidTransition},
		{"hr closes approval", domain.RoleHR, ActionForwardToEmployee, tlLevelApproved, approved, EffectDebit, nil},
		{"hr closes legacy tl rejection", domain.RoleHR, ActionForwardToEmployee, tlLevelRejected, tlRejected, EffectNone, nil},
		{"hr cannot close pending tl review", domain.RoleHR, ActionForwardToEmployee, tlLevelPending, domain.TicketState{}, EffectNone, ErrInvalidTransition},
		{"re-raise from tl rejection", domain.RoleEmployee, ActionReRaise, tlRejected, reRaised, EffectNone, nil},
		{"tl approves re-raise after earlier rejection", domain.RoleTeamLead, ActionReRaiseApprove, reRaisedTLRejected, reRaisedTLApproved, EffectNone, nil},
		{"hr closes re-raised approval", domain.RoleHR, ActionForwardToEmployee, reRaisedTLApproved, reRaisedApproved, EffectDebit, nil},
		{"hr closes re-raised rejection", domain.RoleHR, ActionForwardToEmployee, reRaisedTLDeclined, reRaisedRejected, EffectNone, nil},
		{"approved is terminal", domain.RoleHR, ActionForwardToEmployee, approved, domain.TicketState{}, EffectNone, ErrInvalidTransition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Next(tc.role, tc.action, tc.from)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.To)
			assert.Equal(t, tc.effect, got.Effect)
		})
	}
}

func TestTableRowsUseLegalStates(t *testing.T) {
	for _, row := range Table() {
		assert.False(t, row.To.IsZero(), "row %s/%s has no target", row.Role, row.Action)
		if row.Action == ActionCreate {
			continue
		}
		_, err := domain.NewTicketState(row.From.Status(), row.From.TLStatus())
		assert.NoError(t, err)
		assert.False(t, row.From.IsTerminal(), "terminal state %s has an outgoing row", row.From)
	}
}

func TestUnlistedCombinationsAreRejected(t *testing.T) {
	listed := make(map[Transition]bool)
	for _, row := range Table() {
		listed[Transition{Role: row.Role, Action: row.Action, From: row.From}] = true
	}

	for _, role := range domain.Roles {
		for _, action := range Actions() {
			for _, state := range domain.LegalTicketStates() {
				_, err := Next(role, action, state)
				key := Transition{Role: role, Action: action, From: state}
				if listed[key] {
					assert.NoError(t, err)
					continue
				}
				assert.True(t, errors.Is(err, ErrInvalidTransition), "%s %s from %s should be rejected", role, action, state)
			}
		}
	}
}

func TestApprovedOnlyReachableFromTLApproval(t *testing.T) {
	for _, row := range Table() {
		if row.To.Status() != domain.StatusApproved {
			continue
		}
		assert.Equal(t, tlLevelApproved, row.From)
		assert.Equal(t, ActionForwardToEmployee, row.Action)
	}
	_, err := Next(domain.RoleHR, ActionForwardToEmployee, pending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDebitOnlyOnApprovalOutcomes(t *testing.T) {
	for _, row := range Table() {
		if row.Effect != EffectDebit {
			continue
		}
		status := row.To.Status()
		assert.True(t, status == domain.StatusApproved || status == domain.StatusReRaisedApproved)
	}
}

func TestRoleCan(t *testing.T) {
	assert.True(t, RoleCan(domain.RoleHR, ActionForwardToEmployee))
	assert.False(t, RoleCan(domain.RoleEmployee, ActionForwardToEmployee))
	assert.False(t, RoleCan(domain.RoleAdmin, ActionCreate))
	assert.True(t, IsHRAction(ActionAskQuery))
	assert.True(t, IsTLAction(ActionReRaiseReject))
	assert.False(t, IsTLAction(ActionAskQuery))
}
