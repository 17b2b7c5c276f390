// Package lifecycle holds the leave ticket state machine: which role may apply which action
// from which state, and what the action produces.
package lifecycle

import (
	"errors"

	"github.com/spec-kit/leave-service/internal/domain"
)

// Action names a lifecycle operation. HR and TL action values match the payload keys used by
// the dashboards.
type Action string

const (
	ActionCreate          Action = "create"
	ActionUpdate          Action = "update"
	ActionDelete          Action = "delete"
	ActionAnswerQuery     Action = "answer_query"
	ActionAcceptRejection Action = "accept_rejection"
	ActionReRaise         Action = "re_raise"

	ActionAssign   Action = "assign"
	ActionReassign Action = "reassign"

	ActionForwardToTL         Action = "forward_ticket_tl"
	ActionAskQuery            Action = "ask_query"
	ActionHRReject            Action = "hr_reject"
	ActionForwardToTLReRaised Action = "forward_ticket_tl_raised"
	ActionForwardToEmployee   Action = "forward_ticket_emp"

	ActionTLApprove      Action = "ticket_approval"
	ActionTLReject       Action = "ticket_reject"
	ActionReRaiseApprove Action = "reraise_approve"
	ActionReRaiseReject  Action = "reraise_reject"
)

// HRActions are the status actions accepted from HR.
var HRActions = []Action{
	ActionForwardToTL,
	ActionAskQuery,
	ActionHRReject,
	ActionForwardToTLReRaised,
	ActionForwardToEmployee,
}

// TLActions are the status actions accepted from a team lead.
var TLActions = []Action{
	ActionTLApprove,
	ActionTLReject,
	ActionReRaiseApprove,
	ActionReRaiseReject,
}

// Effect is the side effect a transition has beyond the state change.
type Effect int

const (
	EffectNone Effect = iota
	// EffectRecordSubmission counts a new ticket against the employee's submissions.
	EffectRecordSubmission
	// EffectDebit finalizes an approval against the leave balance.
	EffectDebit
	// EffectRemove hard-deletes the ticket and returns any debit taken for it.
	EffectRemove
)

// Transition is one row of the lifecycle table.
type Transition struct {
	Role   domain.Role
	Action Action
	From   domain.TicketState
	To     domain.TicketState
	Effect Effect
}

// ErrInvalidTransition is returned when no row matches the role, action and current state.
var ErrInvalidTransition = errors.New("invalid transition")

var (
	pending            = domain.StateOf(domain.StatusPending)
	inProgress         = domain.StateOf(domain.StatusInProgress)
	queryRaised        = domain.StateOf(domain.StatusQueryRaisedByHR)
	queryAnswered      = domain.StateOf(domain.StatusQueryAnswered)
	hrRejected         = domain.StateOf(domain.StatusHRRejected)
	rejectionAccepted  = domain.StateOf(domain.StatusRejectionAccepted)
	reRaised           = domain.StateOf(domain.StatusReRaised)
	tlLevelPending     = domain.MustTicketState(domain.StatusInProgressTLLevel, domain.TLStatusPending)
	tlLevelApproved    = domain.MustTicketState(domain.StatusInProgressTLLevel, domain.TLStatusApproved)
	tlLevelRejected    = domain.MustTicketState(domain.StatusInProgressTLLevel, domain.TLStatusRejected)
	tlRejected         = domain.MustTicketState(domain.StatusTLRejected, domain.TLStatusRejected)
	approved           = domain.MustTicketState(domain.StatusApproved, domain.TLStatusApproved)
	reRaisedTLPending  = domain.MustTicketState(domain.StatusInProgressTLLevelReRaised, domain.TLStatusPending)
	reRaisedTLRejected = domain.MustTicketState(domain.StatusInProgressTLLevelReRaised, domain.TLStatusRejected)
	reRaisedTLApproved = domain.MustTicketState(domain.StatusInProgressTLLevelReRaised, domain.TLStatusReRaisedApproved)
	reRaisedTLDeclined = domain.MustTicketState(domain.StatusInProgressTLLevelReRaised, domain.TLStatusReRaisedRejected)
	reRaisedApproved   = domain.MustTicketState(domain.StatusReRaisedApproved, domain.TLStatusReRaisedApproved)
	reRaisedRejected   = domain.MustTicketState(domain.StatusReRaisedRejected, domain.TLStatusReRaisedRejected)
)

var table = []Transition{
	{Role: domain.RoleEmployee, Action: ActionCreate, From: domain.TicketState{}, To: pending, Effect: EffectRecordSubmission},
	{Role: domain.RoleEmployee, Action: ActionUpdate, From: pending, To: pending},
	{Role: domain.RoleEmployee, Action: ActionDelete, From: pending, To: pending, Effect: EffectRemove},

	{Role: domain.RoleManager, Action: ActionAssign, From: pending, To: inProgress},
	{Role: domain.RoleManager, Action: ActionReassign, From: inProgress, To: inProgress},

	{Role: domain.RoleHR, Action: ActionForwardToTL, From: inProgress, To: tlLevelPending},
	{Role: domain.RoleHR, Action: ActionForwardToTL, From: queryAnswered, To: tlLevelPending},
	{Role: domain.RoleHR, Action: ActionAskQuery, From: inProgress, To: queryRaised},
	{Role: domain.RoleHR, Action: ActionAskQuery, From: queryAnswered, To: queryRaised},
	{Role: domain.RoleHR, Action: ActionHRReject, From: inProgress, To: hrRejected},
	{Role: domain.RoleHR, Action: ActionHRReject, From: queryAnswered, To: hrRejected},

	{Role: domain.RoleEmployee, Action: ActionAnswerQuery, From: queryRaised, To: queryAnswered},

	{Role: domain.RoleTeamLead, Action: ActionTLApprove, From: tlLevelPending, To: tlLevelApproved},
	{Role: domain.RoleTeamLead, Action: ActionTLReject, From: tlLevelPending, To: tlRejected},

	{Role: domain.RoleHR, Action: ActionForwardToEmployee, From: tlLevelApproved, To: approved, Effect: EffectDebit},
	{Role: domain.RoleHR, Action: ActionForwardToEmployee, From: tlLevelRejected, To: tlRejected},

	{Role: domain.RoleEmployee, Action: ActionAcceptRejection, From: hrRejected, To: rejectionAccepted},
	{Role: domain.RoleEmployee, Action: ActionAcceptRejection, From: tlRejected, To: rejectionAccepted},
	{Role: domain.RoleEmployee, Action: ActionReRaise, From: hrRejected, To: reRaised},
	{Role: domain.RoleEmployee, Action: ActionReRaise, From: tlRejected, To: reRaised},

	{Role: domain.RoleHR, Action: ActionForwardToTLReRaised, From: reRaised, To: reRaisedTLPending},

	{Role: domain.RoleTeamLead, Action: ActionReRaiseApprove, From: reRaisedTLPending, To: reRaisedTLApproved},
	{Role: domain.RoleTeamLead, Action: ActionReRaiseApprove, From: reRaisedTLRejected, To: reRaisedTLApproved},
	{Role: domain.RoleTeamLead, Action: ActionReRaiseReject, From: reRaisedTLPending, To: reRaisedTLDeclined},
	{Role: domain.RoleTeamLead, Action: ActionReRaiseReject, From: reRaisedTLRejected, To: reRaisedTLDeclined},

	{Role: domain.RoleHR, Action: ActionForwardToEmployee, From: reRaisedTLApproved, To: reRaisedApproved, Effect: EffectDebit},
	{Role: domain.RoleHR, Action: ActionForwardToEmployee, From: reRaisedTLDeclined, To: reRaisedRejected},
}

// Next returns the transition for role applying action to a ticket in state from.
func Next(role domain.Role, action Action, from domain.TicketState) (Transition, error) {
	for _, row := range table {
		if row.Role == role && row.Action == action && row.From == from {
			return row, nil
		}
	}
	return Transition{}, ErrInvalidTransition
}

// Table returns a copy of every transition row.
func Table() []Transition {
	rows := make([]Transition, len(table))
	copy(rows, table)
	return rows
}

// Actions returns every distinct action, in table order.
func Actions() []Action {
	seen := make(map[Action]struct{}, len(table))
	actions := make([]Action, 0, len(table))
	for _, row := range table {
		if _, ok := seen[row.Action]; ok {
			continue
		}
		seen[row.Action] = struct{}{}
		actions = append(actions, row.Action)
	}
	return actions
}

// RoleCan reports whether role appears in any row for action.
func RoleCan(role domain.Role, action Action) bool {
	for _, row := range table {
		if row.Role == role && row.Action == action {
			return true
		}
	}
	return false
}

// IsHRAction reports whether a is an HR status action.
func IsHRAction(a Action) bool {
	return containsAction(HRActions, a)
}

// IsTLAction reports whether a is a TL status action.
func IsTLAction(a Action) bool {
	return containsAction(TLActions, a)
}

// RequiresMessage reports whether the action must carry a non-empty message.
func RequiresMessage(a Action) bool {
	switch a {
	case ActionAskQuery, ActionHRReject, ActionTLReject, ActionReRaiseReject:
		return true
	default:
		return false
	}
}

func containsAction(list []Action, a Action) bool {
	for _, candidate := range list {
		if candidate == a {
			return true
		}
	}
	return false
}
