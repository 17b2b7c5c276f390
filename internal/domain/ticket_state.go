package domain

import "fmt"

// TicketStatus is the primary lifecycle state of a leave ticket.
type TicketStatus string

const (
	StatusPending                   TicketStatus = "pending"
	StatusInProgress                TicketStatus = "in-progress"
	StatusInProgressTLLevel         TicketStatus = "in-progress-tl-level"
	StatusQueryRaisedByHR           TicketStatus = "query-raised-by-hr"
	StatusQueryAnswered             TicketStatus = "query-answered"
	StatusHRRejected                TicketStatus = "hr-rejected"
	StatusTLRejected                TicketStatus = "tl-rejected"
	StatusRejectionAccepted         TicketStatus = "rejection-accepted"
	StatusReRaised                  TicketStatus = "re-raised"
	StatusInProgressTLLevelReRaised TicketStatus = "in-progress-tl-level-re-raised"
	StatusReRaisedApproved          TicketStatus = "re-raised-approved"
	StatusReRaisedRejected          TicketStatus = "re-raised-rejected"
	StatusApproved                  TicketStatus = "approved"
)

// TLStatus is the team-lead review outcome tracked alongside TicketStatus.
type TLStatus string

const (
	TLStatusNone             TLStatus = ""
	TLStatusPending          TLStatus = "pending"
	TLStatusApproved         TLStatus = "approved"
	TLStatusRejected         TLStatus = "tl-rejected"
	TLStatusReRaisedApproved TLStatus = "re-raised-approved"
	TLStatusReRaisedRejected TLStatus = "re-raised-rejected"
)

// AllStatuses lists every primary status in lifecycle order.
var AllStatuses = []TicketStatus{
	StatusPending,
	StatusInProgress,
	StatusQueryRaisedByHR,
	StatusQueryAnswered,
	StatusInProgressTLLevel,
	StatusHRRejected,
	StatusTLRejected,
	StatusRejectionAccepted,
	StatusReRaised,
	StatusInProgressTLLevelReRaised,
	StatusReRaisedApproved,
	StatusReRaisedRejected,
	StatusApproved,
}

// TLRelevantStatuses are the statuses in which a TL status is carried.
var TLRelevantStatuses = []TicketStatus{
	StatusInProgressTLLevel,
	StatusInProgressTLLevelReRaised,
	StatusApproved,
	StatusTLRejected,
	StatusReRaisedApproved,
	StatusReRaisedRejected,
}

// legalPairs enumerates every (status, tl_status) combination a ticket may hold.
var legalPairs = map[TicketStatus][]TLStatus{
	StatusPending:           {TLStatusNone},
	StatusInProgress:        {TLStatusNone},
	StatusQueryRaisedByHR:   {TLStatusNone},
	StatusQueryAnswered:     {TLStatusNone},
	StatusHRRejected:        {TLStatusNone},
	StatusRejectionAccepted: {TLStatusNone},
	StatusReRaised:          {TLStatusNone},
	// tl-rejected under the first-pass TL level only appears on rows written before
	// TL rejection moved the primary status.
	StatusInProgressTLLevel: {TLStatusPending, TLStatusApproved, TLStatusRejected},
	StatusTLRejected:        {TLStatusRejected},
	StatusApproved:          {TLStatusApproved},
	StatusInProgressTLLevelReRaised: {
		TLStatusPending,
		TLStatusRejected,
		TLStatusReRaisedApproved,
		TLStatusReRaisedRejected,
	},
	StatusReRaisedApproved: {TLStatusReRaisedApproved},
	StatusReRaisedRejected: {TLStatusReRaisedRejected},
}

// TicketState is a legal (status, tl_status) pair. The zero value is not a valid state;
// build one with NewTicketState or the State* helpers.
type TicketState struct {
	status TicketStatus
	tl     TLStatus
}

// NewTicketState validates the pair and returns the combined state.
func NewTicketState(status TicketStatus, tl TLStatus) (TicketState, error) {
	allowed, ok := legalPairs[status]
	if !ok {
		return TicketState{}, fmt.Errorf("unknown ticket status %q", status)
	}
	for _, candidate := range allowed {
		if candidate == tl {
			return TicketState{status: status, tl: tl}, nil
		}
	}
	return TicketState{}, fmt.Errorf("tl status %q is not valid while status is %q", tl, status)
}

// MustTicketState panics when the pair is illegal. Intended for package-level tables.
func MustTicketState(status TicketStatus, tl TLStatus) TicketState {
	state, err := NewTicketState(status, tl)
	if err != nil {
		panic(err)
	}
	return state
}

// StateOf builds a state for statuses that never carry a TL status.
func StateOf(status TicketStatus) TicketState {
	return MustTicketState(status, TLStatusNone)
}

// Status returns the primary status.
func (s TicketState) Status() TicketStatus { return s.status }

// TLStatus returns the TL review status, TLStatusNone outside TL-relevant statuses.
func (s TicketState) TLStatus() TLStatus { return s.tl }

// IsZero reports whether the state was never initialised.
func (s TicketState) IsZero() bool { return s.status == "" }

// IsTerminal reports whether no further transition can leave this state.
func (s TicketState) IsTerminal() bool {
	switch s.status {
	case StatusApproved, StatusRejectionAccepted, StatusReRaisedApproved, StatusReRaisedRejected:
		return true
	default:
		return false
	}
}

func (s TicketState) String() string {
	if s.tl == TLStatusNone {
		return string(s.status)
	}
	return fmt.Sprintf("%s[tl=%s]", s.status, s.tl)
}

// LegalTicketStates returns every representable state.
func LegalTicketStates() []TicketState {
	states := make([]TicketState, 0, 20)
	for _, status := range AllStatuses {
		for _, tl := range legalPairs[status] {
			states = append(states, TicketState{status: status, tl: tl})
		}
	}
	return states
}

// IsTLRelevant reports whether status carries a TL status.
func IsTLRelevant(status TicketStatus) bool {
	for _, candidate := range TLRelevantStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}
