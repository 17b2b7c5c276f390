package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/clock"
	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/lifecycle"
	"github.com/spec-kit/leave-service/internal/observability"
	"github.com/spec-kit/leave-service/internal/repository"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

// TicketService runs every lifecycle action against a leave ticket: role guard, ownership,
// transition lookup, payload rules, then one transaction holding the conditional ticket write,
// the ledger effect and the history entry. Events go out after commit.
type TicketService struct {
	tickets     repository.TicketRepository
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	history     repository.TicketHistoryRepository
	tx          repository.TxManager
	ledger      *LedgerService
	policy      *auth.Policy
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	clock       clock.Clock
	leave       config.LeaveConfig
	logger      *zap.Logger
	tracer      trace.Tracer
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	EmployeeRepo   repository.EmployeeRepository
	DepartmentRepo repository.DepartmentRepository
	HistoryRepo    repository.TicketHistoryRepository
	TxManager      repository.TxManager
	Ledger         *LedgerService
	Policy         *auth.Policy
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Clock          clock.Clock
	Leave          config.LeaveConfig
	Logger         *zap.Logger
}

// TicketInput carries the employee-editable fields of a ticket.
type TicketInput struct {
	LeaveType       domain.LeaveType
	Reason          string
	StartDate       time.Time
	EndDate         time.Time
	EmployeeMessage string
	AttachmentRef   *string
}

// TicketListFilter narrows a role-scoped listing.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	LeaveTypes []domain.LeaveType
	Limit      int
	Offset     int
}

// TicketDetail is a ticket with its approval history.
type TicketDetail struct {
	Ticket  *domain.Ticket
	History []domain.TicketHistory
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := deps.Clock
	if c == nil {
		c = clock.NewSystem()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		employees:   deps.EmployeeRepo,
		departments: deps.DepartmentRepo,
		history:     deps.HistoryRepo,
		tx:          deps.TxManager,
		ledger:      deps.Ledger,
		policy:      deps.Policy,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		clock:       c,
		leave:       deps.Leave,
		logger:      logger.Named("tickets"),
		tracer:      otel.Tracer("github.com/spec-kit/leave-service/internal/service"),
	}
}

// Create submits a new pending ticket for the calling employee.
func (s *TicketService) Create(ctx context.Context, actor *domain.Employee, input TicketInput) (ticket *domain.Ticket, err error) {
	ctx, span := s.startSpan(ctx, actor, lifecycle.ActionCreate, "")
	defer func() { s.finish(span, lifecycle.ActionCreate, err) }()

	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if !s.policy.CanApply(actor.Role, lifecycle.ActionCreate) {
		return nil, apperrors.NewForbidden("role may not create tickets")
	}
	row, err := lifecycle.Next(actor.Role, lifecycle.ActionCreate, domain.TicketState{})
	if err != nil {
		return nil, apperrors.NewInvalidTransition(string(lifecycle.ActionCreate), "", "")
	}
	if err := s.validateInput(input, nil); err != nil {
		return nil, err
	}

	ticket = &domain.Ticket{
		ID:            uuid.NewString(),
		EmployeeID:    actor.ID,
		EmployeeName:  actor.Name,
		EmployeeEmail: actor.Email,
		DepartmentID:  actor.DepartmentID,
		State:         row.To,
	}
	applyInput(ticket, input)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return apperrors.MapError(err)
		}
		if row.Effect == lifecycle.EffectRecordSubmission {
			if err := s.ledger.RecordSubmission(ctx, actor.ID); err != nil {
				return err
			}
		}
		return s.recordHistory(ctx, actor, ticket.ID, lifecycle.ActionCreate, domain.TicketState{}, ticket.State, "")
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketCreatedPayload{
			EmployeeID: ticket.EmployeeID,
			LeaveType:  ticket.LeaveType,
			StartDate:  ticket.StartDate.Format(time.DateOnly),
			EndDate:    ticket.EndDate.Format(time.DateOnly),
		},
	})
	return ticket, nil
}

// Update edits a pending ticket.
func (s *TicketService) Update(ctx context.Context, actor *domain.Employee, ticketID string, input TicketInput) (*domain.Ticket, error) {
	return s.apply(ctx, actor, ticketID, lifecycle.ActionUpdate, "", func(_ context.Context, t *domain.Ticket) error {
		if err := s.validateInput(input, t); err != nil {
			return err
		}
		applyInput(t, input)
		return nil
	})
}

// AnswerQuery replies to an HR query. The employee may revise the ticket fields in the same call.
func (s *TicketService) AnswerQuery(ctx context.Context, actor *domain.Employee, ticketID string, input TicketInput) (*domain.Ticket, error) {
	return s.apply(ctx, actor, ticketID, lifecycle.ActionAnswerQuery, input.EmployeeMessage, func(_ context.Context, t *domain.Ticket) error {
		if err := s.validateInput(input, t); err != nil {
			return err
		}
		applyInput(t, input)
		return nil
	})
}

// Delete removes a pending ticket. Any debit recorded for it is refunded.
func (s *TicketService) Delete(ctx context.Context, actor *domain.Employee, ticketID string) error {
	_, err := s.apply(ctx, actor, ticketID, lifecycle.ActionDelete, "", nil)
	return err
}

// AcceptRejection closes a rejected ticket.
func (s *TicketService) AcceptRejection(ctx context.Context, actor *domain.Employee, ticketID string) (*domain.Ticket, error) {
	return s.apply(ctx, actor, ticketID, lifecycle.ActionAcceptRejection, "", nil)
}

// ReRaise sends a rejected ticket back to HR, optionally with a new message.
func (s *TicketService) ReRaise(ctx context.Context, actor *domain.Employee, ticketID, message string) (*domain.Ticket, error) {
	return s.apply(ctx, actor, ticketID, lifecycle.ActionReRaise, message, func(_ context.Context, t *domain.Ticket) error {
		if msg := strings.TrimSpace(message); msg != "" {
			t.EmployeeMessage = msg
		}
		return nil
	})
}

// Assign hands a pending ticket to an HR employee.
func (s *TicketService) Assign(ctx context.Context, actor *domain.Employee, ticketID, hrEmail string) (*domain.Ticket, error) {
	return s.assign(ctx, actor, ticketID, lifecycle.ActionAssign, hrEmail)
}

// Reassign moves an in-progress ticket to a different HR employee.
func (s *TicketService) Reassign(ctx context.Context, actor *domain.Employee, ticketID, hrEmail string) (*domain.Ticket, error) {
	return s.assign(ctx, actor, ticketID, lifecycle.ActionReassign, hrEmail)
}

func (s *TicketService) assign(ctx context.Context, actor *domain.Employee, ticketID string, action lifecycle.Action, hrEmail string) (*domain.Ticket, error) {
	var previous string
	ticket, err := s.apply(ctx, actor, ticketID, action, "", func(ctx context.Context, t *domain.Ticket) error {
		email := strings.ToLower(strings.TrimSpace(hrEmail))
		if email == "" {
			return apperrors.NewValidationError("hr_email is required", map[string]any{"hr_email": "required"})
		}
		if t.AssignedHREmail != nil {
			previous = *t.AssignedHREmail
		}
		if action == lifecycle.ActionReassign && strings.EqualFold(previous, email) {
			return apperrors.NewValidationError("ticket is already assigned to this HR", map[string]any{"hr_email": email})
		}
		assignee, err := s.employees.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("hr employee", map[string]any{"hr_email": email})
			}
			return apperrors.MapError(err)
		}
		if assignee.Role != domain.RoleHR {
			return apperrors.NewValidationError("assignee is not HR", map[string]any{"hr_email": email})
		}
		t.AssignedHREmail = &assignee.Email
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketAssignedPayload{
			AssignedHREmail: *ticket.AssignedHREmail,
			PreviousHREmail: previous,
		},
	})
	return ticket, nil
}

// HRAction applies one of the HR status actions.
func (s *TicketService) HRAction(ctx context.Context, actor *domain.Employee, ticketID string, action lifecycle.Action, message string) (*domain.Ticket, error) {
	if !lifecycle.IsHRAction(action) {
		return nil, apperrors.NewValidationError("unknown hr action", map[string]any{"action": action})
	}
	return s.apply(ctx, actor, ticketID, action, message, func(ctx context.Context, t *domain.Ticket) error {
		if action == lifecycle.ActionForwardToTL || action == lifecycle.ActionForwardToTLReRaised {
			tl, err := s.teamLeadFor(ctx, t)
			if err != nil {
				return err
			}
			t.AssignedTL = &tl
		}
		if msg := strings.TrimSpace(message); msg != "" {
			t.HRMessage = msg
		}
		return nil
	})
}

// TLAction applies one of the team lead status actions.
func (s *TicketService) TLAction(ctx context.Context, actor *domain.Employee, ticketID string, action lifecycle.Action, message string) (*domain.Ticket, error) {
	if !lifecycle.IsTLAction(action) {
		return nil, apperrors.NewValidationError("unknown team lead action", map[string]any{"action": action})
	}
	return s.apply(ctx, actor, ticketID, action, message, func(_ context.Context, t *domain.Ticket) error {
		if msg := strings.TrimSpace(message); msg != "" {
			t.TLMessage = msg
		}
		return nil
	})
}

// Get returns a ticket visible to actor together with its history.
func (s *TicketService) Get(ctx context.Context, actor *domain.Employee, ticketID string) (*TicketDetail, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if !s.policy.Allowed(actor.Role, auth.ObjectTicket, auth.ActionView) {
		return nil, apperrors.NewForbidden("role may not view tickets")
	}
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanView(actor, ticket, s.departmentLead(ctx, actor, ticket)) {
		return nil, apperrors.NewForbidden("access denied")
	}
	history, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TicketDetail{Ticket: ticket, History: history}, nil
}

// List returns the tickets in actor's scope: own tickets for employees, assigned tickets for
// HR, the TL queue for team leads, the department for managers and everything for admins.
func (s *TicketService) List(ctx context.Context, actor *domain.Employee, filter TicketListFilter) ([]domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if !s.policy.Allowed(actor.Role, auth.ObjectTicket, auth.ActionList) {
		return nil, apperrors.NewForbidden("role may not list tickets")
	}

	repoFilter := repository.TicketFilter{
		Statuses:   filter.Statuses,
		LeaveTypes: filter.LeaveTypes,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	switch actor.Role {
	case domain.RoleEmployee:
		repoFilter.EmployeeID = &actor.ID
	case domain.RoleHR:
		repoFilter.AssignedHREmail = &actor.Email
	case domain.RoleTeamLead:
		repoFilter.AssignedTL = &actor.Email
		repoFilter.Statuses = tlQueueStatuses(filter.Statuses)
		if len(repoFilter.Statuses) == 0 {
			return []domain.Ticket{}, nil
		}
	case domain.RoleManager:
		repoFilter.DepartmentID = actor.DepartmentID
	case domain.RoleAdmin:
	default:
		return nil, apperrors.NewForbidden("unknown role")
	}

	tickets, err := s.tickets.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// mutation applies the action's payload to a copy of the ticket whose State already holds the
// target state. Returned errors abort the action before anything is written.
type mutation func(ctx context.Context, t *domain.Ticket) error

func (s *TicketService) apply(ctx context.Context, actor *domain.Employee, ticketID string, action lifecycle.Action, message string, mutate mutation) (result *domain.Ticket, err error) {
	ctx, span := s.startSpan(ctx, actor, action, ticketID)
	defer func() { s.finish(span, action, err) }()

	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	if !s.policy.CanApply(actor.Role, action) {
		return nil, apperrors.NewForbidden("role may not perform " + string(action))
	}

	current, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.Owns(lifecycle.RequiredOwnership(actor.Role, action), actor, current, s.departmentLead(ctx, actor, current)) {
		return nil, apperrors.NewForbidden("ticket is not in caller's scope")
	}

	row, err := lifecycle.Next(actor.Role, action, current.State)
	if err != nil {
		return nil, invalidTransition(action, current)
	}
	span.SetAttributes(
		attribute.String("ticket.from", current.State.String()),
		attribute.String("ticket.to", row.To.String()),
	)

	if lifecycle.RequiresMessage(action) && strings.TrimSpace(message) == "" {
		return nil, apperrors.NewValidationError("message is required", map[string]any{"message": "required"})
	}

	next := *current
	next.State = row.To
	if mutate != nil {
		if err := mutate(ctx, &next); err != nil {
			return nil, err
		}
	}

	var debited *domain.LeaveBalance
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if row.Effect == lifecycle.EffectRemove {
			if err := s.tickets.Delete(ctx, current.ID, current.Version); err != nil {
				return err
			}
			_, err := s.ledger.Refund(ctx, current.EmployeeID, current.ID, current.LeaveType)
			return err
		}

		if err := s.tickets.Update(ctx, &next, current.Version); err != nil {
			return err
		}
		if row.Effect == lifecycle.EffectDebit {
			balance, err := s.ledger.Debit(ctx, next.EmployeeID, next.ID, next.LeaveType)
			if err != nil {
				return err
			}
			debited = balance
		}
		return s.recordHistory(ctx, actor, next.ID, action, current.State, next.State, message)
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleTicket) {
			return nil, s.staleTicket(ctx, action, current.ID)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishTransition(ctx, actor, action, current, &next, message, debited)
	if row.Effect == lifecycle.EffectRemove {
		return current, nil
	}
	return &next, nil
}

func (s *TicketService) load(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// staleTicket reports a lost write race using the ticket's fresh state.
func (s *TicketService) staleTicket(ctx context.Context, action lifecycle.Action, ticketID string) error {
	fresh, err := s.load(ctx, ticketID)
	if err != nil {
		return err
	}
	s.logger.Info("concurrent ticket update",
		zap.String("ticket_id", ticketID),
		zap.String("action", string(action)),
		zap.String("state", fresh.State.String()))
	return invalidTransition(action, fresh)
}

func invalidTransition(action lifecycle.Action, t *domain.Ticket) error {
	return apperrors.NewInvalidTransition(string(action), string(t.State.Status()), string(t.State.TLStatus()))
}

func (s *TicketService) teamLeadFor(ctx context.Context, t *domain.Ticket) (string, error) {
	if t.DepartmentID == nil {
		return "", apperrors.NewValidationError("employee has no department", map[string]any{"department_id": "missing"})
	}
	dept, err := s.departments.GetByID(ctx, *t.DepartmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewValidationError("department not found", map[string]any{"department_id": *t.DepartmentID})
		}
		return "", apperrors.MapError(err)
	}
	tl := strings.ToLower(strings.TrimSpace(dept.TLEmail))
	if tl == "" {
		return "", apperrors.NewValidationError("department has no team lead", map[string]any{"department_id": dept.ID})
	}
	return tl, nil
}

// departmentLead returns the department TL email when a team lead looks at a ticket that has
// no assigned TL yet. Lookup failures leave the ticket out of scope.
func (s *TicketService) departmentLead(ctx context.Context, actor *domain.Employee, t *domain.Ticket) string {
	if actor == nil || actor.Role != domain.RoleTeamLead || t.AssignedTL != nil || t.DepartmentID == nil {
		return ""
	}
	dept, err := s.departments.GetByID(ctx, *t.DepartmentID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("department lookup failed", zap.String("department_id", *t.DepartmentID), zap.Error(err))
		}
		return ""
	}
	return strings.TrimSpace(dept.TLEmail)
}

// validateInput checks the ticket fields. The planned-leave notice applies to new tickets and
// to edits that move the start date or switch the leave type, so an unchanged ticket can still
// be edited after its notice window has passed.
func (s *TicketService) validateInput(input TicketInput, current *domain.Ticket) error {
	details := map[string]any{}
	if !input.LeaveType.Valid() {
		details["leave_type"] = "must be one of PlannedLeave, SickLeave, EmergencyLeave"
	}
	if strings.TrimSpace(input.Reason) == "" {
		details["reason"] = "required"
	}
	if input.StartDate.IsZero() {
		details["start_date"] = "required"
	}
	if input.EndDate.IsZero() {
		details["end_date"] = "required"
	}
	if !input.StartDate.IsZero() && !input.EndDate.IsZero() && clock.DateOf(input.EndDate).Before(clock.DateOf(input.StartDate)) {
		details["end_date"] = "must not be before start_date"
	}
	if input.LeaveType == domain.LeavePlanned && s.leave.PlannedNoticeDays > 0 && !input.StartDate.IsZero() && reschedules(current, input) {
		earliest := clock.Today(s.clock).AddDate(0, 0, s.leave.PlannedNoticeDays)
		if !clock.DateOf(input.StartDate).After(earliest) {
			details["start_date"] = "planned leave must start more than the notice period from today"
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket", details)
	}
	return nil
}

func reschedules(current *domain.Ticket, input TicketInput) bool {
	if current == nil {
		return true
	}
	return current.LeaveType != input.LeaveType || !clock.DateOf(current.StartDate).Equal(clock.DateOf(input.StartDate))
}

func applyInput(t *domain.Ticket, input TicketInput) {
	t.LeaveType = input.LeaveType
	t.Reason = strings.TrimSpace(input.Reason)
	t.StartDate = clock.DateOf(input.StartDate)
	t.EndDate = clock.DateOf(input.EndDate)
	t.EmployeeMessage = strings.TrimSpace(input.EmployeeMessage)
	t.AttachmentRef = input.AttachmentRef
}

func tlQueueStatuses(requested []domain.TicketStatus) []domain.TicketStatus {
	if len(requested) == 0 {
		return domain.TLRelevantStatuses
	}
	var out []domain.TicketStatus
	for _, status := range requested {
		if domain.IsTLRelevant(status) {
			out = append(out, status)
		}
	}
	return out
}

func (s *TicketService) recordHistory(ctx context.Context, actor *domain.Employee, ticketID string, action lifecycle.Action, from, to domain.TicketState, message string) error {
	if s.history == nil {
		return nil
	}
	entry := &domain.TicketHistory{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Action:    string(action),
		OldValue:  stateValue(from),
		NewValue:  stateValue(to),
	}
	if msg := strings.TrimSpace(message); msg != "" {
		entry.NewValue["message"] = msg
	}
	return apperrors.MapError(s.history.Create(ctx, entry))
}

func stateValue(state domain.TicketState) map[string]any {
	value := map[string]any{}
	if state.IsZero() {
		return value
	}
	value["status"] = string(state.Status())
	if tl := state.TLStatus(); tl != domain.TLStatusNone {
		value["tl_status"] = string(tl)
	}
	return value
}

func (s *TicketService) publishTransition(ctx context.Context, actor *domain.Employee, action lifecycle.Action, before, after *domain.Ticket, message string, debited *domain.LeaveBalance) {
	switch action {
	case lifecycle.ActionAssign, lifecycle.ActionReassign:
		// assign publishes its own event with the previous assignee
		return
	case lifecycle.ActionDelete:
		s.publishEvent(ctx, events.Event{Type: events.EventTicketDeleted, TicketID: before.ID, Actor: actorOf(actor)})
		return
	case lifecycle.ActionUpdate:
		s.publishEvent(ctx, events.Event{Type: events.EventTicketUpdated, TicketID: after.ID, Actor: actorOf(actor)})
		return
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: after.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketStatusChangedPayload{
			Action:      string(action),
			OldStatus:   before.State.Status(),
			OldTLStatus: before.State.TLStatus(),
			NewStatus:   after.State.Status(),
			NewTLStatus: after.State.TLStatus(),
			Message:     strings.TrimSpace(message),
		},
	})
	if debited != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventBalanceDebited,
			TicketID: after.ID,
			Actor:    actorOf(actor),
			Payload: events.BalanceDebitedPayload{
				EmployeeID: after.EmployeeID,
				LeaveType:  after.LeaveType,
				Remaining:  debited.Remaining(after.LeaveType),
			},
		})
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func (s *TicketService) startSpan(ctx context.Context, actor *domain.Employee, action lifecycle.Action, ticketID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("ticket.action", string(action))}
	if ticketID != "" {
		attrs = append(attrs, attribute.String("ticket.id", ticketID))
	}
	if actor != nil {
		attrs = append(attrs, attribute.String("actor.role", string(actor.Role)))
	}
	return s.tracer.Start(ctx, "ticket."+string(action), trace.WithAttributes(attrs...))
}

func (s *TicketService) finish(span trace.Span, action lifecycle.Action, err error) {
	outcome := "ok"
	if err != nil {
		de := apperrors.ToDomainError(err)
		outcome = de.Code
		span.RecordError(err)
		span.SetStatus(codes.Error, de.Code)
		if de.Code == apperrors.CodeInternal {
			s.logger.Error("ticket action failed", zap.String("action", string(action)), zap.Error(err))
		}
	}
	s.metrics.RecordTransition(string(action), outcome)
	span.End()
}

func actorOf(e *domain.Employee) events.Actor {
	return events.Actor{EmployeeID: e.ID, Role: e.Role}
}
