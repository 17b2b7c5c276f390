package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/dto"
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/service"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

const maxPageSize = 200

func currentEmployee(c *fiber.Ctx) (*domain.Employee, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	return principal.Employee, nil
}

// parseBody decodes the JSON body into req and runs its validate tags.
func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}

// parseOptionalBody is parseBody for endpoints whose body may be omitted.
func parseOptionalBody(c *fiber.Ctx, req any) error {
	if len(c.Body()) == 0 {
		return dto.Validate(req)
	}
	return parseBody(c, req)
}

func parseTicketFilter(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{}
	for _, part := range splitQuery(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.TicketStatus(part))
	}
	for _, part := range splitQuery(c.Query("leave_type")) {
		lt := domain.LeaveType(part)
		if !lt.Valid() {
			return filter, apperrors.NewValidationError("invalid leave_type", map[string]any{"leave_type": part})
		}
		filter.LeaveTypes = append(filter.LeaveTypes, lt)
	}
	var err error
	if filter.Limit, filter.Offset, err = parsePage(c); err != nil {
		return filter, err
	}
	return filter, nil
}

func parsePage(c *fiber.Ctx) (limit, offset int, err error) {
	if limit, err = parseNonNegative(c, "limit"); err != nil {
		return 0, 0, err
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset, err = parseNonNegative(c, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func parseNonNegative(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.NewValidationError("invalid "+key, map[string]any{key: raw})
	}
	return n, nil
}

func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	var parts []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func ticketInput(req dto.TicketRequest) (service.TicketInput, error) {
	start, err := time.Parse(dto.DateLayout, req.StartDate)
	if err != nil {
		return service.TicketInput{}, apperrors.NewValidationError("invalid start_date", map[string]any{"start_date": req.StartDate})
	}
	end, err := time.Parse(dto.DateLayout, req.EndDate)
	if err != nil {
		return service.TicketInput{}, apperrors.NewValidationError("invalid end_date", map[string]any{"end_date": req.EndDate})
	}
	return service.TicketInput{
		LeaveType:       domain.LeaveType(req.LeaveType),
		Reason:          req.Reason,
		StartDate:       start,
		EndDate:         end,
		EmployeeMessage: req.EmployeeMessage,
		AttachmentRef:   req.AttachmentRef,
	}, nil
}
