package service

import (
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/domain"
	apperrors "github.com/spec-kit/leave-service/pkg/util"
)

func authorize(policy *auth.Policy, actor *domain.Employee, object, action string) error {
	if actor == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if !policy.Allowed(actor.Role, object, action) {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}
