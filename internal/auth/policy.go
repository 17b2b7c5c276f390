package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/spec-kit/leave-service/internal/domain"
	"github.com/spec-kit/leave-service/internal/lifecycle"
)

// Policy objects.
const (
	ObjectTicket     = "ticket"
	ObjectBalance    = "balance"
	ObjectEmployee   = "employee"
	ObjectDepartment = "department"
)

// Non-lifecycle actions.
const (
	ActionList    = "list"
	ActionView    = "view"
	ActionViewAny = "view_any"
	ActionManage  = "manage"
	ActionListHR  = "list_hr"
)

const policyModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

var everyone = []domain.Role{domain.RoleEmployee, domain.RoleManager, domain.RoleHR, domain.RoleTeamLead, domain.RoleAdmin}

var readPolicies = []struct {
	roles  []domain.Role
	object string
	action string
}{
	{everyone, ObjectTicket, ActionList},
	{everyone, ObjectTicket, ActionView},
	{everyone, ObjectBalance, ActionView},
	{[]domain.Role{domain.RoleHR, domain.RoleManager, domain.RoleAdmin}, ObjectBalance, ActionViewAny},
	{[]domain.Role{domain.RoleManager, domain.RoleAdmin}, ObjectEmployee, ActionListHR},
	{[]domain.Role{domain.RoleAdmin}, ObjectEmployee, ActionManage},
	{[]domain.Role{domain.RoleAdmin}, ObjectDepartment, ActionManage},
	{[]domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleHR}, ObjectDepartment, ActionList},
}

// Policy is the (role, object, action) guard evaluated before any ticket is loaded. Lifecycle
// rows are loaded from the transition table so the two cannot drift.
type Policy struct {
	enforcer *casbin.Enforcer
}

// NewPolicy builds the in-memory enforcer.
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("parse policy model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("build enforcer: %w", err)
	}

	for _, row := range lifecycle.Table() {
		if _, err := enforcer.AddPolicy(string(row.Role), ObjectTicket, string(row.Action)); err != nil {
			return nil, err
		}
	}
	for _, rule := range readPolicies {
		for _, role := range rule.roles {
			if _, err := enforcer.AddPolicy(string(role), rule.object, rule.action); err != nil {
				return nil, err
			}
		}
	}
	return &Policy{enforcer: enforcer}, nil
}

// MustPolicy panics when the policy cannot be built.
func MustPolicy() *Policy {
	p, err := NewPolicy()
	if err != nil {
		panic(err)
	}
	return p
}

// Allowed reports whether role may perform action on object.
func (p *Policy) Allowed(role domain.Role, object, action string) bool {
	if p == nil || role == "" {
		return false
	}
	ok, err := p.enforcer.Enforce(string(role), object, action)
	return err == nil && ok
}

// CanApply reports whether role may attempt a lifecycle action at all.
func (p *Policy) CanApply(role domain.Role, action lifecycle.Action) bool {
	return p.Allowed(role, ObjectTicket, string(action))
}
