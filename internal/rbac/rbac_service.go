package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/anjal-tejani/dayflow-hr-hub/internal/authz"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// The two roles and their grants are fixed, so policies live in code instead
// of a policy table. Admin inherits everything an employee may do.
var rolePolicies = [][]string{
	{authz.RoleEmployee, "profile", "read"},
	{authz.RoleEmployee, "profile", "update_self"},
	{authz.RoleEmployee, "leave", "read"},
	{authz.RoleEmployee, "leave", "create"},
	{authz.RoleEmployee, "attendance", "read"},
	{authz.RoleEmployee, "attendance", "write"},
	{authz.RoleEmployee, "payroll", "read"},
	{authz.RoleAdmin, "profile", "manage"},
	{authz.RoleAdmin, "leave", "review"},
	{authz.RoleAdmin, "payroll", "write"},
}

var roleInheritance = [][]string{
	{authz.RoleAdmin, authz.RoleEmployee},
}

type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range rolePolicies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range roleInheritance {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}
