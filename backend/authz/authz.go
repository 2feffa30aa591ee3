// Package authz maps account roles to capabilities with a casbin RBAC model.
package authz

import (
	"fmt"

	"esiksha/backend/models"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
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

// Capability is an (object, action) pair checked against the role policy.
type Capability struct {
	Object string
	Action string
}

func (c Capability) String() string {
	return c.Object + ":" + c.Action
}

var (
	SubmitContent   = Capability{"content", "submit"}
	PublishContent  = Capability{"content", "publish"}
	ModerateContent = Capability{"content", "moderate"}
	EnrollCourse    = Capability{"course", "enroll"}
	WriteReview     = Capability{"review", "write"}
	EditProfile     = Capability{"profile", "edit"}
	ViewStats       = Capability{"platform", "stats"}
	ManageUsers     = Capability{"users", "manage"}
)

var policies = [][]string{
	{string(models.RoleStudent), SubmitContent.Object, SubmitContent.Action},
	{string(models.RoleStudent), EnrollCourse.Object, EnrollCourse.Action},
	{string(models.RoleStudent), WriteReview.Object, WriteReview.Action},
	{string(models.RoleStudent), EditProfile.Object, EditProfile.Action},
	{string(models.RoleAdmin), PublishContent.Object, PublishContent.Action},
	{string(models.RoleAdmin), ModerateContent.Object, ModerateContent.Action},
	{string(models.RoleAdmin), ViewStats.Object, ViewStats.Action},
	{string(models.RoleAdmin), ManageUsers.Object, ManageUsers.Action},
}

// admin inherits instructor, instructor inherits student
var inheritance = [][]string{
	{string(models.RoleInstructor), string(models.RoleStudent)},
	{string(models.RoleAdmin), string(models.RoleInstructor)},
}

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}
	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	for _, g := range inheritance {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, fmt.Errorf("add role inheritance %v: %w", g, err)
		}
	}
	return &Enforcer{enforcer: e}, nil
}

// MustNewEnforcer panics if the built-in policy cannot be loaded.
func MustNewEnforcer() *Enforcer {
	e, err := NewEnforcer()
	if err != nil {
		panic(err)
	}
	return e
}

// Can reports whether role holds the capability. Unknown roles hold nothing.
func (e *Enforcer) Can(role models.Role, c Capability) bool {
	if !role.Valid() {
		return false
	}
	ok, err := e.enforcer.Enforce(string(role), c.Object, c.Action)
	return err == nil && ok
}
