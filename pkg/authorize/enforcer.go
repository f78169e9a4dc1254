package authorize

import (
	"fmt"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// defaultModel is the RBAC-with-domains model used when no model file
// path is configured. Policies are seeded at startup and live in
// memory; the relational store stays the source of truth for role
// assignments.
const defaultModel = `
[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act, eft

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = g(r.sub, p.sub, r.dom) && (r.dom == p.dom || p.dom == "*") && (r.obj == p.obj || p.obj == "*") && (r.act == p.act || p.act == "*")
`

// NewEnforcer creates a Casbin enforcer. With a model path it loads the
// model from file, otherwise it uses the embedded default model.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	var (
		e   *casbin.Enforcer
		err error
	)

	if modelPath != "" {
		e, err = casbin.NewEnforcer(modelPath)
	} else {
		var m model.Model
		m, err = model.NewModelFromString(defaultModel)
		if err != nil {
			return nil, fmt.Errorf("parse casbin model: %w", err)
		}
		e, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	e.EnableEnforce(true)
	return e, nil
}
