package policies

import (
	"fmt"

	"github.com/PauloHFS/blog/internal/db"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Decision é o resultado da guarda de mutação de um post.
type Decision int

const (
	Allow Decision = iota
	Forbidden
	AuthRequired
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Forbidden:
		return "forbidden"
	case AuthRequired:
		return "auth_required"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Modelo ABAC sem políticas: somente o autor pode alterar ou remover o post.
const postModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub.ID == r.obj.UserID && (r.act == "update" || r.act == "delete")
`

const (
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var enforcer = mustEnforcer()

func mustEnforcer() *casbin.SyncedEnforcer {
	m, err := model.NewModelFromString(postModel)
	if err != nil {
		panic(fmt.Sprintf("policies: invalid post model: %v", err))
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		panic(fmt.Sprintf("policies: failed to build enforcer: %v", err))
	}
	return e
}

// Authorize decide se actor pode executar action sobre post.
// actor nil significa requisição não autenticada.
func Authorize(actor *db.User, post db.Post, action string) Decision {
	if actor == nil {
		return AuthRequired
	}
	ok, err := enforcer.Enforce(*actor, post, action)
	if err != nil || !ok {
		return Forbidden
	}
	return Allow
}

// IsOwner diz se o ator é o autor do post. As páginas usam para decidir se mostram os links de edição.
func IsOwner(actor *db.User, post db.Post) bool {
	return Authorize(actor, post, ActionUpdate) == Allow
}
