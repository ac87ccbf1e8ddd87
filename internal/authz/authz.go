// Package authz maps roles to permissions. IsAuthorized is pure: it does no
// I/O and consults only the static role table.
package authz

import (
	"context"
	"strings"
)

type Permission string

const (
	PostCreate    Permission = "post:create"
	PostUpdate    Permission = "post:update"
	PostDelete    Permission = "post:delete"
	CommentCreate Permission = "comment:create"
	CommentUpdate Permission = "comment:update"
	CommentDelete Permission = "comment:delete"
	LikeCreate    Permission = "like:create"
	LikeDelete    Permission = "like:delete"
)

var permissions = []Permission{
	PostCreate, PostUpdate, PostDelete,
	CommentCreate, CommentUpdate, CommentDelete,
	LikeCreate, LikeDelete,
}

// Permissions returns the declared permission universe.
func Permissions() []Permission {
	return append([]Permission(nil), permissions...)
}

// Valid reports whether p belongs to the declared universe.
func (p Permission) Valid() bool {
	for _, known := range permissions {
		if p == known {
			return true
		}
	}
	return false
}

type Role uint8

const (
	RoleNone Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return "none"
	}
}

// ParseRole matches name case-insensitively. Unknown names map to RoleNone,
// which is authorized for nothing.
func ParseRole(name string) Role {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "user":
		return RoleUser
	case "admin":
		return RoleAdmin
	default:
		return RoleNone
	}
}

var rolePermissions = map[Role]map[Permission]struct{}{
	RoleUser: {
		PostCreate:    {},
		PostUpdate:    {},
		CommentCreate: {},
		CommentUpdate: {},
		LikeCreate:    {},
		LikeDelete:    {},
	},
}

// Actor is the decoded identity of the caller.
type Actor struct {
	UserID uint
	Role   Role
}

// IsAuthorized reports whether actor may perform p. Admins hold every
// declared permission; a permission outside the universe is denied to all.
func IsAuthorized(p Permission, actor Actor) bool {
	if !p.Valid() {
		return false
	}
	if actor.Role == RoleAdmin {
		return true
	}
	_, ok := rolePermissions[actor.Role][p]
	return ok
}

type ctxKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// ActorFrom returns the request's actor, if the identity boundary resolved one.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ctxKey{}).(Actor)
	if !ok || actor.UserID == 0 {
		return Actor{}, false
	}
	return actor, true
}
