package app

import (
	"context"

	"feedgraph/internal/authz"
)

func requireActor(ctx context.Context) (authz.Actor, error) {
	actor, ok := authz.ActorFrom(ctx)
	if !ok {
		return authz.Actor{}, ErrUnauthenticated
	}
	return actor, nil
}

// authorize resolves the actor and checks p before any write is attempted.
func authorize(ctx context.Context, p authz.Permission) (authz.Actor, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return actor, err
	}
	if !authz.IsAuthorized(p, actor) {
		return actor, ErrForbidden
	}
	return actor, nil
}

// ownerOrAdmin is the ownership rule for edits: authors may change their own
// content, admins may change anything.
func ownerOrAdmin(actor authz.Actor, ownerID uint) error {
	if actor.Role == authz.RoleAdmin || actor.UserID == ownerID {
		return nil
	}
	return ErrForbidden
}
