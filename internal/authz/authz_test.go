package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoleIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, RoleUser, ParseRole("user"))
	assert.Equal(t, RoleUser, ParseRole("USER"))
	assert.Equal(t, RoleAdmin, ParseRole(" Admin "))
	assert.Equal(t, RoleNone, ParseRole("moderator"))
	assert.Equal(t, RoleNone, ParseRole(""))
}

func TestUserRolePermissions(t *testing.T) {
	actor := Actor{UserID: 1, Role: RoleUser}
	allowed := map[Permission]bool{
		PostCreate:    true,
		PostUpdate:    true,
		PostDelete:    false,
		CommentCreate: true,
		CommentUpdate: true,
		CommentDelete: false,
		LikeCreate:    true,
		LikeDelete:    true,
	}
	for p, want := range allowed {
		assert.Equal(t, want, IsAuthorized(p, actor), p)
	}
}

func TestAdminHoldsEveryDeclaredPermission(t *testing.T) {
	actor := Actor{UserID: 1, Role: RoleAdmin}
	for _, p := range Permissions() {
		assert.True(t, IsAuthorized(p, actor), p)
	}
}

func TestUnknownPermissionDeniedForEveryone(t *testing.T) {
	bogus := Permission("user:ban")
	for _, r := range []Role{RoleNone, RoleUser, RoleAdmin} {
		assert.False(t, IsAuthorized(bogus, Actor{UserID: 1, Role: r}), r.String())
	}
}

func TestUnknownRoleAuthorizedForNothing(t *testing.T) {
	actor := Actor{UserID: 1, Role: ParseRole("guest")}
	for _, p := range Permissions() {
		assert.False(t, IsAuthorized(p, actor), p)
	}
}

func TestActorContext(t *testing.T) {
	_, ok := ActorFrom(context.Background())
	assert.False(t, ok)

	ctx := WithActor(context.Background(), Actor{UserID: 7, Role: RoleUser})
	actor, ok := ActorFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(7), actor.UserID)
}
