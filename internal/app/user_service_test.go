package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedgraph/internal/pkg/jwtutil"
)

func TestCreateUserRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice")
	assert.Equal(t, "user", alice.Role)
	assert.NotEqual(t, "password123", alice.PasswordHash)

	_, err := f.users.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, err = f.users.CreateUser(ctx, CreateUserInput{Username: "other", Email: "ALICE@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestCreateUserValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, CreateUserInput{Username: "bob", Email: "not-an-email", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.users.CreateUser(ctx, CreateUserInput{Username: "bob", Email: "bob@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice")

	result, err := f.users.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, result.User.ID)

	claims, err := jwtutil.ParseToken(testSecret, result.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)

	_, err = f.users.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	_, err = f.users.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLogoutRevokesCurrentToken(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")

	assert.ErrorIs(t, f.users.Logout(context.Background()), ErrUnauthenticated)

	result, err := f.users.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	claims, err := jwtutil.ParseToken(testSecret, result.Token)
	require.NoError(t, err)

	ctx := jwtutil.WithClaims(asUser(alice), claims)
	require.NoError(t, f.users.Logout(ctx))
	assert.Contains(t, f.revoker.revoked, claims.ID)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")
	f.createUser(t, "bob")

	bio := "writes go"
	updated, err := f.users.UpdateProfile(asUser(alice), UpdateProfileInput{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, updated.Bio)
	assert.Equal(t, "writes go", *updated.Bio)
	assert.Equal(t, "alice", updated.Username)

	taken := "bob"
	_, err = f.users.UpdateProfile(asUser(alice), UpdateProfileInput{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameExists)

	same := "alice"
	_, err = f.users.UpdateProfile(asUser(alice), UpdateProfileInput{Username: &same})
	assert.NoError(t, err)

	_, err = f.users.UpdateProfile(context.Background(), UpdateProfileInput{Bio: &bio})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPasswordIsHashedAsSent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.CreateUser(ctx, CreateUserInput{Username: "bob", Email: "bob@example.com", Password: "  short  "})
	require.NoError(t, err)

	_, err = f.users.Login(ctx, LoginInput{Email: "bob@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, err = f.users.Login(ctx, LoginInput{Email: "bob@example.com", Password: "  short"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	result, err := f.users.Login(ctx, LoginInput{Email: "bob@example.com", Password: "  short  "})
	require.NoError(t, err)
	assert.Equal(t, "bob", result.User.Username)

	_, err = f.users.CreateUser(ctx, CreateUserInput{Username: "carol", Email: "carol@example.com", Password: "  abc  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.users.CreateUser(ctx, CreateUserInput{Username: "dave", Email: "dave@example.com", Password: strings.Repeat("x", 73)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
