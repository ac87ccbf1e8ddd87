package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"feedgraph/internal/authz"
	"feedgraph/internal/model"
	"feedgraph/internal/pkg/jwtutil"
	"feedgraph/internal/repository"
)

var validate = validator.New()

// TokenRevoker denies a token ID until the token would have expired anyway.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

type UserService struct {
	userRepo      *repository.UserRepository
	revoker       TokenRevoker
	jwtSecret     string
	jwtExpiration time.Duration
	bcryptCost    int
}

type CreateUserInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName *string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Username    *string
	Email       *string
	DisplayName *string
	AvatarURL   *string
	Bio         *string
}

type AuthResult struct {
	Token string
	User  *model.User
}

// NewUserService wires the user operations. revoker may be nil, in which case
// Logout reports ErrLogoutUnavailable.
func NewUserService(userRepo *repository.UserRepository, revoker TokenRevoker, jwtSecret string, jwtExpiration time.Duration, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		userRepo:      userRepo,
		revoker:       revoker,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		bcryptCost:    bcryptCost,
	}
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	// bcrypt only reads the first 72 bytes
	if username == "" || email == "" || len(password) < 8 || len(password) > 72 {
		return nil, ErrInvalidInput
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, ErrInvalidInput
	}

	if err := s.checkUnique(ctx, 0, &username, &email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  trimOptional(input.DisplayName),
		Role:         authz.RoleUser.String(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Logout revokes the token the current request was authenticated with.
func (s *UserService) Logout(ctx context.Context) error {
	if _, err := requireActor(ctx); err != nil {
		return err
	}
	claims, ok := jwtutil.ClaimsFrom(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if s.revoker == nil {
		return ErrLogoutUnavailable
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.TTL())
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.FindByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, page repository.Page) ([]model.User, error) {
	return s.userRepo.List(ctx, page)
}

// UpdateProfile applies a partial update to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*model.User, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	params := model.UpdateUserParams{
		Username:    trimOptional(input.Username),
		Email:       trimOptional(input.Email),
		DisplayName: input.DisplayName,
		AvatarURL:   input.AvatarURL,
		Bio:         input.Bio,
	}
	if params.Username != nil && *params.Username == "" {
		return nil, ErrInvalidInput
	}
	if params.Email != nil {
		lowered := strings.ToLower(*params.Email)
		if err := validate.Var(lowered, "required,email"); err != nil {
			return nil, ErrInvalidInput
		}
		params.Email = &lowered
	}
	if err := s.checkUnique(ctx, actor.UserID, params.Username, params.Email); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Update(ctx, actor.UserID, params)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// checkUnique rejects a username or email held by a user other than selfID.
func (s *UserService) checkUnique(ctx context.Context, selfID uint, username, email *string) error {
	if username != nil {
		existing, err := s.userRepo.FindByUsername(ctx, *username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrUsernameExists
		}
	}
	if email != nil {
		existing, err := s.userRepo.FindByEmail(ctx, *email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return ErrEmailExists
		}
	}
	return nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
