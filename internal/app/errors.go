package app

import (
	"errors"

	"feedgraph/internal/repository"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrContentEmpty          = errors.New("content must not be empty")
	ErrUsernameExists        = errors.New("username already exists")
	ErrEmailExists           = errors.New("email already exists")
	ErrInvalidCredential     = errors.New("invalid email or password")
	ErrUnauthenticated       = errors.New("authentication required")
	ErrForbidden             = errors.New("permission denied")
	ErrNotFound              = errors.New("resource not found")
	ErrFollowSelf            = repository.ErrFollowSelf
	ErrCommentParentMismatch = errors.New("parent comment belongs to another post")
	ErrLogoutUnavailable     = errors.New("token revocation is not configured")
)
