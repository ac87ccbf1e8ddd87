package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feedgraph/internal/app"
	"feedgraph/internal/authz"
	"feedgraph/internal/transport/http/middleware"
	"feedgraph/internal/transport/http/response"
)

// AuthHandler is the REST face of account operations, for clients that do
// not speak the graph endpoint.
type AuthHandler struct {
	userService  *app.UserService
	loginLimiter *middleware.KeyedLimiter
}

type RegisterRequest struct {
	Username    string  `json:"username" binding:"required,min=3,max=64"`
	Email       string  `json:"email" binding:"required,email,max=128"`
	Password    string  `json:"password" binding:"required,min=8,max=72"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

func NewAuthHandler(userService *app.UserService, loginLimiter *middleware.KeyedLimiter) *AuthHandler {
	return &AuthHandler{userService: userService, loginLimiter: loginLimiter}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), app.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	if !h.loginLimiter.Allow(c.ClientIP()) {
		response.Error(c, http.StatusTooManyRequests, response.CodeTooManyRequests, "too many login attempts")
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.userService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, gin.H{
		"token": result.Token,
		"user":  result.User,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.userService.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, gin.H{"revoked": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := authz.ActorFrom(c.Request.Context())
	if !ok {
		writeError(c, app.ErrUnauthenticated)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found")
		return
	}
	response.OK(c, user)
}
