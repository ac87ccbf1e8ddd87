package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedgraph/internal/app"
	"feedgraph/internal/graph"
	"feedgraph/internal/pkg/logger"
	"feedgraph/internal/transport/http/response"
)

// writeError maps service and graph errors onto the response envelope.
// Anything unrecognised is a storage or infrastructure failure and is logged.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, err.Error())
	case errors.Is(err, app.ErrInvalidCredential):
		response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err.Error())
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	case errors.Is(err, app.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrUsernameExists):
		response.Error(c, http.StatusConflict, response.CodeUsernameExists, err.Error())
	case errors.Is(err, app.ErrEmailExists):
		response.Error(c, http.StatusConflict, response.CodeEmailExists, err.Error())
	case errors.Is(err, app.ErrFollowSelf):
		response.Error(c, http.StatusConflict, response.CodeFollowSelf, err.Error())
	case errors.Is(err, app.ErrContentEmpty):
		response.Error(c, http.StatusBadRequest, response.CodeContentEmpty, err.Error())
	case errors.Is(err, app.ErrCommentParentMismatch):
		response.Error(c, http.StatusBadRequest, response.CodeCommentParent, err.Error())
	case errors.Is(err, graph.ErrUnknownOperation):
		response.Error(c, http.StatusBadRequest, response.CodeUnknownOperation, err.Error())
	case errors.Is(err, app.ErrInvalidInput),
		errors.Is(err, graph.ErrInvalidArgument),
		errors.Is(err, graph.ErrInvalidSelection),
		errors.Is(err, graph.ErrUnknownField):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrLogoutUnavailable):
		response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, err.Error())
	default:
		logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "internal server error")
	}
}
