package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feedgraph/internal/graph"
	"feedgraph/internal/transport/http/middleware"
	"feedgraph/internal/transport/http/response"
)

type GraphHandler struct {
	executor     *graph.Executor
	loginLimiter *middleware.KeyedLimiter
}

// NewGraphHandler serves graph operations. loginLimiter may be nil.
func NewGraphHandler(executor *graph.Executor, loginLimiter *middleware.KeyedLimiter) *GraphHandler {
	return &GraphHandler{executor: executor, loginLimiter: loginLimiter}
}

func (h *GraphHandler) Execute(c *gin.Context) {
	var req graph.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if req.Operation == "login" && !h.loginLimiter.Allow(c.ClientIP()) {
		response.Error(c, http.StatusTooManyRequests, response.CodeTooManyRequests, "too many login attempts")
		return
	}

	result, err := h.executor.Execute(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result.Data)
}
