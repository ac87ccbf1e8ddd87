package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feedgraph/internal/authz"
	"feedgraph/internal/pkg/jwtutil"
	"feedgraph/internal/pkg/logger"
	"feedgraph/internal/transport/http/response"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"
)

// RevocationChecker reports whether a token ID was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// OptionalAuthJWT decodes a bearer token when one is sent. A valid,
// unrevoked token puts an authz.Actor on the request context; a missing or
// unusable one leaves the request anonymous. revoked may be nil.
func OptionalAuthJWT(secret string, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.Next()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			logger.Debug("ignoring non-bearer authorization header")
			c.Next()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			logger.Debug("ignoring invalid bearer token", zap.Error(err))
			c.Next()
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Error("token revocation check failed", zap.Error(err))
				response.Error(c, http.StatusServiceUnavailable, response.CodeUnavailable, "token revocation check failed")
				c.Abort()
				return
			}
			if isRevoked {
				c.Next()
				return
			}
		}

		role := authz.ParseRole(claims.Role)
		ctx := authz.WithActor(c.Request.Context(), authz.Actor{UserID: claims.UserID, Role: role})
		ctx = jwtutil.WithClaims(ctx, claims)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}
