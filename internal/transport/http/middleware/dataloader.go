package middleware

import (
	"github.com/gin-gonic/gin"

	"feedgraph/internal/dataloader"
)

// Dataloaders gives every request its own loaders. They are never reused
// across requests.
func Dataloaders(newLoaders func() *dataloader.Loaders) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := dataloader.WithLoaders(c.Request.Context(), newLoaders())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
