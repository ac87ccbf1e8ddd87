package http

import (
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	appsvc "feedgraph/internal/app"
	"feedgraph/internal/bootstrap"
	"feedgraph/internal/dataloader"
	"feedgraph/internal/graph"
	"feedgraph/internal/repository"
	"feedgraph/internal/transport/http/handler"
	"feedgraph/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.Recovery(), gzip.Gzip(gzip.DefaultCompression))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.DB)
	postRepo := repository.NewPostRepository(app.DB)
	commentRepo := repository.NewCommentRepository(app.DB)
	likeRepo := repository.NewLikeRepository(app.DB)
	followerRepo := repository.NewFollowerRepository(app.DB)
	notificationRepo := repository.NewNotificationRepository(app.DB)
	feedQuery := repository.NewFeedQueryRepository(app.DB)

	publisher := app.EventPublisher()
	resolver := &graph.Resolver{
		Users: appsvc.NewUserService(
			userRepo,
			app.TokenRevoker(),
			app.Config.Auth.JWTSecret,
			time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
			app.Config.Auth.BcryptCost,
		),
		Posts:         appsvc.NewPostService(userRepo, postRepo, feedQuery),
		Comments:      appsvc.NewCommentService(postRepo, commentRepo, publisher),
		Likes:         appsvc.NewLikeService(postRepo, likeRepo, feedQuery, publisher),
		Follows:       appsvc.NewFollowService(userRepo, followerRepo, publisher),
		Notifications: appsvc.NewNotificationService(notificationRepo),
	}
	newLoaders := func() *dataloader.Loaders {
		return dataloader.New(userRepo, postRepo, likeRepo, commentRepo, followerRepo)
	}

	loginLimiter := middleware.NewKeyedLimiter(app.Config.HTTP.LoginRatePerSecond, app.Config.HTTP.LoginBurst)
	graphHandler := handler.NewGraphHandler(graph.NewExecutor(resolver, newLoaders), loginLimiter)
	authHandler := handler.NewAuthHandler(resolver.Users, loginLimiter)

	var revoked middleware.RevocationChecker
	if app.Denylist != nil {
		revoked = app.Denylist
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.OptionalAuthJWT(app.Config.Auth.JWTSecret, revoked))
	v1.POST("/graph", middleware.Dataloaders(newLoaders), graphHandler.Execute)

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/me", authHandler.Me)

	return router
}
