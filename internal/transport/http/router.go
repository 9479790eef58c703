package httptransport

import (
	"log/slog"

	"github.com/eaclient/user-api/internal/transport/http/handler"
	"github.com/eaclient/user-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, userHandler *handler.UserHandler, authHandler *handler.AuthHandler, auth middleware.Authenticator) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.CORS())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.GET("/", handler.Index)
	r.GET("/health", handler.Health)

	users := r.Group("/api/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.Auth(auth), authHandler.Me)

	return r
}
