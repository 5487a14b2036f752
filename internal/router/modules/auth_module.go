package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/blogsphere/internal/interface/http"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Guards  Guards
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, g Guards, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Guards: g, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	credLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", credLimiter, m.Handler.Register)
	auth.POST("/login", credLimiter, m.Handler.Login)
	auth.POST("/logout", m.Handler.Logout)
	auth.POST("/forgot-password", resetLimiter, m.Handler.ForgotPassword)
	auth.POST("/reset-password/:token", resetLimiter, m.Handler.ResetPassword)

	protected := auth.Group("/")
	protected.Use(m.Guards.Strict)
	protected.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		protected.GET("/me", m.Handler.Me)
		protected.POST("/change-password", m.Handler.ChangePassword)
		protected.POST("/update-avatar", m.Handler.UpdateAvatar)
		protected.POST("/update-user", m.Handler.UpdateUser)
	}
}
