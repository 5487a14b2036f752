package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/blogsphere/internal/interface/http"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
)

type UserModule struct {
	Handler *handlers.UserHandler
	Guards  Guards
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, g Guards, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Guards: g, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	followLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByUserID(), nil)
	searchLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIP(), nil)

	user := rg.Group("/user")
	user.GET("/:username", m.Guards.Optional, m.Handler.Profile)
	user.GET("/:username/blogs", m.Handler.Posts)
	user.POST("/:username/follow", m.Guards.Strict, followLimiter, m.Handler.Follow)
	user.POST("/:username/unfollow", m.Guards.Strict, followLimiter, m.Handler.Unfollow)

	rg.GET("/search/users", searchLimiter, m.Handler.Search)
}
