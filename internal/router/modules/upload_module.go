package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/blogsphere/internal/interface/http"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
)

type UploadModule struct {
	Handler *handlers.UploadHandler
	Guards  Guards
	RDB     *redis.Client
}

func NewUploadModule(h *handlers.UploadHandler, g Guards, rdb *redis.Client) *UploadModule {
	return &UploadModule{Handler: h, Guards: g, RDB: rdb}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.RDB, 20, time.Minute, middleware.KeyByIP(), nil)
	rg.POST("/upload", rl, m.Guards.Optional, m.Handler.Upload)
}
