package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/blogsphere/internal/interface/http"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
)

// BlogModule mounts posts, likes and comments under /blog. The :id segment
// is a slug on post routes and a blog id on like/comment routes.
type BlogModule struct {
	Blogs      *handlers.BlogHandler
	Engagement *handlers.EngagementHandler
	Guards     Guards
	RDB        *redis.Client
}

func NewBlogModule(b *handlers.BlogHandler, e *handlers.EngagementHandler, g Guards, rdb *redis.Client) *BlogModule {
	return &BlogModule{Blogs: b, Engagement: e, Guards: g, RDB: rdb}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	writeLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByUserID(), nil)
	genLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIP(), nil)

	blog := rg.Group("/blog")
	blog.GET("", m.Blogs.GetAll)
	blog.POST("", m.Guards.Strict, writeLimiter, m.Blogs.Create)
	blog.POST("/generate-image", genLimiter, m.Guards.Optional, m.Blogs.GenerateImage)
	blog.GET("/search/:query", m.Blogs.Search)

	blog.GET("/:id", m.Guards.Optional, m.Blogs.GetOne)
	blog.POST("/:id", m.Guards.Strict, writeLimiter, m.Blogs.Edit)
	blog.DELETE("/:id", m.Guards.Strict, writeLimiter, m.Blogs.Delete)

	blog.GET("/:id/comment", m.Engagement.ListComments)
	blog.POST("/:id/comment", m.Guards.Strict, writeLimiter, m.Engagement.AddComment)
	blog.POST("/:id/like", m.Guards.Strict, writeLimiter, m.Engagement.Like)
	blog.POST("/:id/unlike", m.Guards.Strict, writeLimiter, m.Engagement.Unlike)
}
