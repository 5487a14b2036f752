package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/pkg/apperror"
	"github.com/oksasatya/blogsphere/pkg/response"
)

// APIPrefix is the group every feature module is mounted under.
const APIPrefix = "/api/v1"

// Registry collects feature modules and mounts them on one engine.
type Registry struct {
	engine  *gin.Engine
	api     *gin.RouterGroup
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{engine: engine, api: engine.Group(APIPrefix)}
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// Mount registers every module in insertion order and answers unknown
// routes with the standard error envelope.
func (r *Registry) Mount() {
	for _, m := range r.modules {
		m.Register(r.api)
	}
	r.engine.HandleMethodNotAllowed = true
	r.engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, apperror.NotFound("route not found"))
	})
	r.engine.NoMethod(func(c *gin.Context) {
		response.Error[any](c, http.StatusMethodNotAllowed, "method not allowed", nil)
	})
}
