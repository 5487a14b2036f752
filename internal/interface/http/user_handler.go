package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/pkg/response"
)

type UserHandler struct {
	Social *application.SocialService
	Users  *application.UserService
}

func NewUserHandler(social *application.SocialService, users *application.UserService) *UserHandler {
	return &UserHandler{Social: social, Users: users}
}

func (h *UserHandler) Profile(c *gin.Context) {
	p, err := h.Social.GetProfile(c.Request.Context(), middleware.IdentityFrom(c), c.Param("username"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "user profile fetched successfully", nil)
}

func (h *UserHandler) Posts(c *gin.Context) {
	blogs, err := h.Social.GetUserPosts(c.Request.Context(), c.Param("username"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, blogs, "user blog posts fetched successfully", gin.H{"count": len(blogs)})
}

func (h *UserHandler) Follow(c *gin.Context) {
	f, err := h.Social.Follow(c.Request.Context(), middleware.IdentityFrom(c), c.Param("username"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, f, "user followed successfully", nil)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	if err := h.Social.Unfollow(c.Request.Context(), middleware.IdentityFrom(c), c.Param("username")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "user unfollowed successfully", nil)
}

// Search GET /api/v1/search/users?q=
func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.Users.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users fetched successfully", gin.H{"count": len(users)})
}
