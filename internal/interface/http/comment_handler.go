package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/pkg/response"
)

// EngagementHandler serves likes and comments where :id is the blog id.
type EngagementHandler struct {
	Svc *application.EngagementService
}

func NewEngagementHandler(svc *application.EngagementService) *EngagementHandler {
	return &EngagementHandler{Svc: svc}
}

func (h *EngagementHandler) Like(c *gin.Context) {
	l, err := h.Svc.Like(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, l, "blog post liked successfully", nil)
}

func (h *EngagementHandler) Unlike(c *gin.Context) {
	if err := h.Svc.Unlike(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "blog post unliked successfully", nil)
}

func (h *EngagementHandler) AddComment(c *gin.Context) {
	var in application.AddCommentInput
	if err := bind(c, &in); err != nil {
		response.Fail(c, err)
		return
	}
	cm, err := h.Svc.AddComment(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cm, "comment added successfully", nil)
}

func (h *EngagementHandler) ListComments(c *gin.Context) {
	comments, err := h.Svc.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, comments, "comments fetched successfully", gin.H{"count": len(comments)})
}
