package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/pkg/response"
)

// BlogHandler serves /blog routes where :id is the post slug.
type BlogHandler struct {
	Svc *application.BlogService
}

func NewBlogHandler(svc *application.BlogService) *BlogHandler {
	return &BlogHandler{Svc: svc}
}

func (h *BlogHandler) GetAll(c *gin.Context) {
	blogs, err := h.Svc.GetAll(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, blogs, "blog posts fetched successfully", gin.H{"count": len(blogs)})
}

// Create POST /api/v1/blog, JSON or multipart with optional "featureImage".
func (h *BlogHandler) Create(c *gin.Context) {
	var in application.CreateBlogInput
	if err := bind(c, &in); err != nil {
		response.Fail(c, err)
		return
	}
	file, closeFile, err := formImage(c, "featureImage")
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer closeFile()

	b, err := h.Svc.Create(c.Request.Context(), middleware.IdentityFrom(c), in, file)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b, "blog post created successfully", nil)
}

func (h *BlogHandler) GetOne(c *gin.Context) {
	b, err := h.Svc.GetOne(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, b, "blog post fetched successfully", nil)
}

func (h *BlogHandler) Edit(c *gin.Context) {
	var in application.EditBlogInput
	if err := bind(c, &in); err != nil {
		response.Fail(c, err)
		return
	}
	file, closeFile, err := formImage(c, "featureImage")
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer closeFile()

	b, err := h.Svc.Edit(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), in, file)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, b, "blog post updated successfully", nil)
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "blog post deleted successfully", nil)
}

func (h *BlogHandler) Search(c *gin.Context) {
	blogs, err := h.Svc.Search(c.Request.Context(), c.Param("query"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, blogs, "blog posts fetched successfully", gin.H{"count": len(blogs)})
}

func (h *BlogHandler) GenerateImage(c *gin.Context) {
	var in application.GenerateImageInput
	if err := bind(c, &in); err != nil {
		response.Fail(c, err)
		return
	}
	url, err := h.Svc.GenerateImage(c.Request.Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"imageUrl": url}, "image generated successfully", nil)
}
