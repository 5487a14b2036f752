package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/interface/middleware"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/response"
)

type AuthHandler struct {
	Svc     *application.UserService
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.UserService, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// Register POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	if err := bind(c, &in); err != nil {
		response.Fail(c, err)
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusCreated, res, "user registered successfully", nil)
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in application.LoginInput
	if err := bind(c, &in); err != nil {
		response.Fail(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, res, "user logged in successfully", nil)
}

// Logout POST /api/v1/auth/logout. Tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "user logged out successfully", nil)
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "current user", nil)
}

// ChangePassword POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in application.ChangePasswordInput
	if err := bind(c, &in); err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.Svc.ChangePassword(c.Request.Context(), middleware.IdentityFrom(c), in); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password changed successfully", nil)
}

// UpdateAvatar POST /api/v1/auth/update-avatar (multipart field "avatar")
func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	file, closeFile, err := formImage(c, "avatar")
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer closeFile()
	u, err := h.Svc.ChangeAvatar(c.Request.Context(), middleware.IdentityFrom(c), file)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "avatar updated successfully", nil)
}

// UpdateUser POST /api/v1/auth/update-user
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	var in application.UpdateProfileInput
	if err := bind(c, &in); err != nil {
		response.Fail(c, err)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.IdentityFrom(c), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user updated successfully", nil)
}

// ForgotPassword POST /api/v1/auth/forgot-password. Always 200 on a
// well-formed email to avoid account enumeration.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in application.ForgotPasswordInput
	if err := bind(c, &in); err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), middleware.IdentityFrom(c), in); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "if the email exists, a reset link has been sent", nil)
}

// ResetPassword POST /api/v1/auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in application.ResetPasswordInput
	if err := bind(c, &in); err != nil {
		response.Fail(c, err)
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), middleware.IdentityFrom(c), c.Param("token"), in); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated successfully", nil)
}
