package application

import "github.com/oksasatya/blogsphere/pkg/apperror"

var (
	ErrUnauthenticated    = apperror.Unauthorized("unauthorized request")
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrInvalidCredentials = apperror.Unauthorized("invalid credentials")
	ErrUserExists         = apperror.Conflict("user with this email or username already exists")
	ErrEmailTaken         = apperror.Conflict("email is already in use")
	ErrUsernameTaken      = apperror.Conflict("username is already in use")
	ErrWrongPassword      = apperror.Unauthorized("old password is incorrect")
	ErrInvalidResetToken  = apperror.BadRequest("invalid or expired token")
	ErrImageRequired      = apperror.BadRequest("image file is required")

	ErrBlogNotFound = apperror.NotFound("blog post not found")
	ErrSlugTaken    = apperror.Conflict("blog post with this slug already exists")
	ErrNotBlogOwner = apperror.Forbidden("you are not the owner of this blog post")

	ErrAlreadyLiked = apperror.Conflict("blog post already liked")
	ErrNotLiked     = apperror.BadRequest("blog post is not liked")

	ErrSelfFollow       = apperror.BadRequest("you cannot follow yourself")
	ErrSelfUnfollow     = apperror.BadRequest("you cannot unfollow yourself")
	ErrAlreadyFollowing = apperror.Conflict("you are already following this user")
	ErrNotFollowing     = apperror.BadRequest("you are not following this user")
)
