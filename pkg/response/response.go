package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/pkg/apperror"
)

type APIResponse[T any] struct {
	StatusCode int         `json:"statusCode"`
	Timestamp  time.Time   `json:"timestamp"`
	RequestID  string      `json:"requestId,omitempty"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       T           `json:"data"`
	Meta       interface{} `json:"meta,omitempty"`
	Error      interface{} `json:"error,omitempty"`
}

// Options controls how failures are rendered. Set once at startup.
type Options struct {
	// ExposeErrors adds the underlying error chain to error bodies (non-production).
	ExposeErrors bool
	Logger       *logrus.Logger
}

var opts Options

func Configure(o Options) { opts = o }

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		StatusCode: status,
		Timestamp:  time.Now(),
		RequestID:  ctx.GetString("request_id"),
		Success:    true,
		Message:    message,
		Data:       data,
		Meta:       meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope and aborts the chain.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		StatusCode: status,
		Timestamp:  time.Now(),
		RequestID:  ctx.GetString("request_id"),
		Success:    false,
		Message:    message,
		Error:      err,
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}

// Fail is the single place where errors become HTTP responses.
func Fail(ctx *gin.Context, err error) {
	ae := apperror.From(err)
	status := ae.Status()

	var detail interface{}
	if len(ae.Details) > 0 {
		detail = ae.Details
	} else if opts.ExposeErrors && ae.Cause != nil {
		detail = ae.Cause.Error()
	}

	if apperror.KindOf(err) == apperror.KindInternal && opts.Logger != nil {
		opts.Logger.WithError(err).WithFields(logrus.Fields{
			"request_id": ctx.GetString("request_id"),
			"method":     ctx.Request.Method,
			"path":       ctx.FullPath(),
		}).Error("request failed")
	}
	Error[any](ctx, status, ae.Message, detail)
}
