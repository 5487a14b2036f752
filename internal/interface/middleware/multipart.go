package middleware

import "github.com/gin-gonic/gin"

// CleanupMultipart removes temporary files spilled to disk while parsing
// multipart bodies, on success and error paths alike.
func CleanupMultipart() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.MultipartForm != nil {
			_ = c.Request.MultipartForm.RemoveAll()
		}
	}
}
