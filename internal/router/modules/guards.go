package modules

import "github.com/gin-gonic/gin"

// Guards are the two auth middleware variants shared by every module.
type Guards struct {
	Strict   gin.HandlerFunc
	Optional gin.HandlerFunc
}
