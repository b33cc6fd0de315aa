package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/editor-bridge/tool"
)

func OnlyAllowLocal(c *gin.Context) {
	if tool.IsLocalAddress(c.ClientIP()) {
		c.Next()
	} else {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}
