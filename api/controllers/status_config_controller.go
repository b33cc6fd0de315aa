package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/editor-bridge/editor"
	"github.com/moyoez/editor-bridge/notify"
	"github.com/moyoez/editor-bridge/tool"
)

// HandleStatus returns liveness and protocol limits for the editing surface.
// GET /api/self/v1/status
func HandleStatus(registry *editor.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := tool.GetCurrentConfig()
		c.JSON(http.StatusOK, gin.H{
			"running":        true,
			"editors":        registry.Len(),
			"chunkSize":      cfg.ChunkSize,
			"textChunkSize":  cfg.TextChunkSize,
			"maxImageHeight": cfg.MaxImageHeight,
			"notify_socket":  cfg.NotifySocket != "" && notify.UseNotify,
		})
	}
}
