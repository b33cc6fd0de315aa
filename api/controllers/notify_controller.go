package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/moyoez/editor-bridge/tool"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the editing surface is served from its own origin
	},
}

// HandleNotifyWS subscribes the caller to the lifecycle events of one editor.
// GET /api/editor/v1/:editorId/notify-ws
func (ctrl *EditorController) HandleNotifyWS(c *gin.Context) {
	e, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		tool.DefaultLogger.Debugf("[Notify] websocket upgrade for %s failed: %v", e.ID(), err)
		return
	}
	defer conn.Close()

	ctrl.hub.Register(e.ID(), conn)
	defer ctrl.hub.Unregister(e.ID(), conn)

	// Read loop to detect client close and keep connection alive
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
