package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/editor-bridge/editor"
	"github.com/moyoez/editor-bridge/notify"
	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

type EditorController struct {
	registry      *editor.Registry
	hub           *notify.Hub
	chunkSize     int
	textChunkSize int
}

func NewEditorController(registry *editor.Registry, hub *notify.Hub, chunkSize, textChunkSize int) *EditorController {
	return &EditorController{
		registry:      registry,
		hub:           hub,
		chunkSize:     chunkSize,
		textChunkSize: textChunkSize,
	}
}

// lookup resolves the :editorId path parameter or writes a 404.
func (ctrl *EditorController) lookup(c *gin.Context) (*editor.Editor, bool) {
	id := c.Param("editorId")
	e, ok := ctrl.registry.Get(id)
	if !ok {
		tool.DefaultLogger.Debugf("[Editor] unknown editor %q", id)
		c.JSON(http.StatusNotFound, tool.FastReturnError("Editor not found"))
		return nil, false
	}
	return e, true
}

// HandleSetup creates an editor instance.
// POST /api/editor/v1/setup
func (ctrl *EditorController) HandleSetup(c *gin.Context) {
	var request types.EditorSetupRequest
	// an empty body sets up an empty, writable editor
	if err := c.ShouldBindJSON(&request); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	e := ctrl.registry.Setup(request.ReadOnly, request.Content)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(e.Info()))
}

// HandleGet returns the editor state.
// GET /api/editor/v1/:editorId
func (ctrl *EditorController) HandleGet(c *gin.Context) {
	e, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(e.Info()))
}

// HandleUpdate pushes new content to the editing surface.
// PUT /api/editor/v1/:editorId/content
func (ctrl *EditorController) HandleUpdate(c *gin.Context) {
	e, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	var request types.EditorUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if err := e.Update(request.Content); err != nil {
		c.JSON(statusFor(err), tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// HandleSetReadOnly toggles read-only mode.
// PATCH /api/editor/v1/:editorId/read-only
func (ctrl *EditorController) HandleSetReadOnly(c *gin.Context) {
	e, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	var request types.EditorReadOnlyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if err := e.SetReadOnly(*request.ReadOnly); err != nil {
		c.JSON(statusFor(err), tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// HandleDestroy tears the editor down.
// DELETE /api/editor/v1/:editorId
func (ctrl *EditorController) HandleDestroy(c *gin.Context) {
	if err := ctrl.registry.Destroy(c.Param("editorId")); err != nil {
		c.JSON(statusFor(err), tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
