package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/editor-bridge/editor"
	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

// HandleUploadChunk receives one binary chunk of an image upload.
// POST /api/editor/v1/:editorId/upload-chunk?uploadId=&fileSize=
func (ctrl *EditorController) HandleUploadChunk(c *gin.Context) {
	e, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	var query types.UploadChunkQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		tool.DefaultLogger.Errorf("[Upload] Missing required parameters: %v", err)
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing parameters"))
		return
	}

	// one byte past the limit is enough to tell an oversized chunk apart.
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(ctrl.chunkSize)+1))
	if err != nil {
		tool.DefaultLogger.Errorf("[Upload] Failed to read chunk body: %v", err)
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to read request body"))
		return
	}

	ref, err := e.UploadChunk(query.UploadId, payload, query.FileSize)
	if err != nil {
		tool.DefaultLogger.Errorf("[Upload] editor %s upload %s: %v", e.ID(), query.UploadId, err)
		if errors.Is(err, editor.ErrChunkTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, tool.FastReturnChunkTooLarge(err.Error(), ctrl.chunkSize))
			return
		}
		c.JSON(statusFor(err), tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(types.UploadChunkResponse{Reference: ref}))
}
