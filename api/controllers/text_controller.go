package controllers

import (
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

// HandleTextChanged receives one chunk of a document change event.
// POST /api/editor/v1/:editorId/text-changed?isLast=
func (ctrl *EditorController) HandleTextChanged(c *gin.Context) {
	e, ok := ctrl.lookup(c)
	if !ok {
		return
	}
	// a rejected chunk ends the change event on the producer side too.
	reject := func(status int, body any) {
		e.DiscardText()
		c.JSON(status, body)
	}

	var query types.TextChangedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		reject(http.StatusBadRequest, tool.FastReturnError("Invalid isLast parameter"))
		return
	}

	// utf-8 needs at most four bytes per character.
	limit := int64(ctrl.textChunkSize)*utf8.UTFMax + 1
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, limit))
	if err != nil {
		reject(http.StatusBadRequest, tool.FastReturnError("Failed to read request body"))
		return
	}
	if int64(len(body)) == limit {
		reject(http.StatusRequestEntityTooLarge, tool.FastReturnChunkTooLarge("chunk exceeds the configured chunk size", ctrl.textChunkSize))
		return
	}
	if !utf8.Valid(body) {
		reject(http.StatusBadRequest, tool.FastReturnError("Chunk is not valid UTF-8"))
		return
	}

	if err := e.TextChanged(string(body), query.IsLast); err != nil {
		tool.DefaultLogger.Errorf("[Text] editor %s: %v", e.ID(), err)
		c.JSON(statusFor(err), tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
