package tool

import (
	"maps"

	"github.com/gin-gonic/gin"
)

// Response bodies shared by every controller: {"error": msg} on failure,
// {"status": "ok"} or {"data": ...} on success.

func FastReturnError(msg string) gin.H {
	return gin.H{
		"error": msg,
	}
}

func FastReturnSuccess() gin.H {
	return gin.H{
		"status": "ok",
	}
}

func FastReturnSuccessWithData(data any) gin.H {
	return gin.H{
		"data": data,
	}
}

func FastReturnErrorWithData(msg string, data map[string]any) gin.H {
	resp := gin.H{
		"error": msg,
	}
	maps.Copy(resp, data)
	return resp
}

// FastReturnChunkTooLarge tells the producer which chunk size the bridge accepts.
func FastReturnChunkTooLarge(msg string, chunkSize int) gin.H {
	return FastReturnErrorWithData(msg, map[string]any{"chunkSize": chunkSize})
}
