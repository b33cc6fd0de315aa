package controllers

import (
	"errors"
	"net/http"

	"github.com/moyoez/editor-bridge/assembler"
	"github.com/moyoez/editor-bridge/editor"
	"github.com/moyoez/editor-bridge/pipeline"
)

// statusFor maps a domain error to the HTTP status returned to the editor.
func statusFor(err error) int {
	switch {
	case errors.Is(err, editor.ErrNotFound), errors.Is(err, editor.ErrDestroyed), errors.Is(err, assembler.ErrClosed):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, editor.ErrChunkTooLarge), errors.Is(err, pipeline.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, assembler.ErrMalformedChunk):
		return http.StatusBadRequest
	case errors.Is(err, assembler.ErrSizeMismatch):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrUnsupportedFormat),
		errors.Is(err, pipeline.ErrDecode),
		errors.Is(err, pipeline.ErrEmpty):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
