package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moyoez/editor-bridge/assembler"
	"github.com/moyoez/editor-bridge/editor"
	"github.com/moyoez/editor-bridge/pipeline"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{editor.ErrNotFound, http.StatusNotFound},
		{editor.ErrDestroyed, http.StatusNotFound},
		{editor.ErrReadOnly, http.StatusForbidden},
		{fmt.Errorf("%w: 9 > 8", editor.ErrChunkTooLarge), http.StatusRequestEntityTooLarge},
		{fmt.Errorf("%w: empty upload id", assembler.ErrMalformedChunk), http.StatusBadRequest},
		{fmt.Errorf("%w: 4 > 3", assembler.ErrSizeMismatch), http.StatusConflict},
		{fmt.Errorf("%w: %w", assembler.ErrProcess, pipeline.ErrUnsupportedFormat), http.StatusUnsupportedMediaType},
		{fmt.Errorf("%w: %w", assembler.ErrProcess, pipeline.ErrDecode), http.StatusUnsupportedMediaType},
		{fmt.Errorf("%w: %w", assembler.ErrProcess, pipeline.ErrEncode), http.StatusInternalServerError},
		{fmt.Errorf("%w: %w", assembler.ErrProcess, pipeline.ErrTooLarge), http.StatusRequestEntityTooLarge},
		{assembler.ErrClosed, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
