package assembler

import "errors"

var (
	ErrMalformedChunk = errors.New("malformed chunk")
	ErrSizeMismatch   = errors.New("declared size changed within upload")
	ErrProcess        = errors.New("failed to process assembled upload")
	ErrClosed         = errors.New("upload store is closed")
)
