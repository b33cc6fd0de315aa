// Package transfer is the producer side of the bridge: it drives chunk
// sequences through a Transport one chunk at a time.
package transfer

//go:generate go run go.uber.org/mock/mockgen -source=transport.go -destination=mocks/mock_transport.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrDisconnected = errors.New("assembler is not reachable")
	ErrNoReference  = errors.New("upload finished without a reference")
)

// Transport delivers one chunk and waits for the assembler's answer.
type Transport interface {
	// UploadChunk returns "" while the assembler expects more chunks of uploadId.
	UploadChunk(ctx context.Context, payload []byte, fileSize int64, uploadId string) (string, error)
	TextChanged(ctx context.Context, chunk string, isLast bool) error
}

// StatusError is a non-2xx answer of the assembler.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("assembler answered %d", e.Code)
	}
	return fmt.Sprintf("assembler answered %d: %s", e.Code, e.Message)
}
