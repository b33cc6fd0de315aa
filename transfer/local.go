package transfer

import (
	"context"
	"errors"

	"github.com/moyoez/editor-bridge/editor"
)

// LocalTransport feeds an in-process editor directly.
type LocalTransport struct {
	editor *editor.Editor
}

func NewLocalTransport(e *editor.Editor) *LocalTransport {
	return &LocalTransport{editor: e}
}

func (t *LocalTransport) UploadChunk(ctx context.Context, payload []byte, fileSize int64, uploadId string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ref, err := t.editor.UploadChunk(uploadId, payload, fileSize)
	return ref, local(err)
}

func (t *LocalTransport) TextChanged(ctx context.Context, chunk string, isLast bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return local(t.editor.TextChanged(chunk, isLast))
}

func local(err error) error {
	if errors.Is(err, editor.ErrDestroyed) {
		return errors.Join(ErrDisconnected, err)
	}
	return err
}
