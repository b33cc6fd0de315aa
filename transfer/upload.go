package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/moyoez/editor-bridge/chunk"
	"github.com/moyoez/editor-bridge/tool"
)

// UploadImage splits r (exactly size bytes) into chunks and sends them one at
// a time. It returns the first non-empty reference the assembler answers with;
// remaining chunks are not sent.
func UploadImage(ctx context.Context, t Transport, r io.Reader, size int64, chunkSize int) (string, error) {
	splitter, err := chunk.NewSplitter(r, size, chunkSize)
	if err != nil {
		return "", err
	}
	tool.DefaultLogger.Debugf("[Transfer] upload %s: %d bytes in %d chunks", splitter.ID(), size, splitter.Count())

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("upload %s cancelled: %w", splitter.ID(), err)
		}
		c, err := splitter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("upload %s: %w", splitter.ID(), err)
		}
		ref, err := t.UploadChunk(ctx, c.Payload, splitter.Total(), splitter.ID())
		if err != nil {
			return "", fmt.Errorf("upload %s chunk %d: %w", splitter.ID(), c.Index, err)
		}
		if ref != "" {
			tool.DefaultLogger.Infof("[Transfer] upload %s done after chunk %d/%d", splitter.ID(), c.Index+1, splitter.Count())
			return ref, nil
		}
	}
	return "", fmt.Errorf("upload %s: %w", splitter.ID(), ErrNoReference)
}

// UploadFile uploads the image stored at path.
func UploadFile(ctx context.Context, t Transport, path string, chunkSize int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return UploadImage(ctx, t, f, info.Size(), chunkSize)
}
