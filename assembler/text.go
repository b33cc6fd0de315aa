package assembler

import (
	"strings"
	"sync"
)

// Text buffers the chunks of one document change event. Completion is
// signalled only by the last-chunk flag; there is no declared length.
type Text struct {
	mu  sync.Mutex
	buf strings.Builder
}

func NewText() *Text {
	return &Text{}
}

// AppendChunk appends chunk and, when isLast is set, returns the whole
// document and empties the buffer.
func (t *Text) AppendChunk(chunk string, isLast bool) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.WriteString(chunk)
	if !isLast {
		return "", false
	}
	value := t.buf.String()
	t.buf.Reset()
	return value, true
}

// Pending is the number of bytes buffered for an unfinished change event.
func (t *Text) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Len()
}

// Reset drops a partially received change event.
func (t *Text) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Reset()
}
