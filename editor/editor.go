// Package editor ties the assemblers of one editing-surface instance
// together and drives its lifecycle hooks.
package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/moyoez/editor-bridge/assembler"
	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

var (
	ErrNotFound      = errors.New("editor not found")
	ErrReadOnly      = errors.New("editor is read-only")
	ErrDestroyed     = errors.New("editor was destroyed")
	ErrChunkTooLarge = errors.New("chunk exceeds the configured chunk size")
)

// Notifier receives lifecycle and value-change events of every editor.
type Notifier interface {
	Notify(n *types.Notification)
}

type nopNotifier struct{}

func (nopNotifier) Notify(*types.Notification) {}

// Options configure every editor a Registry sets up.
type Options struct {
	Processor     assembler.Processor
	Boundary      assembler.Boundary
	SessionTTL    time.Duration
	ChunkSize     int   // bytes
	TextChunkSize int   // characters
	MaxUploadSize int64 // bytes; 0 means no limit
}

// Editor is the assembler side of one editing surface.
type Editor struct {
	id       string
	opts     Options
	notifier Notifier
	uploads  *assembler.Uploads
	text     *assembler.Text

	mu        sync.RWMutex
	readOnly  bool
	value     string
	destroyed bool
}

func newEditor(id string, opts Options, notifier Notifier, readOnly bool, content string) *Editor {
	e := &Editor{
		id:       id,
		opts:     opts,
		notifier: notifier,
		text:     assembler.NewText(),
		readOnly: readOnly,
		value:    content,
	}
	e.uploads = assembler.NewUploads(opts.Processor, opts.Boundary, opts.SessionTTL, assembler.UploadHooks{
		OnStart:  e.uploadEvent(types.NotifyTypeUploadStart),
		OnEnd:    e.uploadEvent(types.NotifyTypeUploadEnd),
		OnFailed: e.uploadEvent(types.NotifyTypeUploadFailed),
	}, assembler.WithMaxSize(opts.MaxUploadSize))
	return e
}

func (e *Editor) ID() string { return e.id }

// UploadChunk feeds one binary chunk to the upload assembler.
// An empty reference means the upload expects more chunks.
func (e *Editor) UploadChunk(uploadId string, payload []byte, fileSize int64) (string, error) {
	if err := e.writable(); err != nil {
		return "", err
	}
	if e.opts.ChunkSize > 0 && len(payload) > e.opts.ChunkSize {
		return "", fmt.Errorf("%w: %d > %d bytes", ErrChunkTooLarge, len(payload), e.opts.ChunkSize)
	}
	return e.uploads.ReceiveChunk(uploadId, payload, fileSize)
}

// TextChanged feeds one document chunk to the text assembler. On the last
// chunk the document becomes the editor value and subscribers are notified.
func (e *Editor) TextChanged(chunk string, isLast bool) error {
	if err := e.writable(); err != nil {
		e.DiscardText()
		return err
	}
	if e.opts.TextChunkSize > 0 && utf8.RuneCountInString(chunk) > e.opts.TextChunkSize {
		e.DiscardText()
		return fmt.Errorf("%w: more than %d characters", ErrChunkTooLarge, e.opts.TextChunkSize)
	}
	value, done := e.text.AppendChunk(chunk, isLast)
	if !done {
		return nil
	}

	e.mu.Lock()
	changed := e.value != value
	e.value = value
	e.mu.Unlock()

	tool.DefaultLogger.Debugf("[Text] editor %s finalized %d bytes (changed=%v)", e.id, len(value), changed)
	e.notifier.Notify(&types.Notification{
		Type:     types.NotifyTypeValueChanged,
		EditorId: e.id,
		Title:    "Value Changed",
		Data: map[string]any{
			"value":   value,
			"length":  len(value),
			"changed": changed,
		},
	})
	return nil
}

// DiscardText drops a partially received change event. Every rejected text
// chunk goes through here: the producer abandons the event, so the next
// chunk starts a new one.
func (e *Editor) DiscardText() {
	e.text.Reset()
}

// Update replaces the document and pushes it to the editing surface.
// A change event still being received is dropped.
func (e *Editor) Update(content string) error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	e.value = content
	e.mu.Unlock()
	e.text.Reset()

	e.notifier.Notify(&types.Notification{
		Type:     types.NotifyTypeUpdate,
		EditorId: e.id,
		Data:     map[string]any{"content": content},
	})
	return nil
}

// SetReadOnly toggles read-only mode on both sides.
func (e *Editor) SetReadOnly(readOnly bool) error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return ErrDestroyed
	}
	e.readOnly = readOnly
	e.mu.Unlock()

	e.notifier.Notify(&types.Notification{
		Type:     types.NotifyTypeSetReadOnly,
		EditorId: e.id,
		Data:     map[string]any{"readOnly": readOnly},
	})
	return nil
}

func (e *Editor) Value() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.value
}

func (e *Editor) ReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

func (e *Editor) Info() types.EditorInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return types.EditorInfo{
		EditorId: e.id,
		ReadOnly: e.readOnly,
		Value:    e.value,
		Uploads:  e.uploads.Len(),
	}
}

// destroy is idempotent. Upload sessions in flight are dropped with the store.
func (e *Editor) destroy() bool {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return false
	}
	e.destroyed = true
	e.mu.Unlock()
	e.text.Reset()
	e.uploads.Close()

	e.notifier.Notify(&types.Notification{
		Type:     types.NotifyTypeDestroy,
		EditorId: e.id,
	})
	return true
}

func (e *Editor) writable() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	switch {
	case e.destroyed:
		return ErrDestroyed
	case e.readOnly:
		return ErrReadOnly
	}
	return nil
}

func (e *Editor) uploadEvent(eventType string) func(assembler.UploadEvent) {
	return func(ev assembler.UploadEvent) {
		data := map[string]any{
			"uploadId": ev.UploadId,
			"fileSize": ev.Declared,
			"received": ev.Received,
		}
		if ev.Err != nil {
			data["error"] = ev.Err.Error()
			tool.DefaultLogger.Errorf("[Upload] editor %s upload %s failed: %v", e.id, ev.UploadId, ev.Err)
		}
		e.notifier.Notify(&types.Notification{
			Type:     eventType,
			EditorId: e.id,
			Data:     data,
		})
	}
}
