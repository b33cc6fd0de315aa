// Package assembler reassembles chunked binary uploads and chunked text
// change events on the receiving side of the bridge.
package assembler

import (
	"fmt"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/moyoez/editor-bridge/tool"
)

// Boundary decides when an upload session has received everything.
type Boundary func(received, declared int64) bool

// ExactBoundary completes once every declared byte arrived.
func ExactBoundary(received, declared int64) bool {
	return received >= declared
}

// LenientBoundary completes one byte early, matching editors that expect
// the final reference from the chunk that reaches declared-1.
func LenientBoundary(received, declared int64) bool {
	return received+1 >= declared
}

// BoundaryFor maps the completion config value to its Boundary.
func BoundaryFor(name string) Boundary {
	if name == tool.CompletionLenient {
		return LenientBoundary
	}
	return ExactBoundary
}

// Processor turns the assembled bytes of one upload into its reference string.
type Processor interface {
	Process(data []byte) (string, error)
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(data []byte) (string, error)

func (f ProcessorFunc) Process(data []byte) (string, error) { return f(data) }

// UploadEvent describes a session transition, passed to the Uploads hooks.
type UploadEvent struct {
	UploadId string
	Declared int64
	Received int64
	Err      error
}

// UploadHooks are optional callbacks; they run outside the store lock.
type UploadHooks struct {
	OnStart  func(UploadEvent)
	OnEnd    func(UploadEvent)
	OnFailed func(UploadEvent)
}

type uploadSession struct {
	data     []byte
	declared int64
}

// Uploads is the keyed session store of one editor instance.
// Sessions nobody finishes are dropped once ttl passes without a chunk.
type Uploads struct {
	mu        sync.Mutex
	sessions  *ttlworker.Cache[string, *uploadSession]
	live      map[string]struct{}
	processor Processor
	complete  Boundary
	hooks     UploadHooks
	maxSize   int64
	closed    bool
}

// UploadOption tunes an Uploads store.
type UploadOption func(*Uploads)

// WithMaxSize rejects uploads declaring more than n bytes. n <= 0 means no limit.
func WithMaxSize(n int64) UploadOption {
	return func(u *Uploads) { u.maxSize = n }
}

// DefaultSessionTTL applies when NewUploads is given a non-positive ttl.
const DefaultSessionTTL = 10 * time.Minute

func NewUploads(processor Processor, complete Boundary, ttl time.Duration, hooks UploadHooks, opts ...UploadOption) *Uploads {
	if complete == nil {
		complete = ExactBoundary
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	u := &Uploads{
		sessions:  ttlworker.NewCache[string, *uploadSession](ttl),
		live:      make(map[string]struct{}),
		processor: processor,
		complete:  complete,
		hooks:     hooks,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ReceiveChunk appends payload to the session of uploadId, creating it on the
// first chunk. It returns "" while more chunks are expected and the processed
// reference once the session completes; the session is removed either way
// when it completes or fails.
func (u *Uploads) ReceiveChunk(uploadId string, payload []byte, declared int64) (string, error) {
	if uploadId == "" || declared <= 0 || len(payload) == 0 {
		return "", fmt.Errorf("%w: uploadId=%q size=%d payload=%d", ErrMalformedChunk, uploadId, declared, len(payload))
	}
	if u.maxSize > 0 && declared > u.maxSize {
		return "", fmt.Errorf("%w: upload %s declares %d bytes, limit is %d", ErrMalformedChunk, uploadId, declared, u.maxSize)
	}

	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return "", ErrClosed
	}
	sess := u.sessions.Get(uploadId)
	started := false
	if sess == nil {
		if _, seen := u.live[uploadId]; seen {
			// expired between chunks: the earlier bytes are gone.
			delete(u.live, uploadId)
			u.mu.Unlock()
			u.fire(u.hooks.OnFailed, UploadEvent{UploadId: uploadId, Declared: declared, Err: ErrMalformedChunk})
			return "", fmt.Errorf("%w: upload %s expired", ErrMalformedChunk, uploadId)
		}
		sess = &uploadSession{data: make([]byte, 0, capacityFor(declared, len(payload))), declared: declared}
		u.live[uploadId] = struct{}{}
		started = true
	} else if sess.declared != declared {
		u.drop(uploadId)
		u.mu.Unlock()
		err := fmt.Errorf("%w: upload %s started with %d bytes, chunk says %d", ErrSizeMismatch, uploadId, sess.declared, declared)
		u.fire(u.hooks.OnFailed, UploadEvent{UploadId: uploadId, Declared: declared, Received: int64(len(sess.data)), Err: err})
		return "", err
	}
	sess.data = append(sess.data, payload...)
	received := int64(len(sess.data))
	done := u.complete(received, declared)
	if done {
		u.drop(uploadId)
	} else {
		u.sessions.Set(uploadId, sess)
	}
	u.mu.Unlock()

	ev := UploadEvent{UploadId: uploadId, Declared: declared, Received: received}
	if started {
		u.fire(u.hooks.OnStart, ev)
	}
	if !done {
		tool.DefaultLogger.Debugf("[Upload] %s: %d/%d bytes", uploadId, received, declared)
		return "", nil
	}

	tool.DefaultLogger.Infof("[Upload] %s complete (%d bytes), processing", uploadId, received)
	ref, err := u.processor.Process(sess.data)
	if err != nil {
		ev.Err = err
		u.fire(u.hooks.OnFailed, ev)
		return "", fmt.Errorf("%w %s: %w", ErrProcess, uploadId, err)
	}
	u.fire(u.hooks.OnEnd, ev)
	return ref, nil
}

// Close drops every session and stops the store's expiry worker.
// Later chunks fail with ErrClosed. Close is idempotent.
func (u *Uploads) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return
	}
	u.closed = true
	u.sessions.Destroy()
	clear(u.live)
}

// Abort discards a session; it reports whether one was live.
func (u *Uploads) Abort(uploadId string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return false
	}
	_, ok := u.live[uploadId]
	u.drop(uploadId)
	return ok
}

// Len returns the number of sessions still accumulating.
func (u *Uploads) Len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return 0
	}
	for id := range u.live {
		if u.sessions.Get(id) == nil {
			delete(u.live, id)
		}
	}
	return len(u.live)
}

// drop must be called with mu held.
func (u *Uploads) drop(uploadId string) {
	u.sessions.Delete(uploadId)
	delete(u.live, uploadId)
}

func (u *Uploads) fire(hook func(UploadEvent), ev UploadEvent) {
	if hook != nil {
		hook(ev)
	}
}

// capacityFor bounds the up-front allocation so a bogus declared size cannot
// reserve arbitrary memory.
func capacityFor(declared int64, first int) int {
	const maxPrealloc = 16 << 20
	if declared > maxPrealloc {
		return first
	}
	return int(declared)
}
