package editor

import (
	"sync"

	"github.com/moyoez/editor-bridge/tool"
	"github.com/moyoez/editor-bridge/types"
)

// Registry owns every live editor instance of the process. Each editor gets
// its own upload store and text buffer; nothing is shared between them.
type Registry struct {
	opts     Options
	notifier Notifier

	mu      sync.RWMutex
	editors map[string]*Editor
}

func NewRegistry(opts Options, notifier Notifier) *Registry {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Registry{
		opts:     opts,
		notifier: notifier,
		editors:  make(map[string]*Editor),
	}
}

// Setup creates an editor instance and announces it.
func (r *Registry) Setup(readOnly bool, content string) *Editor {
	e := newEditor(tool.GenerateEditorID(), r.opts, r.notifier, readOnly, content)

	r.mu.Lock()
	r.editors[e.id] = e
	r.mu.Unlock()

	tool.DefaultLogger.Infof("[Editor] setup %s (readOnly=%v)", e.id, readOnly)
	r.notifier.Notify(&types.Notification{
		Type:     types.NotifyTypeSetup,
		EditorId: e.id,
		Data:     map[string]any{"readOnly": readOnly},
	})
	return e
}

func (r *Registry) Get(id string) (*Editor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.editors[id]
	return e, ok
}

// Destroy tears an editor down and forgets it.
func (r *Registry) Destroy(id string) error {
	r.mu.Lock()
	e, ok := r.editors[id]
	delete(r.editors, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if e.destroy() {
		tool.DefaultLogger.Infof("[Editor] destroyed %s", id)
	}
	return nil
}

// DestroyAll is used on shutdown.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	editors := r.editors
	r.editors = make(map[string]*Editor)
	r.mu.Unlock()
	for _, e := range editors {
		e.destroy()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.editors)
}
