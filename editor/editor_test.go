package editor

import (
	"bytes"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/editor-bridge/assembler"
	"github.com/moyoez/editor-bridge/types"
)

type recorder struct {
	mu     sync.Mutex
	events []types.Notification
}

func (r *recorder) Notify(n *types.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *n)
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func (r *recorder) last() types.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func testOptions() Options {
	return Options{
		Processor: assembler.ProcessorFunc(func(data []byte) (string, error) {
			return "ref:" + string(data), nil
		}),
		Boundary:      assembler.ExactBoundary,
		SessionTTL:    time.Minute,
		ChunkSize:     4,
		TextChunkSize: 3,
	}
}

func TestRegistryLifecycle(t *testing.T) {
	rec := &recorder{}
	reg := NewRegistry(testOptions(), rec)

	e := reg.Setup(false, "<p>start</p>")
	require.NotEmpty(t, e.ID())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, "<p>start</p>", e.Value())

	got, ok := reg.Get(e.ID())
	require.True(t, ok)
	assert.Same(t, e, got)

	require.NoError(t, reg.Destroy(e.ID()))
	assert.ErrorIs(t, reg.Destroy(e.ID()), ErrNotFound)
	assert.Zero(t, reg.Len())
	assert.Equal(t, []string{types.NotifyTypeSetup, types.NotifyTypeDestroy}, rec.kinds())

	assert.ErrorIs(t, e.TextChanged("x", true), ErrDestroyed)
	assert.ErrorIs(t, e.Update("x"), ErrDestroyed)
}

func TestEditorsAreIndependent(t *testing.T) {
	reg := NewRegistry(testOptions(), nil)
	a := reg.Setup(false, "")
	b := reg.Setup(false, "")

	require.NoError(t, a.TextChanged("aa", false))
	require.NoError(t, b.TextChanged("bbb", true))
	assert.Equal(t, "bbb", b.Value())
	assert.Equal(t, "", a.Value())

	require.NoError(t, a.TextChanged("a", true))
	assert.Equal(t, "aaa", a.Value())

	_, err := a.UploadChunk("same-id", []byte("1234"), 6)
	require.NoError(t, err)
	ref, err := b.UploadChunk("same-id", []byte("xy"), 2)
	require.NoError(t, err)
	assert.Equal(t, "ref:xy", ref)
	ref, err = a.UploadChunk("same-id", []byte("56"), 6)
	require.NoError(t, err)
	assert.Equal(t, "ref:123456", ref)
}

func TestEditorTextChangedNotifiesValue(t *testing.T) {
	rec := &recorder{}
	e := NewRegistry(testOptions(), rec).Setup(false, "")

	for _, c := range []struct {
		text string
		last bool
	}{{"Hel", false}, {"loW", false}, {"orl", false}, {"d", true}} {
		require.NoError(t, e.TextChanged(c.text, c.last))
	}
	assert.Equal(t, "HelloWorld", e.Value())

	ev := rec.last()
	assert.Equal(t, types.NotifyTypeValueChanged, ev.Type)
	assert.Equal(t, e.ID(), ev.EditorId)
	assert.Equal(t, "HelloWorld", ev.Data["value"])
	assert.Equal(t, true, ev.Data["changed"])
}

func TestEditorEmptyDocument(t *testing.T) {
	e := NewRegistry(testOptions(), nil).Setup(false, "<p>old</p>")
	require.NoError(t, e.TextChanged("", true))
	assert.Equal(t, "", e.Value())
}

func TestEditorRejectsOversizedChunks(t *testing.T) {
	e := NewRegistry(testOptions(), nil).Setup(false, "")

	_, err := e.UploadChunk("u", []byte("12345"), 5)
	assert.ErrorIs(t, err, ErrChunkTooLarge)

	require.NoError(t, e.TextChanged("ab", false))
	assert.ErrorIs(t, e.TextChanged("abcd", false), ErrChunkTooLarge)
	// the partial event was dropped, the next one starts clean.
	require.NoError(t, e.TextChanged("ok", true))
	assert.Equal(t, "ok", e.Value())

	// three multi-byte characters fit a three character chunk.
	require.NoError(t, e.TextChanged("äöü", true))
	assert.Equal(t, "äöü", e.Value())
}

func TestEditorReadOnly(t *testing.T) {
	rec := &recorder{}
	e := NewRegistry(testOptions(), rec).Setup(true, "keep")

	_, err := e.UploadChunk("u", []byte("1"), 1)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, e.TextChanged("x", true), ErrReadOnly)
	assert.Equal(t, "keep", e.Value())

	require.NoError(t, e.SetReadOnly(false))
	assert.False(t, e.ReadOnly())
	assert.Equal(t, types.NotifyTypeSetReadOnly, rec.last().Type)
	require.NoError(t, e.TextChanged("x", true))
}

func TestEditorUpdateDropsPartialEvent(t *testing.T) {
	rec := &recorder{}
	e := NewRegistry(testOptions(), rec).Setup(false, "")

	require.NoError(t, e.TextChanged("par", false))
	require.NoError(t, e.Update("<p>host</p>"))
	assert.Equal(t, "<p>host</p>", e.Value())
	assert.Equal(t, types.NotifyTypeUpdate, rec.last().Type)
	assert.Equal(t, "<p>host</p>", rec.last().Data["content"])

	require.NoError(t, e.TextChanged("new", true))
	assert.Equal(t, "new", e.Value())
}

func TestEditorUploadNotifications(t *testing.T) {
	rec := &recorder{}
	e := NewRegistry(testOptions(), rec).Setup(false, "")

	src := []byte("0123456789")
	var ref string
	for off := 0; off < len(src); off += 4 {
		end := min(off+4, len(src))
		r, err := e.UploadChunk("up-1", src[off:end], int64(len(src)))
		require.NoError(t, err)
		ref = r
	}
	assert.Equal(t, "ref:"+string(src), ref)
	assert.Equal(t, []string{types.NotifyTypeSetup, types.NotifyTypeUploadStart, types.NotifyTypeUploadEnd}, rec.kinds())
	assert.Equal(t, 0, e.Info().Uploads)
}

func TestEditorUploadFailureNotifies(t *testing.T) {
	rec := &recorder{}
	opts := testOptions()
	opts.Processor = assembler.ProcessorFunc(func([]byte) (string, error) {
		return "", assert.AnError
	})
	e := NewRegistry(opts, rec).Setup(false, "")

	_, err := e.UploadChunk("up", bytes.Repeat([]byte("x"), 3), 3)
	assert.ErrorIs(t, err, assert.AnError)
	ev := rec.last()
	assert.Equal(t, types.NotifyTypeUploadFailed, ev.Type)
	assert.Equal(t, "up", ev.Data["uploadId"])
}

func TestRegistryDestroyAll(t *testing.T) {
	rec := &recorder{}
	reg := NewRegistry(testOptions(), rec)
	reg.Setup(false, "")
	reg.Setup(false, "")
	reg.DestroyAll()
	assert.Zero(t, reg.Len())
	assert.Len(t, rec.kinds(), 4)
}

func TestDestroyReleasesUploadStore(t *testing.T) {
	reg := NewRegistry(testOptions(), nil)
	before := runtime.NumGoroutine()
	for i := 0; i < 100; i++ {
		e := reg.Setup(false, "")
		_, err := e.UploadChunk("u", []byte("12"), 10)
		require.NoError(t, err)
		require.NoError(t, reg.Destroy(e.ID()))
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+5
	}, 2*time.Second, 20*time.Millisecond)
}

func TestEditorRejectedChunkDropsPartialEvent(t *testing.T) {
	reg := NewRegistry(testOptions(), nil)
	e := reg.Setup(false, "<p>keep</p>")

	require.NoError(t, e.TextChanged("<p>", false))
	require.NoError(t, e.SetReadOnly(true))
	assert.ErrorIs(t, e.TextChanged("old", false), ErrReadOnly)
	require.NoError(t, e.SetReadOnly(false))

	require.NoError(t, e.TextChanged("new", true))
	assert.Equal(t, "new", e.Value())
}

func TestEditorRejectsOversizedUpload(t *testing.T) {
	opts := testOptions()
	opts.MaxUploadSize = 6
	e := NewRegistry(opts, nil).Setup(false, "")

	_, err := e.UploadChunk("u", []byte("12"), 7)
	assert.ErrorIs(t, err, assembler.ErrMalformedChunk)
}
