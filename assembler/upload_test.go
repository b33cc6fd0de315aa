package assembler

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/editor-bridge/chunk"
)

// echo returns the assembled bytes as the reference so tests can compare them.
var echo = ProcessorFunc(func(data []byte) (string, error) {
	return string(data), nil
})

func newEcho(boundary Boundary) *Uploads {
	return NewUploads(echo, boundary, time.Minute, UploadHooks{})
}

func sendAll(t *testing.T, u *Uploads, src []byte, size int) []string {
	t.Helper()
	s, err := chunk.NewSplitter(bytes.NewReader(src), int64(len(src)), size)
	require.NoError(t, err)
	var results []string
	for {
		c, err := s.Next()
		if err != nil {
			break
		}
		ref, err := u.ReceiveChunk(s.ID(), c.Payload, s.Total())
		require.NoError(t, err)
		results = append(results, ref)
	}
	return results
}

func TestUploadsRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 7, 100, 1000} {
		src := make([]byte, n)
		for i := range src {
			src[i] = byte(i * 31)
		}
		for _, size := range []int{1, 2, 3, 64, 1000, 5000} {
			t.Run(fmt.Sprintf("n=%d/size=%d", n, size), func(t *testing.T) {
				u := newEcho(ExactBoundary)
				results := sendAll(t, u, src, size)
				require.NotEmpty(t, results)
				for _, r := range results[:len(results)-1] {
					assert.Empty(t, r)
				}
				assert.Equal(t, string(src), results[len(results)-1])
				assert.Zero(t, u.Len())
			})
		}
	}
}

func TestUploadsEmptySourceSendsNothing(t *testing.T) {
	u := newEcho(ExactBoundary)
	assert.Empty(t, sendAll(t, u, nil, 4))
	assert.Zero(t, u.Len())
}

func TestUploadsLenientCompletesWithinOneByte(t *testing.T) {
	u := newEcho(LenientBoundary)

	ref, err := u.ReceiveChunk("a", []byte("1234"), 10)
	require.NoError(t, err)
	assert.Empty(t, ref)

	ref, err = u.ReceiveChunk("a", []byte("56789"), 10)
	require.NoError(t, err)
	assert.Equal(t, "123456789", ref)
	assert.Zero(t, u.Len())
}

func TestUploadsExactWaitsForLastByte(t *testing.T) {
	u := newEcho(ExactBoundary)

	ref, err := u.ReceiveChunk("a", []byte("123456789"), 10)
	require.NoError(t, err)
	assert.Empty(t, ref)
	assert.Equal(t, 1, u.Len())

	ref, err = u.ReceiveChunk("a", []byte("0"), 10)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", ref)
}

func TestUploadsSingleFinalPerUpload(t *testing.T) {
	var ends int
	u := NewUploads(echo, ExactBoundary, time.Minute, UploadHooks{
		OnEnd: func(UploadEvent) { ends++ },
	})
	results := sendAll(t, u, bytes.Repeat([]byte("z"), 25), 4)
	finals := 0
	for _, r := range results {
		if r != "" {
			finals++
		}
	}
	assert.Equal(t, 1, finals)
	assert.Equal(t, 1, ends)
}

func TestUploadsIsolatesInterleavedSessions(t *testing.T) {
	u := newEcho(ExactBoundary)
	a := []byte("aaaaaaaaaa")
	b := []byte("bbbbbbbbbbbbbbb")

	var refA, refB string
	for i := 0; i < 5; i++ {
		if i*2 < len(a) {
			r, err := u.ReceiveChunk("A", a[i*2:i*2+2], int64(len(a)))
			require.NoError(t, err)
			if r != "" {
				refA = r
			}
		}
		r, err := u.ReceiveChunk("B", b[i*3:i*3+3], int64(len(b)))
		require.NoError(t, err)
		if r != "" {
			refB = r
		}
	}
	assert.Equal(t, string(a), refA)
	assert.Equal(t, string(b), refB)
}

func TestUploadsConcurrentSessions(t *testing.T) {
	u := newEcho(ExactBoundary)
	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src := bytes.Repeat([]byte{byte('a' + i)}, 100+i)
			id := fmt.Sprintf("upload-%d", i)
			for off := 0; off < len(src); off += 7 {
				end := min(off+7, len(src))
				ref, err := u.ReceiveChunk(id, src[off:end], int64(len(src)))
				if err != nil {
					return
				}
				if ref != "" {
					results[i] = ref
				}
			}
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		assert.Equal(t, string(bytes.Repeat([]byte{byte('a' + i)}, 100+i)), r)
	}
	assert.Zero(t, u.Len())
}

func TestUploadsRejectsMalformedChunk(t *testing.T) {
	u := newEcho(ExactBoundary)
	_, err := u.ReceiveChunk("", []byte("x"), 1)
	assert.ErrorIs(t, err, ErrMalformedChunk)
	_, err = u.ReceiveChunk("a", []byte("x"), 0)
	assert.ErrorIs(t, err, ErrMalformedChunk)
	_, err = u.ReceiveChunk("a", nil, 10)
	assert.ErrorIs(t, err, ErrMalformedChunk)
	assert.Zero(t, u.Len())
}

func TestUploadsSizeMismatchDropsOnlyThatSession(t *testing.T) {
	u := newEcho(ExactBoundary)
	_, err := u.ReceiveChunk("a", []byte("12"), 10)
	require.NoError(t, err)
	_, err = u.ReceiveChunk("b", []byte("xy"), 4)
	require.NoError(t, err)

	_, err = u.ReceiveChunk("a", []byte("34"), 11)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.Equal(t, 1, u.Len())

	ref, err := u.ReceiveChunk("b", []byte("zw"), 4)
	require.NoError(t, err)
	assert.Equal(t, "xyzw", ref)
}

func TestUploadsProcessorFailureDiscardsSession(t *testing.T) {
	boom := errors.New("not an image")
	var failed []UploadEvent
	u := NewUploads(ProcessorFunc(func([]byte) (string, error) { return "", boom }), ExactBoundary, time.Minute, UploadHooks{
		OnFailed: func(ev UploadEvent) { failed = append(failed, ev) },
	})

	_, err := u.ReceiveChunk("a", []byte("abc"), 3)
	assert.ErrorIs(t, err, ErrProcess)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, u.Len())
	require.Len(t, failed, 1)
	assert.Equal(t, "a", failed[0].UploadId)

	// the id is free again; a retry starts a fresh session.
	_, err = u.ReceiveChunk("a", []byte("ab"), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Len())
}

func TestUploadsAbort(t *testing.T) {
	u := newEcho(ExactBoundary)
	_, err := u.ReceiveChunk("a", []byte("12"), 10)
	require.NoError(t, err)
	assert.True(t, u.Abort("a"))
	assert.False(t, u.Abort("a"))
	assert.Zero(t, u.Len())
}

func TestUploadsStartHookFiresOnce(t *testing.T) {
	var starts int
	u := NewUploads(echo, ExactBoundary, time.Minute, UploadHooks{
		OnStart: func(UploadEvent) { starts++ },
	})
	sendAll(t, u, bytes.Repeat([]byte("q"), 10), 3)
	assert.Equal(t, 1, starts)
}

func TestBoundaryFor(t *testing.T) {
	assert.True(t, BoundaryFor("lenient")(9, 10))
	assert.False(t, BoundaryFor("exact")(9, 10))
	assert.False(t, BoundaryFor("")(9, 10))
}

func TestUploadsExpiredSessionFails(t *testing.T) {
	var failed []UploadEvent
	u := NewUploads(echo, ExactBoundary, 20*time.Millisecond, UploadHooks{
		OnFailed: func(ev UploadEvent) { failed = append(failed, ev) },
	})

	_, err := u.ReceiveChunk("slow", []byte("ab"), 4)
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)

	_, err = u.ReceiveChunk("slow", []byte("cd"), 4)
	assert.ErrorIs(t, err, ErrMalformedChunk)
	require.Len(t, failed, 1)
	assert.Equal(t, "slow", failed[0].UploadId)
	assert.Zero(t, u.Len())
}

func TestUploadsRejectsOversizedDeclaration(t *testing.T) {
	u := NewUploads(echo, ExactBoundary, time.Minute, UploadHooks{}, WithMaxSize(8))

	_, err := u.ReceiveChunk("big", []byte("a"), 9)
	assert.ErrorIs(t, err, ErrMalformedChunk)
	assert.Zero(t, u.Len())

	ref, err := u.ReceiveChunk("fits", []byte("12345678"), 8)
	require.NoError(t, err)
	assert.Equal(t, "12345678", ref)
}

func TestUploadsClose(t *testing.T) {
	u := newEcho(ExactBoundary)
	_, err := u.ReceiveChunk("a", []byte("12"), 10)
	require.NoError(t, err)

	u.Close()
	u.Close()
	assert.Zero(t, u.Len())
	assert.False(t, u.Abort("a"))
	_, err = u.ReceiveChunk("a", []byte("34"), 10)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestUploadsCloseStopsExpiryWorker(t *testing.T) {
	before := runtime.NumGoroutine()
	for i := 0; i < 100; i++ {
		newEcho(ExactBoundary).Close()
	}
	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before+5
	}, 2*time.Second, 20*time.Millisecond)
}
