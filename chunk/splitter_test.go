package chunk

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s *Splitter) [][]byte {
	t.Helper()
	var out [][]byte
	for {
		c, err := s.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, c.Payload)
	}
}

func TestSplitterChunkCount(t *testing.T) {
	cases := []struct {
		total int
		size  int
		want  int
	}{
		{0, 3, 0},
		{1, 3, 1},
		{3, 3, 1},
		{10, 3, 4},
		{9, 3, 3},
		{5, 1, 5},
	}
	for _, tc := range cases {
		src := bytes.Repeat([]byte{'x'}, tc.total)
		s, err := NewSplitter(bytes.NewReader(src), int64(tc.total), tc.size)
		require.NoError(t, err)
		assert.Equal(t, tc.want, s.Count(), "total=%d size=%d", tc.total, tc.size)
		assert.Len(t, collect(t, s), tc.want, "total=%d size=%d", tc.total, tc.size)
	}
}

func TestSplitterPreservesOrderAndContent(t *testing.T) {
	src := []byte("HelloWorld")
	s, err := NewSplitter(bytes.NewReader(src), int64(len(src)), 3)
	require.NoError(t, err)

	chunks := collect(t, s)
	require.Equal(t, [][]byte{[]byte("Hel"), []byte("loW"), []byte("orl"), []byte("d")}, chunks)
	assert.Equal(t, src, bytes.Join(chunks, nil))
}

func TestSplitterIDStable(t *testing.T) {
	s, err := NewSplitter(strings.NewReader("abcdef"), 6, 2)
	require.NoError(t, err)
	id := s.ID()
	require.NotEmpty(t, id)
	collect(t, s)
	assert.Equal(t, id, s.ID())
	assert.Equal(t, int64(6), s.Total())

	other, err := NewSplitter(strings.NewReader("abcdef"), 6, 2)
	require.NoError(t, err)
	assert.NotEqual(t, id, other.ID())
}

func TestSplitterRejectsBadArguments(t *testing.T) {
	_, err := NewSplitter(strings.NewReader("a"), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidChunkSize)

	_, err = NewSplitter(strings.NewReader("a"), -1, 1)
	assert.ErrorIs(t, err, ErrNegativeSize)
}

func TestSplitterShortSource(t *testing.T) {
	s, err := NewSplitter(strings.NewReader("abcd"), 10, 3)
	require.NoError(t, err)

	_, err = s.Next()
	require.NoError(t, err)
	_, err = s.Next()
	assert.ErrorIs(t, err, ErrShortSource)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestSplitterReadError(t *testing.T) {
	boom := errors.New("disk gone")
	s, err := NewSplitter(failingReader{err: boom}, 4, 2)
	require.NoError(t, err)

	_, err = s.Next()
	assert.ErrorIs(t, err, boom)
}

func TestTextSplitterHelloWorld(t *testing.T) {
	chunks, err := Split("HelloWorld", 3)
	require.NoError(t, err)

	texts := make([]string, 0, len(chunks))
	lasts := make([]bool, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
		lasts = append(lasts, c.IsLast)
	}
	assert.Equal(t, []string{"Hel", "loW", "orl", "d"}, texts)
	assert.Equal(t, []bool{false, false, false, true}, lasts)
}

func TestTextSplitterExactMultipleFlagsLast(t *testing.T) {
	chunks, err := Split("abcdef", 3)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.False(t, chunks[0].IsLast)
	assert.True(t, chunks[1].IsLast)
}

func TestTextSplitterEmpty(t *testing.T) {
	chunks, err := Split("", 3)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "", chunks[0].Text)
	assert.True(t, chunks[0].IsLast)
}

func TestTextSplitterKeepsRunesWhole(t *testing.T) {
	chunks, err := Split("größer€", 2)
	require.NoError(t, err)

	var sb strings.Builder
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Text)), 2)
		sb.WriteString(c.Text)
	}
	assert.Equal(t, "größer€", sb.String())
	assert.Len(t, chunks, 4)
}
