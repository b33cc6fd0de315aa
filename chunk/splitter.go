// Package chunk splits byte and character sources into bounded chunks
// for transfer over a call-and-response channel.
package chunk

import (
	"errors"
	"fmt"
	"io"

	"github.com/moyoez/editor-bridge/tool"
)

var (
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
	ErrNegativeSize     = errors.New("source size must not be negative")
	ErrShortSource      = errors.New("source ended before its declared size")
)

// Chunk is one slice of a binary source.
type Chunk struct {
	Index   int
	Offset  int64
	Payload []byte
}

// Splitter reads a source of known size sequentially and hands out one
// chunk per Next call. Only the current chunk is held in memory.
type Splitter struct {
	src    io.Reader
	id     string
	total  int64
	size   int
	offset int64
	index  int
}

// NewSplitter prepares a split of r, which must yield exactly total bytes.
// The upload id is generated here and stays fixed for the whole sequence.
func NewSplitter(r io.Reader, total int64, size int) (*Splitter, error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if total < 0 {
		return nil, ErrNegativeSize
	}
	return &Splitter{
		src:   r,
		id:    tool.GenerateRandomUUID(),
		total: total,
		size:  size,
	}, nil
}

// ID is the upload identifier reported alongside every chunk.
func (s *Splitter) ID() string { return s.id }

// Total is the declared source size reported alongside every chunk.
func (s *Splitter) Total() int64 { return s.total }

// Count is the number of chunks the sequence yields: ceil(total/size).
func (s *Splitter) Count() int {
	return int((s.total + int64(s.size) - 1) / int64(s.size))
}

// Next reads the next chunk. It returns io.EOF once total bytes were handed out.
func (s *Splitter) Next() (Chunk, error) {
	remaining := s.total - s.offset
	if remaining <= 0 {
		return Chunk{}, io.EOF
	}
	n := int64(s.size)
	if remaining < n {
		n = remaining
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(s.src, buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Chunk{}, fmt.Errorf("%w: got %d of %d bytes", ErrShortSource, s.offset+int64(read), s.total)
		}
		return Chunk{}, fmt.Errorf("read chunk %d: %w", s.index, err)
	}
	c := Chunk{Index: s.index, Offset: s.offset, Payload: buf}
	s.offset += n
	s.index++
	return c, nil
}
