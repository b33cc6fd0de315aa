package chunk

import "io"

// TextChunk is one slice of a document. IsLast marks the final chunk of a change event.
type TextChunk struct {
	Index  int
	Text   string
	IsLast bool
}

// TextSplitter cuts a document into chunks of at most size characters.
// Characters are runes, so a chunk never splits a UTF-8 sequence.
type TextSplitter struct {
	runes []rune
	size  int
	pos   int
	index int
	done  bool
}

func NewTextSplitter(text string, size int) (*TextSplitter, error) {
	if size <= 0 {
		return nil, ErrInvalidChunkSize
	}
	return &TextSplitter{runes: []rune(text), size: size}, nil
}

// Len is the document length in characters.
func (s *TextSplitter) Len() int { return len(s.runes) }

// Next returns the next chunk, or io.EOF after the chunk flagged IsLast.
// An empty document yields a single empty chunk with IsLast set.
func (s *TextSplitter) Next() (TextChunk, error) {
	if s.done {
		return TextChunk{}, io.EOF
	}
	end := s.pos + s.size
	if end >= len(s.runes) {
		end = len(s.runes)
		s.done = true
	}
	c := TextChunk{Index: s.index, Text: string(s.runes[s.pos:end]), IsLast: s.done}
	s.pos = end
	s.index++
	return c, nil
}

// Split returns every chunk of text at once.
func Split(text string, size int) ([]TextChunk, error) {
	s, err := NewTextSplitter(text, size)
	if err != nil {
		return nil, err
	}
	var out []TextChunk
	for {
		c, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		out = append(out, c)
	}
}
