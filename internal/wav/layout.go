package wav

import (
	"fmt"
	"strings"

	"github.com/youpy/go-riff"
)

// Chunk is one subchunk of a RIFF file.
type Chunk struct {
	ID   string
	Size uint32
}

// Layout is the top-level chunk structure of a RIFF file.
type Layout struct {
	FileType string
	Size     uint32
	Chunks   []Chunk
}

// ReadLayout lists the subchunks of r without decoding any of them.
// Truncated chunks are reported as ErrFormat.
func ReadLayout(r riff.RIFFReader) (layout Layout, err error) {
	// go-riff panics when a chunk runs past the end of r.
	defer func() {
		if v := recover(); v != nil {
			layout, err = Layout{}, fmt.Errorf("%w: %v", ErrFormat, v)
		}
	}()

	c, err := riff.NewReader(r).Read()
	if err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	l := Layout{
		FileType: string(c.FileType[:]),
		Size:     c.FileSize,
		Chunks:   make([]Chunk, 0, len(c.Chunks)),
	}
	for _, ch := range c.Chunks {
		l.Chunks = append(l.Chunks, Chunk{ID: string(ch.ChunkID[:]), Size: ch.ChunkSize})
	}
	return l, nil
}

// Find returns the first chunk with the given ID.
func (l Layout) Find(id string) (Chunk, bool) {
	for _, c := range l.Chunks {
		if c.ID == id {
			return c, true
		}
	}
	return Chunk{}, false
}

// String formats the layout as e.g. "WAVE [fmt  16] [data 3200]".
func (l Layout) String() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(l.FileType))
	for _, c := range l.Chunks {
		fmt.Fprintf(&b, " [%s %d]", c.ID, c.Size)
	}
	return b.String()
}
