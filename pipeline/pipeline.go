// Package pipeline turns an uploaded raster image into a bounded-size JPEG
// wrapped in a self-contained data reference.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxHeight = 400
	DefaultQuality   = 95
	// DefaultMaxPixels bounds the decoded raster; 40 MP is about 160 MB as RGBA.
	DefaultMaxPixels = 40_000_000
)

var (
	ErrEmpty             = errors.New("image data is empty")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("failed to decode image")
	ErrEncode            = errors.New("failed to encode image")
	ErrTooLarge          = errors.New("image dimensions exceed the pixel limit")
)

// Artifact is the result of one Transform call. It is never persisted.
type Artifact struct {
	SourceMediaType string
	SourceWidth     int
	SourceHeight    int
	Width           int
	Height          int
	MediaType       string
	Encoded         []byte
}

// Pipeline is stateless and safe for concurrent use.
type Pipeline struct {
	MaxHeight int
	Quality   int
	MaxPixels int64 // width*height accepted for decoding
}

func New(maxHeight, quality int) *Pipeline {
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &Pipeline{MaxHeight: maxHeight, Quality: quality, MaxPixels: DefaultMaxPixels}
}

// WithMaxPixels sets the decode limit; n <= 0 keeps DefaultMaxPixels.
func (p *Pipeline) WithMaxPixels(n int64) *Pipeline {
	if n > 0 {
		p.MaxPixels = n
	}
	return p
}

// Process transforms data and returns its data reference string.
func (p *Pipeline) Process(data []byte) (string, error) {
	art, err := p.Transform(data)
	if err != nil {
		return "", err
	}
	return Reference(art.MediaType, art.Encoded), nil
}

// Transform decodes data, scales it down to MaxHeight keeping the aspect ratio
// and re-encodes it as JPEG.
func (p *Pipeline) Transform(data []byte) (*Artifact, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	detected := mimetype.Detect(data)
	if !isRaster(detected) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, detected.String())
	}

	// the header alone is enough to refuse rasters too big to hold in memory.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); p.MaxPixels > 0 && pixels > p.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	bounds := src.Bounds()
	width, height := TargetSize(bounds.Dx(), bounds.Dy(), p.MaxHeight)

	// JPEG has no alpha channel; transparent areas end up white instead of black.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if width == bounds.Dx() && height == bounds.Dy() {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return &Artifact{
		SourceMediaType: detected.String(),
		SourceWidth:     bounds.Dx(),
		SourceHeight:    bounds.Dy(),
		Width:           width,
		Height:          height,
		MediaType:       "image/jpeg",
		Encoded:         buf.Bytes(),
	}, nil
}

func isRaster(m *mimetype.MIME) bool {
	if !strings.HasPrefix(m.String(), "image/") {
		return false
	}
	// vector and icon formats have no decoder registered.
	return !m.Is("image/svg+xml") && !m.Is("image/x-icon")
}
