package render

import (
	"image/color"

	"github.com/akeil/twtw/internal/imaging"
	"github.com/akeil/twtw/pkg/curves"
)

// Context holds parameters for rendering operations.
//
// If multiple pages are rendered, they should use the same Context.
type Context struct {
	// Width of a rendered page in pixels. The height follows the aspect
	// ratio of the canvas.
	Width int
	// Background is painted below the photo.
	Background color.Color
	// NoPhoto leaves out the background photo.
	NoPhoto bool
	// Gray renders in grayscale.
	Gray bool
	// SkipEmpty leaves empty pages out of PDF documents.
	SkipEmpty bool
}

// NewContext sets up a new rendering context for the given output width.
func NewContext(width int) *Context {
	return &Context{
		Width:      width,
		Background: color.White,
	}
}

// DefaultContext renders pages at the size of the canvas.
func DefaultContext() *Context {
	return NewContext(curves.CanvasWidth)
}

// size returns the output size in pixels.
func (c *Context) size() (int, int) {
	w := c.Width
	if w <= 0 {
		w = curves.CanvasWidth
	}
	h := w * curves.CanvasHeight / curves.CanvasWidth
	if h < 1 {
		h = 1
	}
	return w, h
}

// transform maps canvas coordinates to output pixels.
func (c *Context) transform() imaging.Affine {
	w, h := c.size()
	return imaging.Scaling(float64(w)/curves.CanvasWidth, float64(h)/curves.CanvasHeight)
}

func (c *Context) background() color.Color {
	if c.Background == nil {
		return color.White
	}
	return c.Background
}
