// Package render paints book pages to images and PDF documents.
package render

import (
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/llgcode/draw2d/draw2dimg"

	"github.com/akeil/twtw"
	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/imaging"
	"github.com/akeil/twtw/internal/logging"
	"github.com/akeil/twtw/pkg/photo"
)

// Page renders a page with the default context and writes it as PNG to
// the given writer.
func Page(p *twtw.Page, w io.Writer) error {
	return DefaultContext().Page(p, w)
}

// Page renders a page and writes it as PNG to the given writer.
func (c *Context) Page(p *twtw.Page, w io.Writer) error {
	if p == nil {
		return errors.NewParamError("missing page")
	}
	err := png.Encode(w, c.Image(p))
	if err != nil {
		return errors.NewFileError(err, "encode PNG for %v", p)
	}
	return nil
}

// Image renders a page: background, photo, then the curves in z-order.
func (c *Context) Image(p *twtw.Page) image.Image {
	w, h := c.size()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	renderBackground(c, dst)

	if !c.NoPhoto && p.Photo() != nil {
		renderPhoto(dst, p.Photo())
	}

	gc := draw2dimg.NewGraphicContext(dst)
	b := newBrush(gc, c.transform())
	for _, cl := range p.Curves() {
		b.Stroke(cl)
	}
	logging.Debug("Rendered %v at %dx%d", p, w, h)

	if c.Gray {
		return imaging.ToGray(dst)
	}
	return dst
}

// renderBackground fills the complete destination image with the
// background color.
func renderBackground(c *Context, dst draw.Image) {
	bg := image.NewUniform(c.background())
	draw.Draw(dst, dst.Bounds(), bg, image.Point{}, draw.Src)
}

// renderPhoto scales the photo to cover the destination.
// Large photos are subsampled while converting to RGB.
func renderPhoto(dst draw.Image, img *photo.YUVImage) {
	b := dst.Bounds()
	xs := img.Width / b.Dx()
	ys := img.Height / b.Dy()
	rgb := photo.ToRGBA(img, xs, ys)
	scaled := imaging.Resize(rgb, b.Dx(), b.Dy())
	draw.Draw(dst, b, scaled, image.Point{}, draw.Src)
}

// Thumbnail returns a rendered image of the page with the given width.
// The image is cached on the page until the page is modified.
func Thumbnail(p *twtw.Page, width int) image.Image {
	if t := p.Thumbnail(); t != nil && t.Bounds().Dx() == width {
		return t
	}
	img := NewContext(width).Image(p)
	p.SetThumbnail(img)
	return img
}
