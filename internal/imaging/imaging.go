package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Resize creates a copy of the given image, scaled to width x height.
func Resize(i image.Image, width, height int) *image.RGBA {
	size := image.Rect(0, 0, width, height)
	dst := image.NewRGBA(size)
	draw.ApproxBiLinear.Scale(dst, size, i, i.Bounds(), draw.Over, nil)
	return dst
}

// ResizeWidth scales an image to the given width and keeps the aspect ratio.
func ResizeWidth(i image.Image, width int) *image.RGBA {
	b := i.Bounds()
	if b.Dx() == 0 {
		return image.NewRGBA(image.Rect(0, 0, width, 0))
	}
	height := int(math.Round(float64(b.Dy()) * float64(width) / float64(b.Dx())))
	if height < 1 {
		height = 1
	}
	return Resize(i, width, height)
}

// Fill scales an image so that it covers width x height and crops the
// overflow evenly on both sides.
func Fill(i image.Image, width, height int) *image.RGBA {
	b := i.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if b.Empty() {
		return dst
	}

	scale := math.Max(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	sw := int(math.Round(float64(width) / scale))
	sh := int(math.Round(float64(height) / scale))
	x0 := b.Min.X + (b.Dx()-sw)/2
	y0 := b.Min.Y + (b.Dy()-sh)/2
	src := image.Rect(x0, y0, x0+sw, y0+sh).Intersect(b)

	draw.CatmullRom.Scale(dst, dst.Bounds(), i, src, draw.Src, nil)
	return dst
}

// Fit draws the image into width x height with the given background,
// scaled to fit and centered.
func Fit(i image.Image, width, height int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	b := i.Bounds()
	if b.Empty() {
		return dst
	}
	scale := math.Min(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	sw := int(math.Round(float64(b.Dx()) * scale))
	sh := int(math.Round(float64(b.Dy()) * scale))
	x0 := (width - sw) / 2
	y0 := (height - sh) / 2
	draw.ApproxBiLinear.Scale(dst, image.Rect(x0, y0, x0+sw, y0+sh), i, b, draw.Over, nil)
	return dst
}

// ToGray creates a grayscale version of the given image.
func ToGray(i image.Image) *image.Gray {
	b := i.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, i.At(x, y))
		}
	}
	return g
}
