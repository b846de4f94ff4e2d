// Package photo holds the background photo of a page and its disk codec.
//
// Photos are kept in memory as packed 4:2:2 UYVY (byte order Cb, Y0, Cr, Y1
// for every two pixels). On disk they are stored as planar 4:2:0 with
// reduced precision and deflated, see Encode and Decode.
package photo

import (
	"fmt"
	"image"
	"image/color"
)

// FourCC is a four character code stored as a little-endian uint32.
type FourCC uint32

// MakeFourCC builds a FourCC from a four character string.
func MakeFourCC(s string) FourCC {
	if len(s) != 4 {
		panic(fmt.Sprintf("invalid fourcc %q", s))
	}
	return FourCC(uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24)
}

func (f FourCC) String() string {
	b := []byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08x", uint32(f))
		}
	}
	return string(b)
}

var (
	// UYVY is the in-memory pixel format.
	UYVY = MakeFourCC("UYVY")
	// TwYZ is planar 4:2:0 with 5-bit chroma. This is the format written.
	TwYZ = MakeFourCC("twYZ")
	// TwY4 is planar 4:2:0 with 4-bit chroma (read only).
	TwY4 = MakeFourCC("twY4")
	// TwYU is planar 4:2:0 with 8-bit chroma (read only).
	TwYU = MakeFourCC("twYU")
)

// Default capture size.
const (
	DefaultWidth  = 320
	DefaultHeight = 200
)

// YUVImage is a packed 4:2:2 image.
type YUVImage struct {
	Width       int
	Height      int
	RowBytes    int
	PixelFormat FourCC
	Pix         []byte
}

// New allocates a black UYVY image of the given size.
func New(w, h int) *YUVImage {
	img := &YUVImage{
		Width:       w,
		Height:      h,
		RowBytes:    w * 2,
		PixelFormat: UYVY,
		Pix:         make([]byte, w*2*h),
	}
	for i := 0; i < len(img.Pix); i += 2 {
		img.Pix[i] = 128
		img.Pix[i+1] = 16
	}
	return img
}

// Validate checks dimensions, stride and buffer size.
func (img *YUVImage) Validate() error {
	if img.PixelFormat != UYVY {
		return fmt.Errorf("unsupported pixel format: %v", img.PixelFormat)
	}
	if img.Width < 2 || img.Height < 1 {
		return fmt.Errorf("invalid size: %dx%d", img.Width, img.Height)
	}
	if img.Width%2 != 0 {
		return fmt.Errorf("width must be even: %d", img.Width)
	}
	if img.RowBytes < img.Width*2 {
		return fmt.Errorf("row bytes %d too small for width %d", img.RowBytes, img.Width)
	}
	need := img.RowBytes*(img.Height-1) + img.Width*2
	if len(img.Pix) < need {
		return fmt.Errorf("buffer of %d bytes too small, need %d", len(img.Pix), need)
	}
	return nil
}

// Clone returns a deep copy.
func (img *YUVImage) Clone() *YUVImage {
	c := *img
	c.Pix = make([]byte, len(img.Pix))
	copy(c.Pix, img.Pix)
	return &c
}

// ColorModel implements image.Image.
func (img *YUVImage) ColorModel() color.Model {
	return color.YCbCrModel
}

// Bounds implements image.Image.
func (img *YUVImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

// At implements image.Image.
func (img *YUVImage) At(x, y int) color.Color {
	return img.YCbCrAt(x, y)
}

// YCbCrAt returns the sample for the pixel at x, y.
func (img *YUVImage) YCbCrAt(x, y int) color.YCbCr {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return color.YCbCr{}
	}
	i := img.RowBytes*y + (x/2)*4
	return color.YCbCr{
		Y:  img.Pix[i+1+(x&1)*2],
		Cb: img.Pix[i],
		Cr: img.Pix[i+2],
	}
}

// Set stores luma for the pixel at x, y and the chroma for its pixel pair.
func (img *YUVImage) Set(x, y int, c color.YCbCr) {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return
	}
	i := img.RowBytes*y + (x/2)*4
	img.Pix[i+1+(x&1)*2] = c.Y
	img.Pix[i] = c.Cb
	img.Pix[i+2] = c.Cr
}
