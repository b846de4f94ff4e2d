package photo

import (
	"image"
	"image/color"
	"sync"

	"github.com/akeil/twtw/internal/fixed"
	"github.com/akeil/twtw/pkg/curves"
)

// ChromaScale reduces saturation on display so heavily compressed chroma
// looks calm behind the ink.
var ChromaScale = fixed.FromFloat(0.6)

// Rec.601 coefficients for YCbCr to RGB.
var (
	lumaMul  = fixed.FromFloat(1.164)
	crMulR   = fixed.FromFloat(1.596)
	crMulG   = fixed.FromFloat(0.813)
	cbMulG   = fixed.FromFloat(0.391)
	cbMulB   = fixed.FromFloat(2.018)
	fixed255 = fixed.FromInt(255)
)

const toneSteps = 512

var (
	toneOnce sync.Once
	toneLUT  [256]uint8
)

// ToneCurve returns the S-shaped lookup table applied to every RGB channel.
func ToneCurve() [256]uint8 {
	toneOnce.Do(buildToneCurve)
	return toneLUT
}

func buildToneCurve() {
	seg := curves.Segment{
		Type:     curves.CatmullRom,
		Start:    curves.FloatPt(0, 0),
		End:      curves.FloatPt(255, 255),
		Control1: curves.FloatPt(-0.9*255, -0.2*255),
		Control2: curves.FloatPt(2.9*255, 0.8*255),
	}
	pts := curves.Evaluate(seg, toneSteps)

	for n := range toneLUT {
		want := fixed.FromInt(n)
		ix := 0
		for ix = 0; ix < len(pts)-1; ix++ {
			if pts[ix].X >= want {
				break
			}
		}
		y := fixed.Clamp(pts[ix].Y, 0, fixed255)
		toneLUT[n] = uint8(y.Int())
	}
}

// ToRGBA converts a photo for display.
//
// A stride greater than one skips source pixels and produces a smaller
// image directly. Strides below one are treated as one.
func ToRGBA(img *YUVImage, xStride, yStride int) *image.RGBA {
	if xStride < 1 {
		xStride = 1
	}
	if yStride < 1 {
		yStride = 1
	}
	lut := ToneCurve()

	dw := (img.Width + xStride - 1) / xStride
	dh := (img.Height + yStride - 1) / yStride
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < img.Height; y += yStride {
		row := img.Pix[img.RowBytes*y:]
		out := dst.Pix[dst.Stride*(y/yStride):]
		o := 0
		for x := 0; x < img.Width; x += xStride {
			i := (x / 2) * 4
			cb := fixed.FromInt(int(row[i]) - 128)
			cr := fixed.FromInt(int(row[i+2]) - 128)
			lum := fixed.FromInt(int(row[i+1+(x&1)*2]) - 16)

			cr = fixed.MulCoarse(cr, ChromaScale)
			cb = fixed.MulCoarse(cb, ChromaScale)
			yy := fixed.MulCoarse(lumaMul, lum)

			r := yy + fixed.MulCoarse(crMulR, cr)
			g := yy - fixed.MulCoarse(crMulG, cr) - fixed.MulCoarse(cbMulG, cb)
			b := yy + fixed.MulCoarse(cbMulB, cb)

			out[o] = lut[fixed.Clamp(r, 0, fixed255).Int()]
			out[o+1] = lut[fixed.Clamp(g, 0, fixed255).Int()]
			out[o+2] = lut[fixed.Clamp(b, 0, fixed255).Int()]
			out[o+3] = 0xff
			o += 4
		}
	}
	return dst
}

// FromImage converts any image to a UYVY photo of the same size, rounded
// down to an even width. It returns nil for images narrower than two
// pixels.
func FromImage(src image.Image) *YUVImage {
	b := src.Bounds()
	w := b.Dx() &^ 1
	h := b.Dy()
	if w < 2 || h < 1 {
		return nil
	}

	img := New(w, h)
	for y := 0; y < h; y++ {
		row := img.Pix[img.RowBytes*y:]
		for x := 0; x < w; x += 2 {
			r1, g1, b1 := rgbFloat(src.At(b.Min.X+x, b.Min.Y+y))
			r2, g2, b2 := rgbFloat(src.At(b.Min.X+x+1, b.Min.Y+y))

			o := (x / 2) * 4
			row[o] = byte(int(128+(-37.797*r1-74.203*g1+112.0*b1)) & 0xff)
			row[o+1] = byte(int(16+(65.481*r1+128.553*g1+24.966*b1)) & 0xff)
			row[o+2] = byte(int(128+(112.0*r1-93.786*g1-18.214*b1)) & 0xff)
			row[o+3] = byte(int(16+(65.481*r2+128.553*g2+24.966*b2)) & 0xff)
		}
	}
	return img
}

func rgbFloat(c color.Color) (float64, float64, float64) {
	r, g, b, _ := c.RGBA()
	return float64(r>>8) / 255, float64(g>>8) / 255, float64(b>>8) / 255
}
