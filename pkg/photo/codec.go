package photo

import (
	"github.com/akeil/twtw/internal/deflate"
	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/logging"
)

// Compressed is the disk form of a photo.
type Compressed struct {
	FourCC       FourCC
	Width        int
	Height       int
	OriginalSize int
	Data         []byte
}

// chroma sample precision of the planar formats
type depth int

const (
	depth5 depth = iota
	depth4
	depth8
)

// chromaLayout returns the chroma plane dimensions and the byte size of one
// packed chroma plane.
//
// 4-bit planes are packed per row and drop the last row of an odd height.
// The other formats pack each plane as a whole and round the height up.
func (d depth) chromaLayout(w, h int) (cw, ch, size int) {
	cw = w / 2
	switch d {
	case depth4:
		ch = h / 2
		size = (cw / 2) * ch
	case depth8:
		ch = (h + 1) / 2
		size = cw * ch
	default:
		ch = (h + 1) / 2
		size = Bits5Size(cw * ch)
	}
	return cw, ch, size
}

func (d depth) unpack(plane []byte, cw, ch int) ([]byte, error) {
	switch d {
	case depth8:
		if len(plane) < cw*ch {
			return nil, errors.NewInvalidFormat("8-bit plane too short")
		}
		return plane[:cw*ch], nil
	case depth4:
		rb := cw / 2
		out := make([]byte, cw*ch)
		for y := 0; y < ch; y++ {
			row, err := UnpackNibbles(plane[y*rb:(y+1)*rb], rb*2)
			if err != nil {
				return nil, err
			}
			dst := out[y*cw : (y+1)*cw]
			copy(dst, row)
			// odd chroma width leaves the last column unpacked
			for x := len(row); x < cw; x++ {
				if x > 0 {
					dst[x] = dst[x-1]
				} else {
					dst[x] = 128
				}
			}
		}
		return out, nil
	default:
		return UnpackBits5(plane, cw*ch)
	}
}

func planarSize(d depth, w, h int) int {
	_, _, size := d.chromaLayout(w, h)
	return w*h + 2*size
}

// Encode converts a UYVY image to the compressed twYZ format.
//
// Luma keeps its top 6 bits. Chroma is averaged over vertically adjacent
// rows and keeps its top 5 bits. The planes luma, Cb, Cr are concatenated
// and deflated.
func Encode(img *YUVImage) (*Compressed, error) {
	if img == nil {
		return nil, errors.NewParamError("no image")
	}
	err := img.Validate()
	if err != nil {
		return nil, errors.NewParamError("invalid photo: %v", err)
	}

	w, h := img.Width, img.Height
	cw, ch, _ := depth5.chromaLayout(w, h)

	planar := make([]byte, 0, planarSize(depth5, w, h))
	for y := 0; y < h; y++ {
		row := img.Pix[img.RowBytes*y:]
		for x := 0; x < w; x++ {
			planar = append(planar, row[x*2+1]&0xfc)
		}
	}

	cb := make([]byte, cw*ch)
	cr := make([]byte, cw*ch)
	for y := 0; y < ch; y++ {
		y1 := y * 2
		y2 := y1 + 1
		if y2 >= h {
			y2 = h - 1
		}
		src1 := img.Pix[img.RowBytes*y1:]
		src2 := img.Pix[img.RowBytes*y2:]
		for x := 0; x < cw; x++ {
			cb[y*cw+x] = byte((int(src1[x*4]) + int(src2[x*4])) >> 1)
			cr[y*cw+x] = byte((int(src1[x*4+2]) + int(src2[x*4+2])) >> 1)
		}
	}
	planar = append(planar, PackBits5(cb)...)
	planar = append(planar, PackBits5(cr)...)

	data, err := deflate.Deflate(planar)
	if err != nil {
		return nil, err
	}
	logging.Debug("deflated planar image: %d -> %d bytes (%.3f)", len(planar), len(data), float64(len(data))/float64(len(planar)))

	return &Compressed{
		FourCC:       TwYZ,
		Width:        w,
		Height:       h,
		OriginalSize: len(planar),
		Data:         data,
	}, nil
}

// candidates lists the chroma precisions a format may hold. twYZ data
// was also written with 4-bit chroma.
func candidates(f FourCC) []depth {
	switch f {
	case TwYZ:
		return []depth{depth5, depth4}
	case TwY4:
		return []depth{depth4}
	case TwYU:
		return []depth{depth8}
	default:
		return nil
	}
}

// inflate expands the planar buffer and selects the chroma layout by its
// size. Older writers declared the size of the unpacked UYVY buffer
// instead of the planar size; such data is inflated without a known size.
func (c *Compressed) inflate() (depth, []byte, error) {
	ds := candidates(c.FourCC)
	if len(ds) == 0 {
		return 0, nil, errors.NewInvalidFormat("unsupported photo format %v", c.FourCC)
	}

	for _, d := range ds {
		if c.OriginalSize == planarSize(d, c.Width, c.Height) {
			planar, err := deflate.Inflate(c.Data, c.OriginalSize)
			return d, planar, err
		}
	}

	if c.OriginalSize == c.Width*2*c.Height {
		planar, err := deflate.InflateAll(c.Data, c.OriginalSize)
		if err != nil {
			return 0, nil, err
		}
		for _, d := range ds {
			if len(planar) == planarSize(d, c.Width, c.Height) {
				return d, planar, nil
			}
		}
		return 0, nil, errors.NewInvalidFormat("photo %dx%d (%v) inflated to %d bytes", c.Width, c.Height, c.FourCC, len(planar))
	}

	return 0, nil, errors.NewInvalidFormat("photo %dx%d (%v) declares %d bytes", c.Width, c.Height, c.FourCC, c.OriginalSize)
}

// Decode restores a UYVY image from its compressed form.
//
// Odd rows take the average of the chroma rows above and below, except for
// the last row.
func Decode(c *Compressed) (*YUVImage, error) {
	if c == nil {
		return nil, errors.NewParamError("no compressed photo")
	}
	w, h := c.Width, c.Height
	if w < 2 || h < 1 || w%2 != 0 {
		return nil, errors.NewInvalidFormat("invalid photo size %dx%d", w, h)
	}

	d, planar, err := c.inflate()
	if err != nil {
		return nil, err
	}
	cw, ch, size := d.chromaLayout(w, h)

	luma := planar[:w*h]
	cb, err := d.unpack(planar[w*h:w*h+size], cw, ch)
	if err != nil {
		return nil, err
	}
	cr, err := d.unpack(planar[w*h+size:], cw, ch)
	if err != nil {
		return nil, err
	}

	img := &YUVImage{
		Width:       w,
		Height:      h,
		RowBytes:    w * 2,
		PixelFormat: UYVY,
		Pix:         make([]byte, w*2*h),
	}

	for y := 0; y < h; y++ {
		cy := y >> 1
		if cy >= ch {
			cy = ch - 1
		}
		interpolate := y&1 == 1 && y < h-1 && cy+1 < ch

		dst := img.Pix[img.RowBytes*y:]
		src := luma[w*y:]
		for x := 0; x < cw; x++ {
			b, r := 128, 128
			if ch > 0 {
				b = int(cb[cy*cw+x])
				r = int(cr[cy*cw+x])
				if interpolate {
					b = (b + int(cb[(cy+1)*cw+x])) >> 1
					r = (r + int(cr[(cy+1)*cw+x])) >> 1
				}
			}
			dst[x*4] = byte(b)
			dst[x*4+1] = src[x*2]
			dst[x*4+2] = byte(r)
			dst[x*4+3] = src[x*2+1]
		}
	}

	return img, nil
}
