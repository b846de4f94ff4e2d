package curves

import (
	"github.com/akeil/twtw/internal/cursor"
	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/fixed"
)

const (
	// HeaderSize is the size of the fixed header of an encoded curve list.
	HeaderSize = 20

	// DefaultAllowedError is the number of low fraction bits ignored when
	// testing whether a point is integral.
	DefaultAllowedError = 3

	// unset implicit points are stored as this coordinate
	unsetCoord = fixed.Min

	flagClosed   = 0x01
	typeMask     = 0x0f
	typeIntegral = 0x80
)

// MarshalBinary encodes the curve list at canvas scale.
func (c *CurveList) MarshalBinary() ([]byte, error) {
	return Encode(c, fixed.One, DefaultAllowedError)
}

// UnmarshalBinary decodes a curve list at canvas scale.
func (c *CurveList) UnmarshalBinary(data []byte) error {
	d, err := Decode(data, fixed.One)
	if err != nil {
		return err
	}
	*c = *d
	return nil
}

// Encode serializes a curve list.
//
// Every coordinate is multiplied by scale before it is written; the
// integral test applies to the scaled value. End points whose fraction is
// zero after masking the lowest allowedError bits are stored as 16-bit
// integers.
func Encode(c *CurveList, scale fixed.Fixed, allowedError uint) ([]byte, error) {
	n := len(c.segments)
	if n >= MaxSegments {
		return nil, errors.NewInvalidFormat("segment count %d out of range", n)
	}
	if allowedError > fixed.Shift {
		return nil, errors.NewParamError("allowed error of %d bits exceeds the fraction", allowedError)
	}

	sp := func(p Point) Point {
		if scale == fixed.One {
			return p
		}
		return p.scale(scale)
	}

	w := cursor.NewWriter(HeaderSize + 12 + n*13)
	w.PutUint16(uint16(n))

	for _, o := range []OptionalPoint{c.implicitStart, c.implicitEnd} {
		if p, ok := o.Get(); ok {
			p = sp(p)
			if p.X == unsetCoord || p.Y == unsetCoord {
				return nil, errors.NewParamError("implicit point %v cannot be represented", p)
			}
			w.PutInt32(int32(p.X))
			w.PutInt32(int32(p.Y))
		} else {
			w.PutInt32(int32(unsetCoord))
			w.PutInt32(int32(unsetCoord))
		}
	}

	w.PutUint8(c.Color)
	var flags uint8
	if c.Closed {
		flags |= flagClosed
	}
	w.PutUint8(flags)
	w.Zero(8)

	if n == 0 {
		return w.Bytes(), nil
	}

	first := c.segments[0]
	start := sp(first.Start)
	w.PutInt32(int32(start.X))
	w.PutInt32(int32(start.Y))
	w.PutInt32(int32(first.StartWeight))

	mask := fixed.FractionMask &^ (fixed.Fixed(1)<<allowedError - 1)
	for i, s := range c.segments {
		if !s.Type.Valid() {
			return nil, errors.NewParamError("segment %d: invalid type %v", i, s.Type)
		}

		end := sp(s.End)
		t := uint8(s.Type)
		integral := isIntegral(end, mask)
		if integral {
			t |= typeIntegral
		}
		w.PutUint8(t)

		if integral {
			w.PutInt16(int16(end.X.Int()))
			w.PutInt16(int16(end.Y.Int()))
		} else {
			w.PutInt32(int32(end.X))
			w.PutInt32(int32(end.Y))
		}
		w.PutInt32(int32(s.EndWeight))

		if s.Type == Bezier {
			cp1 := sp(s.Control1)
			cp2 := sp(s.Control2)
			w.PutInt32(int32(cp1.X))
			w.PutInt32(int32(cp1.Y))
			w.PutInt32(int32(cp2.X))
			w.PutInt32(int32(cp2.Y))
		}
	}

	return w.Bytes(), nil
}

// isIntegral tells whether both coordinates have no fraction bits under
// the mask. The integer part of a Fixed always fits into 16 bits.
func isIntegral(p Point, mask fixed.Fixed) bool {
	return p.X&mask == 0 && p.Y&mask == 0
}

// Decode deserializes a curve list and multiplies every coordinate by
// scale. Catmull-Rom control points are recomputed after all segments are
// loaded.
func Decode(data []byte, scale fixed.Fixed) (*CurveList, error) {
	if len(data) < HeaderSize {
		return nil, errors.NewInvalidFormat("curve data of %d bytes is shorter than the header", len(data))
	}

	sp := func(p Point) Point {
		if scale == fixed.One {
			return p
		}
		return p.scale(scale)
	}

	r := cursor.NewReader(data)
	n := int(r.Uint16())
	if n >= MaxSegments {
		return nil, errors.NewInvalidFormat("segment count %d out of range", n)
	}

	c := New()
	for _, o := range []*OptionalPoint{&c.implicitStart, &c.implicitEnd} {
		x := fixed.Fixed(r.Int32())
		y := fixed.Fixed(r.Int32())
		if x == unsetCoord || y == unsetCoord {
			*o = None
		} else {
			*o = Some(sp(Point{x, y}))
		}
	}

	c.Color = r.Uint8()
	if c.Color >= NumColors {
		return nil, errors.NewInvalidFormat("color index %d out of range", c.Color)
	}
	c.Closed = r.Uint8()&flagClosed != 0
	r.Skip(8)

	if n == 0 {
		return c, nil
	}

	var prev Segment
	prev.End = sp(Point{fixed.Fixed(r.Int32()), fixed.Fixed(r.Int32())})
	prev.EndWeight = fixed.Fixed(r.Int32())

	c.segments = make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		t := r.Uint8()
		s := Segment{
			Type:        SegmentType(t & typeMask),
			Start:       prev.End,
			StartWeight: prev.EndWeight,
		}
		if !s.Type.Valid() {
			return nil, errors.NewInvalidFormat("segment %d: unknown type %d", i, t&typeMask)
		}

		if t&typeIntegral != 0 {
			x := fixed.FromInt(int(r.Int16()))
			y := fixed.FromInt(int(r.Int16()))
			s.End = sp(Point{x, y})
		} else {
			s.End = sp(Point{fixed.Fixed(r.Int32()), fixed.Fixed(r.Int32())})
		}
		s.EndWeight = fixed.Fixed(r.Int32())

		if s.Type == Bezier {
			s.Control1 = sp(Point{fixed.Fixed(r.Int32()), fixed.Fixed(r.Int32())})
			s.Control2 = sp(Point{fixed.Fixed(r.Int32()), fixed.Fixed(r.Int32())})
		}

		if r.Err() != nil {
			return nil, errors.AsInvalidFormat(r.Err(), "segment %d of %d", i, n)
		}

		c.segments = append(c.segments, s)
		prev = s
	}

	c.RecomputeAll()
	return c, nil
}
