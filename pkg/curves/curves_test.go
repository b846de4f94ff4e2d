package curves

import (
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/internal/fixed"
)

func line(x0, y0, x1, y1 int) Segment {
	return Segment{
		Type:        Linear,
		Start:       Pt(x0, y0),
		End:         Pt(x1, y1),
		StartWeight: fixed.One,
		EndWeight:   fixed.One,
	}
}

func TestEmptyEncoding(t *testing.T) {
	c := New()
	c.Color = 3
	c.Closed = true
	c.SetImplicitStart(Some(Pt(-5, 7)))

	data, err := c.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, HeaderSize)

	d, err := Decode(data, fixed.One)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, uint8(3), d.Color)
	assert.True(t, d.Closed)
	assert.Equal(t, Some(Pt(-5, 7)), d.ImplicitStart())
	assert.Equal(t, None, d.ImplicitEnd())
}

func TestUnsetImplicitOnWire(t *testing.T) {
	data, err := New().MarshalBinary()
	require.NoError(t, err)
	for i := 2; i < 18; i += 4 {
		assert.Equal(t, []byte{0, 0, 0, 0x80}, data[i:i+4])
	}
}

func TestImplicitSentinelRejected(t *testing.T) {
	c := New()
	c.SetImplicitEnd(Some(Point{X: fixed.Min, Y: 0}))
	_, err := c.MarshalBinary()
	assert.True(t, errors.IsParamError(err))
}

func TestRoundTripMixed(t *testing.T) {
	c := New()
	c.Color = 8
	c.SetImplicitStart(Some(Pt(0, 0)))
	c.SetImplicitEnd(Some(FloatPt(300.25, 100.5)))

	c.Append(Segment{
		Type:        CatmullRom,
		Start:       Pt(10, 10),
		End:         Pt(20, 15),
		StartWeight: fixed.FromFloat(1.5),
		EndWeight:   fixed.FromFloat(2.25),
	})
	c.AppendContinuous(Segment{
		Type:      Bezier,
		End:       FloatPt(40.5, 30.75),
		Control1:  FloatPt(25.125, 18),
		Control2:  Pt(35, 28),
		EndWeight: fixed.One,
	})
	c.AppendContinuous(Segment{
		Type:      Linear,
		End:       Pt(-100, 200),
		EndWeight: fixed.Half,
	})
	c.AppendContinuous(Segment{
		Type:      CatmullRom,
		End:       Pt(120, 140),
		EndWeight: fixed.One,
	})
	require.NoError(t, c.Validate())

	data, err := c.MarshalBinary()
	require.NoError(t, err)

	d := New()
	require.NoError(t, d.UnmarshalBinary(data))
	require.NoError(t, d.Validate())

	assert.Equal(t, c.Color, d.Color)
	assert.Equal(t, c.Closed, d.Closed)
	assert.Equal(t, c.ImplicitStart(), d.ImplicitStart())
	assert.Equal(t, c.ImplicitEnd(), d.ImplicitEnd())
	assert.Equal(t, c.Segments(), d.Segments())
}

func TestIntegralCompaction(t *testing.T) {
	c := New()
	c.Append(line(0, 0, 10, 10))
	// fraction below the tolerance
	c.AppendContinuous(Segment{Type: Linear, End: Point{fixed.FromInt(20) + 3, fixed.FromInt(30)}})
	// fraction above the tolerance
	c.AppendContinuous(Segment{Type: Linear, End: FloatPt(40.5, 50)})

	data, err := c.MarshalBinary()
	require.NoError(t, err)

	// header, first start, two short segments and one long segment
	assert.Equal(t, HeaderSize+12+2*(1+4+4)+(1+8+4), len(data))
	assert.Equal(t, byte(typeIntegral|uint8(Linear)), data[HeaderSize+12])

	d, err := Decode(data, fixed.One)
	require.NoError(t, err)
	assert.Equal(t, Pt(20, 30), d.Segment(1).End)
	assert.Equal(t, FloatPt(40.5, 50), d.Segment(2).End)
}

func TestNegativeIntegral(t *testing.T) {
	c := New()
	c.Append(line(-3, -4, -30, -40))

	data, err := c.MarshalBinary()
	require.NoError(t, err)
	d, err := Decode(data, fixed.One)
	require.NoError(t, err)
	assert.Equal(t, Pt(-30, -40), d.Segment(0).End)
}

func TestScaleBeforeIntegralTest(t *testing.T) {
	c := New()
	c.Append(line(0, 0, 5, 5))
	c.AppendContinuous(Segment{Type: Linear, End: FloatPt(7.5, 2.5)})

	// halves become integral when doubled
	data, err := Encode(c, fixed.FromInt(2), DefaultAllowedError)
	require.NoError(t, err)
	assert.Equal(t, HeaderSize+12+2*(1+4+4), len(data))

	d, err := Decode(data, fixed.Half)
	require.NoError(t, err)
	assert.Equal(t, c.Segments(), d.Segments())
}

func TestRandomRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(20))
	for n := 0; n < 50; n++ {
		c := New()
		c.Color = uint8(rnd.Intn(NumColors))
		count := rnd.Intn(40)
		for i := 0; i < count; i++ {
			s := Segment{
				Type:      SegmentType(rnd.Intn(3)),
				End:       Point{fixed.Fixed(rnd.Int31n(640 << 16)), fixed.Fixed(rnd.Int31n(360 << 16))},
				EndWeight: fixed.Fixed(rnd.Int31n(4 << 16)),
			}
			if s.Type == Bezier {
				s.Control1 = Pt(rnd.Intn(640), rnd.Intn(360))
				s.Control2 = Pt(rnd.Intn(640), rnd.Intn(360))
			}
			if i == 0 {
				s.Start = Pt(rnd.Intn(640), rnd.Intn(360))
			}
			c.AppendContinuous(s)
		}

		data, err := c.MarshalBinary()
		require.NoError(t, err)
		d, err := Decode(data, fixed.One)
		require.NoError(t, err)
		require.Equal(t, c.Len(), d.Len())

		tolerance := fixed.Fixed(1 << DefaultAllowedError)
		for i := 0; i < c.Len(); i++ {
			a, b := c.Segment(i), d.Segment(i)
			assert.Equal(t, a.Type, b.Type)
			assert.Equal(t, a.EndWeight, b.EndWeight)
			assert.True(t, a.End.X-b.End.X >= 0 && a.End.X-b.End.X < tolerance, "x %v != %v", a.End, b.End)
			assert.True(t, a.End.Y-b.End.Y >= 0 && a.End.Y-b.End.Y < tolerance, "y %v != %v", a.End, b.End)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	c := New()
	c.Append(line(0, 0, 10, 10))
	c.AppendContinuous(Segment{Type: Bezier, End: FloatPt(1.5, 1.5)})
	data, err := c.MarshalBinary()
	require.NoError(t, err)

	cases := map[string][]byte{
		"short header": data[:HeaderSize-1],
		"truncated":    data[:len(data)-3],
	}

	bad := append([]byte{}, data...)
	bad[HeaderSize+12] = 0x07
	cases["bad type"] = bad

	color := append([]byte{}, data...)
	color[18] = NumColors
	cases["bad color"] = color

	count := append([]byte{}, data...)
	binary.LittleEndian.PutUint16(count, MaxSegments)
	cases["bad count"] = count

	for name, b := range cases {
		_, err := Decode(b, fixed.One)
		if !errors.IsInvalidFormat(err) {
			t.Errorf("%s: expected invalid format, got %v", name, err)
		}
	}
}

func TestControlPointsFor(t *testing.T) {
	s := line(10, 10, 20, 20)
	prev := line(0, 0, 10, 10)
	next := line(20, 20, 30, 40)

	cp1, cp2 := ControlPointsFor(s, &prev, &next, None, None)
	assert.Equal(t, Pt(0, 0), cp1)
	assert.Equal(t, Pt(30, 40), cp2)

	cp1, cp2 = ControlPointsFor(s, nil, nil, Some(Pt(1, 2)), Some(Pt(3, 4)))
	assert.Equal(t, Pt(1, 2), cp1)
	assert.Equal(t, Pt(3, 4), cp2)

	cp1, cp2 = ControlPointsFor(s, nil, nil, None, None)
	assert.Equal(t, s.Start, cp1)
	assert.Equal(t, s.End, cp2)
}

func TestRecomputeOnEdit(t *testing.T) {
	c := New()
	for i := 0; i < 3; i++ {
		s := line(i*10, 0, i*10+10, 0)
		s.Type = CatmullRom
		c.Append(s)
	}
	assert.Equal(t, Pt(0, 0), c.Segment(1).Control1)
	assert.Equal(t, Pt(30, 0), c.Segment(1).Control2)

	require.NoError(t, c.Delete(2))
	assert.Equal(t, Pt(20, 0), c.Segment(1).Control2)

	require.NoError(t, c.Insert(0, line(-10, 0, 0, 0)))
	assert.Equal(t, Pt(-10, 0), c.Segment(1).Control1)

	assert.Error(t, c.Replace(5, line(0, 0, 1, 1)))
	assert.Error(t, c.Delete(-1))
	assert.Error(t, c.Insert(9, line(0, 0, 1, 1)))
}

func TestEvaluate(t *testing.T) {
	assert.Nil(t, Evaluate(line(0, 0, 1, 1), 1))

	pts := Evaluate(line(0, 0, 100, 50), 5)
	require.Len(t, pts, 5)
	assert.Equal(t, Pt(0, 0), pts[0])
	assert.Equal(t, Point{fixed.FromInt(25), fixed.FromFloat(12.5)}, pts[1])
	assert.Equal(t, Pt(100, 50), pts[4])

	b := Segment{Type: Bezier, Start: Pt(0, 0), End: Pt(100, 0), Control1: Pt(0, 100), Control2: Pt(100, 100)}
	pts = Evaluate(b, 3)
	assert.Equal(t, Pt(0, 0), pts[0])
	assert.Equal(t, 50, pts[1].X.Round())
	assert.Equal(t, 75, pts[1].Y.Round())
	assert.Equal(t, Pt(100, 0), pts[2])

	// a straight Catmull-Rom run stays on the line
	cr := Segment{Type: CatmullRom, Start: Pt(10, 0), End: Pt(20, 0), Control1: Pt(0, 0), Control2: Pt(30, 0)}
	pts = Evaluate(cr, 11)
	for i, p := range pts {
		assert.Equal(t, fixed.Fixed(0), p.Y)
		assert.InDelta(t, float64(10+i), p.X.Float(), 0.01)
	}
}

func TestValidate(t *testing.T) {
	c := New()
	c.Append(line(0, 0, 10, 10))
	c.Append(line(11, 10, 20, 20))
	err := c.Validate()
	if err == nil {
		t.Log("expected error for discontinuous segments")
		t.Fail()
	}

	c = New()
	c.Color = NumColors
	if c.Validate() == nil {
		t.Error("expected error for color out of range")
	}

	c = New()
	c.Append(Segment{Type: SegmentType(9)})
	if c.Validate() == nil {
		t.Error("expected error for invalid type")
	}
}

func TestScaleAndBounds(t *testing.T) {
	c := New()
	c.Append(line(10, 20, 30, 5))
	c.SetImplicitEnd(Some(Pt(1, 1)))
	c.Scale(fixed.FromInt(2))

	min, max := c.Bounds()
	assert.Equal(t, Pt(20, 10), min)
	assert.Equal(t, Pt(60, 40), max)
	assert.Equal(t, Some(Pt(2, 2)), c.ImplicitEnd())

	d := c.Clone()
	d.Scale(fixed.Half)
	assert.Equal(t, Pt(60, 10), c.Segment(0).End)
	assert.Equal(t, Pt(30, 5), d.Segment(0).End)
}

func TestPalette(t *testing.T) {
	black := ColorFor(DefaultColor)
	assert.Equal(t, uint8(0), black.R)
	assert.Equal(t, uint8(0), black.G)
	assert.Equal(t, uint8(0), black.B)
	assert.Equal(t, black, ColorFor(200))
	assert.Equal(t, 2.2, LineWeightFor(12))
	assert.Equal(t, 1.0, LineWeightFor(200))
}
