// Package curves holds the geometry of ink strokes and their binary codec.
//
// A stroke is a CurveList: an ordered list of segments where each segment
// starts where the previous one ends. Coordinates and line weights are
// 16.16 fixed-point numbers in canvas units.
package curves

import (
	"fmt"

	"github.com/akeil/twtw/internal/fixed"
)

const (
	// CanvasWidth is the width of the canonical canvas used on disk.
	CanvasWidth = 640
	// CanvasHeight is the height of the canonical canvas (16:9).
	CanvasHeight = 360
	// MaxSegments is the exclusive upper bound for the number of
	// segments in a curve list.
	MaxSegments = 32700
)

// SegmentType is the kind of a curve segment.
type SegmentType uint8

const (
	Linear SegmentType = iota
	Bezier
	CatmullRom
)

func (t SegmentType) String() string {
	switch t {
	case Linear:
		return "linear"
	case Bezier:
		return "bezier"
	case CatmullRom:
		return "catmull-rom"
	default:
		return fmt.Sprintf("SegmentType(%d)", uint8(t))
	}
}

// Valid tells whether t is one of the known segment types.
func (t SegmentType) Valid() bool {
	switch t {
	case Linear, Bezier, CatmullRom:
		return true
	default:
		return false
	}
}

// Point is a position on the canvas.
type Point struct {
	X fixed.Fixed
	Y fixed.Fixed
}

// Pt creates a point from integer coordinates.
func Pt(x, y int) Point {
	return Point{fixed.FromInt(x), fixed.FromInt(y)}
}

// FloatPt creates a point from float coordinates.
func FloatPt(x, y float64) Point {
	return Point{fixed.FromFloat(x), fixed.FromFloat(y)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", p.X.Float(), p.Y.Float())
}

func (p Point) scale(f fixed.Fixed) Point {
	return Point{fixed.Mul(p.X, f), fixed.Mul(p.Y, f)}
}

// OptionalPoint is a point that may be unset.
type OptionalPoint struct {
	Point Point
	Valid bool
}

// Some returns a set OptionalPoint.
func Some(p Point) OptionalPoint {
	return OptionalPoint{Point: p, Valid: true}
}

// None is the unset OptionalPoint.
var None = OptionalPoint{}

// Get returns the point and whether it is set.
func (o OptionalPoint) Get() (Point, bool) {
	return o.Point, o.Valid
}

// Segment is one piece of a stroke.
//
// For Bezier segments the control points are real control points. For
// Catmull-Rom segments they hold the neighbouring anchor points and are
// maintained by the CurveList.
type Segment struct {
	Type        SegmentType
	Start       Point
	End         Point
	Control1    Point
	Control2    Point
	StartWeight fixed.Fixed
	EndWeight   fixed.Fixed
}

// CurveList is a single stroke.
type CurveList struct {
	// Color is an index into the palette.
	Color uint8
	// Closed marks a closed path.
	Closed bool

	segments      []Segment
	implicitStart OptionalPoint
	implicitEnd   OptionalPoint
}

// New creates an empty curve list with the default color.
func New() *CurveList {
	return &CurveList{
		Color: DefaultColor,
	}
}

// Len returns the number of segments.
func (c *CurveList) Len() int {
	return len(c.segments)
}

// Segment returns the segment at index i.
func (c *CurveList) Segment(i int) Segment {
	return c.segments[i]
}

// Segments returns a copy of all segments.
func (c *CurveList) Segments() []Segment {
	s := make([]Segment, len(c.segments))
	copy(s, c.segments)
	return s
}

// Append adds a segment to the end of the list.
func (c *CurveList) Append(s Segment) {
	c.segments = append(c.segments, s)
	c.RecomputeTangents(len(c.segments) - 1)
}

// AppendContinuous appends a segment which starts at the end of the last
// segment.
func (c *CurveList) AppendContinuous(s Segment) {
	if n := len(c.segments); n > 0 {
		s.Start = c.segments[n-1].End
		s.StartWeight = c.segments[n-1].EndWeight
	}
	c.Append(s)
}

// Insert inserts a segment before index i.
func (c *CurveList) Insert(i int, s Segment) error {
	if i < 0 || i > len(c.segments) {
		return fmt.Errorf("insert index %d out of range [0, %d]", i, len(c.segments))
	}
	c.segments = append(c.segments, Segment{})
	copy(c.segments[i+1:], c.segments[i:])
	c.segments[i] = s
	c.RecomputeTangents(i)
	return nil
}

// Replace replaces the segment at index i.
func (c *CurveList) Replace(i int, s Segment) error {
	if i < 0 || i >= len(c.segments) {
		return fmt.Errorf("replace index %d out of range [0, %d)", i, len(c.segments))
	}
	c.segments[i] = s
	c.RecomputeTangents(i)
	return nil
}

// Delete removes the segment at index i.
func (c *CurveList) Delete(i int) error {
	if i < 0 || i >= len(c.segments) {
		return fmt.Errorf("delete index %d out of range [0, %d)", i, len(c.segments))
	}
	c.segments = append(c.segments[:i], c.segments[i+1:]...)
	if i > 0 {
		c.RecomputeTangents(i - 1)
	}
	if i < len(c.segments) {
		c.RecomputeTangents(i)
	}
	return nil
}

// ImplicitStart returns the point before the first segment used for
// spline shaping.
func (c *CurveList) ImplicitStart() OptionalPoint {
	return c.implicitStart
}

// ImplicitEnd returns the point after the last segment used for spline
// shaping.
func (c *CurveList) ImplicitEnd() OptionalPoint {
	return c.implicitEnd
}

// SetImplicitStart sets or clears the implicit start point.
func (c *CurveList) SetImplicitStart(p OptionalPoint) {
	c.implicitStart = p
	if len(c.segments) > 0 {
		c.RecomputeTangents(0)
	}
}

// SetImplicitEnd sets or clears the implicit end point.
func (c *CurveList) SetImplicitEnd(p OptionalPoint) {
	c.implicitEnd = p
	if len(c.segments) > 0 {
		c.RecomputeTangents(len(c.segments) - 1)
	}
}

// Clone returns a deep copy.
func (c *CurveList) Clone() *CurveList {
	cp := *c
	cp.segments = c.Segments()
	return &cp
}

// Scale multiplies every coordinate, including the implicit points, by f.
// Line weights are not scaled.
func (c *CurveList) Scale(f fixed.Fixed) {
	if f == fixed.One {
		return
	}
	for i := range c.segments {
		s := &c.segments[i]
		s.Start = s.Start.scale(f)
		s.End = s.End.scale(f)
		s.Control1 = s.Control1.scale(f)
		s.Control2 = s.Control2.scale(f)
	}
	if c.implicitStart.Valid {
		c.implicitStart.Point = c.implicitStart.Point.scale(f)
	}
	if c.implicitEnd.Valid {
		c.implicitEnd.Point = c.implicitEnd.Point.scale(f)
	}
}

// Bounds returns the smallest rectangle containing all anchor and control
// points as min and max corner.
func (c *CurveList) Bounds() (Point, Point) {
	if len(c.segments) == 0 {
		return Point{}, Point{}
	}
	min := c.segments[0].Start
	max := min
	grow := func(p Point) {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	for _, s := range c.segments {
		grow(s.Start)
		grow(s.End)
		if s.Type == Bezier {
			grow(s.Control1)
			grow(s.Control2)
		}
	}
	return min, max
}
