package curves

// ControlPointsFor returns the control points of a Catmull-Rom segment.
//
// The first control point is the start of the previous segment, or the
// implicit start point if there is no previous segment. The second is the
// end of the next segment, or the implicit end point. If neither exists,
// the segment's own start or end point is used.
func ControlPointsFor(s Segment, prev, next *Segment, implicitStart, implicitEnd OptionalPoint) (Point, Point) {
	cp1 := s.Start
	if prev != nil {
		cp1 = prev.Start
	} else if p, ok := implicitStart.Get(); ok {
		cp1 = p
	}

	cp2 := s.End
	if next != nil {
		cp2 = next.End
	} else if p, ok := implicitEnd.Get(); ok {
		cp2 = p
	}

	return cp1, cp2
}

// RecomputeTangents updates the control points of the Catmull-Rom segments
// at index i and its immediate neighbours.
func (c *CurveList) RecomputeTangents(i int) {
	for j := i - 1; j <= i+1; j++ {
		c.recompute(j)
	}
}

// RecomputeAll updates the control points of every Catmull-Rom segment.
func (c *CurveList) RecomputeAll() {
	for i := range c.segments {
		c.recompute(i)
	}
}

func (c *CurveList) recompute(i int) {
	if i < 0 || i >= len(c.segments) {
		return
	}
	s := &c.segments[i]
	if s.Type != CatmullRom {
		return
	}

	var prev, next *Segment
	if i > 0 {
		prev = &c.segments[i-1]
	}
	if i < len(c.segments)-1 {
		next = &c.segments[i+1]
	}
	s.Control1, s.Control2 = ControlPointsFor(*s, prev, next, c.implicitStart, c.implicitEnd)
}
