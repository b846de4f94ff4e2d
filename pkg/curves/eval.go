package curves

import (
	"github.com/akeil/twtw/internal/fixed"
)

var (
	two   = fixed.FromInt(2)
	three = fixed.FromInt(3)
)

// Evaluate samples a segment at steps evenly spaced parameter values from
// its start point to its end point. It returns nil if steps is less than 2.
func Evaluate(s Segment, steps int) []Point {
	if steps < 2 {
		return nil
	}

	out := make([]Point, steps)
	n := int64(steps - 1)
	for i := range out {
		u := fixed.Fixed((int64(i) << fixed.Shift) / n)
		switch s.Type {
		case Bezier:
			out[i] = bezierAt(s, u)
		case CatmullRom:
			out[i] = catmullRomAt(s, u)
		default:
			out[i] = linearAt(s, u)
		}
	}
	return out
}

func linearAt(s Segment, u fixed.Fixed) Point {
	return Point{
		X: s.Start.X + fixed.Mul(u, s.End.X-s.Start.X),
		Y: s.Start.Y + fixed.Mul(u, s.End.Y-s.Start.Y),
	}
}

// bezierAt evaluates the cubic in polynomial form
// D + u*(C + u*(B + u*A)).
func bezierAt(s Segment, u fixed.Fixed) Point {
	return Point{
		X: bezier1(s.Start.X, s.Control1.X, s.Control2.X, s.End.X, u),
		Y: bezier1(s.Start.Y, s.Control1.Y, s.Control2.Y, s.End.Y, u),
	}
}

func bezier1(start, cp1, cp2, end, u fixed.Fixed) fixed.Fixed {
	t2 := fixed.Mul(three, end-cp2)
	c := fixed.Mul(three, cp1-start)
	b := fixed.Mul(three, end-start) - fixed.Mul(two, c) - t2
	a := fixed.Mul(two, start-end) + c + t2

	v := fixed.Mul(u, a)
	v = fixed.Mul(u, b+v)
	v = fixed.Mul(u, c+v)
	return start + v
}

// catmullRomAt evaluates the Hermite form with the tangents
// T1 = (End-Control1)/2 and T2 = (Control2-Start)/2.
func catmullRomAt(s Segment, u fixed.Fixed) Point {
	u2 := fixed.Mul(u, u)
	u3 := fixed.Mul(u, u2)

	h1 := fixed.Mul(two, u3) - fixed.Mul(three, u2) + fixed.One
	h2 := fixed.Mul(three, u2) - fixed.Mul(two, u3)
	h3 := u3 - fixed.Mul(two, u2) + u
	h4 := u3 - u2

	t1 := Point{(s.End.X - s.Control1.X) / 2, (s.End.Y - s.Control1.Y) / 2}
	t2 := Point{(s.Control2.X - s.Start.X) / 2, (s.Control2.Y - s.Start.Y) / 2}

	return Point{
		X: fixed.Mul(h1, s.Start.X) + fixed.Mul(h2, s.End.X) + fixed.Mul(h3, t1.X) + fixed.Mul(h4, t2.X),
		Y: fixed.Mul(h1, s.Start.Y) + fixed.Mul(h2, s.End.Y) + fixed.Mul(h3, t1.Y) + fixed.Mul(h4, t2.Y),
	}
}
