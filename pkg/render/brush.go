package render

import (
	"image/color"
	"math"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"

	"github.com/akeil/twtw/internal/imaging"
	"github.com/akeil/twtw/pkg/curves"
)

const (
	// baseWidth is the stroke width in canvas units for a weight of one.
	baseWidth = 2.0
	// minWidth keeps thin strokes visible, in output pixels.
	minWidth = 0.5
	// curveSteps is the number of samples per curved segment.
	curveSteps = 12
)

// A Brush strokes curves onto a draw2d graphic context.
//
// The width of a stroke is interpolated between the weights at the start
// and the end of each segment and scaled by the line weight of the color.
type Brush struct {
	gc *draw2dimg.GraphicContext
	m  imaging.Affine
}

func newBrush(gc *draw2dimg.GraphicContext, m imaging.Affine) *Brush {
	gc.SetLineCap(draw2d.RoundCap)
	gc.SetLineJoin(draw2d.RoundJoin)
	return &Brush{gc: gc, m: m}
}

// Stroke paints a single curve list.
func (b *Brush) Stroke(c *curves.CurveList) {
	if c.Len() == 0 {
		return
	}
	col := curves.ColorFor(c.Color)
	weight := curves.LineWeightFor(c.Color) * baseWidth * b.m.ScaleFactor()

	for _, s := range c.Segments() {
		b.segment(s, col, weight)
	}

	if c.Closed {
		first := c.Segment(0)
		last := c.Segment(c.Len() - 1)
		w := last.EndWeight.Float() * weight
		b.line(last.End, first.Start, w, w, col)
	}
}

func (b *Brush) segment(s curves.Segment, col color.RGBA, weight float64) {
	sw := s.StartWeight.Float() * weight
	ew := s.EndWeight.Float() * weight

	steps := curveSteps
	if s.Type == curves.Linear {
		steps = 2
		if sw != ew {
			steps = curveSteps
		}
	}

	pts := curves.Evaluate(s, steps)
	n := float64(len(pts) - 1)
	for i := 1; i < len(pts); i++ {
		w0 := lerp(sw, ew, float64(i-1)/n)
		w1 := lerp(sw, ew, float64(i)/n)
		b.line(pts[i-1], pts[i], w0, w1, col)
	}
}

// line strokes a straight piece with the average of both widths.
func (b *Brush) line(from, to curves.Point, w0, w1 float64, col color.RGBA) {
	x0, y0 := b.m.Apply(from.X.Float(), from.Y.Float())
	x1, y1 := b.m.Apply(to.X.Float(), to.Y.Float())

	gc := b.gc
	gc.BeginPath()
	gc.SetStrokeColor(col)
	gc.SetLineWidth(math.Max((w0+w1)/2, minWidth))
	gc.MoveTo(x0, y0)
	gc.LineTo(x1, y1)
	gc.Stroke()
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
