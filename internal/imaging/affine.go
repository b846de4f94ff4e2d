package imaging

import (
	"math"
)

// Affine is a 3x3 affine transform in row-major order.
type Affine [9]float64

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Rotation Matrix (CCW)
//
//	cos(angle)   -sin(angle)    0
//	sin(angle)    cos(angle)    0
//	0             0             1
func Rotation(angle float64) Affine {
	m := Identity()
	m[0] = math.Cos(angle)
	m[1] = math.Sin(angle) * -1

	m[3] = math.Sin(angle)
	m[4] = math.Cos(angle)

	return m
}

// Translation Matrix:
//
//	1  0  dx
//	0  1  dy
//	0  0  1
func Translation(dx, dy float64) Affine {
	m := Identity()

	m[2] = dx
	m[5] = dy

	return m
}

// Scaling Matrix:
//
//	sx 0  0
//	0  sy 0
//	0  0  1
func Scaling(sx, sy float64) Affine {
	m := Identity()

	m[0] = sx
	m[4] = sy

	return m
}

// Then returns the transform that applies a and then b.
func (a Affine) Then(b Affine) Affine {
	return multiply(b, a)
}

// multiply combines two affine transforms
func multiply(a, b Affine) Affine {
	var m Affine

	m[0] = a[0]*b[0] + a[1]*b[3] + a[2]*b[6]
	m[1] = a[0]*b[1] + a[1]*b[4] + a[2]*b[7]
	m[2] = a[0]*b[2] + a[1]*b[5] + a[2]*b[8]

	m[3] = a[3]*b[0] + a[4]*b[3] + a[5]*b[6]
	m[4] = a[3]*b[1] + a[4]*b[4] + a[5]*b[7]
	m[5] = a[3]*b[2] + a[4]*b[5] + a[5]*b[8]

	m[6] = a[6]*b[0] + a[7]*b[3] + a[8]*b[6]
	m[7] = a[6]*b[1] + a[7]*b[4] + a[8]*b[7]
	m[8] = a[6]*b[2] + a[7]*b[5] + a[8]*b[8]

	return m
}

// Apply transforms the point x,y.
func (a Affine) Apply(x, y float64) (float64, float64) {
	tx := a[0]*x + a[1]*y + a[2]
	ty := a[3]*x + a[4]*y + a[5]
	return tx, ty
}

// ScaleFactor is the factor by which the transform scales lengths,
// assuming uniform scaling.
func (a Affine) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(a[0]*a[4] - a[1]*a[3]))
}
