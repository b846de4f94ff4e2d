// Package fixed implements signed 16.16 fixed-point arithmetic.
//
// All geometry and photo color math is built from these primitives so
// that encoded output is bit-identical on every platform.
package fixed

import (
	"math"
	"math/bits"
)

// Fixed is a Q16.16 number.
type Fixed int32

const (
	Shift       = 16
	One   Fixed = 1 << Shift
	Half  Fixed = One >> 1
	// FractionMask selects the fractional bits.
	FractionMask Fixed = One - 1

	Max Fixed = math.MaxInt32
	Min Fixed = math.MinInt32
)

// FromInt converts an integer to fixed point.
func FromInt(i int) Fixed {
	return Fixed(int32(i) << Shift)
}

// FromFloat converts a float to fixed point, truncating towards zero.
func FromFloat(f float64) Fixed {
	return Fixed(int32(f * float64(One)))
}

// Int truncates towards negative infinity.
func (f Fixed) Int() int {
	return int(int32(f) >> Shift)
}

// Round returns the nearest integer.
func (f Fixed) Round() int {
	return int((int32(f) + int32(Half)) >> Shift)
}

// Float converts to a float64.
func (f Fixed) Float() float64 {
	return float64(f) / float64(One)
}

// Frac returns the fractional bits.
func (f Fixed) Frac() Fixed {
	return f & FractionMask
}

// Mul multiplies two fixed-point numbers using a 64-bit intermediate.
func Mul(a, b Fixed) Fixed {
	return Fixed((int64(a) * int64(b)) >> Shift)
}

// MulCoarse multiplies with 8 bits of precision dropped from each operand.
// The product overflows unless both operands stay below 128.0 or one of
// them is correspondingly small.
func MulCoarse(a, b Fixed) Fixed {
	return (a >> 8) * (b >> 8)
}

// Div divides a by b using a 64-bit intermediate.
// Division by zero saturates to Max or Min depending on the sign of a.
func Div(a, b Fixed) Fixed {
	if b == 0 {
		if a < 0 {
			return Min
		}
		return Max
	}
	q := (int64(a) << Shift) / int64(b)
	if q > math.MaxInt32 {
		return Max
	}
	if q < math.MinInt32 {
		return Min
	}
	return Fixed(q)
}

// Clamp limits f to the range [lo, hi].
func Clamp(f, lo, hi Fixed) Fixed {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

// Abs returns the absolute value.
func Abs(f Fixed) Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// Sqrt returns the square root of x.
// Zero and negative input yield zero.
//
// The input is normalized by an even power of two so that its integer
// part falls into the upper range of the lookup table; the result is
// interpolated between the two neighbouring entries and scaled back.
func Sqrt(x Fixed) Fixed {
	if x <= 0 {
		return 0
	}

	// want 23 or 24 significant bits, i.e. an integer part in [64, 256)
	k := 24 - bits.Len32(uint32(x))
	if k&1 != 0 {
		k--
	}

	var y int64
	if k >= 0 {
		y = int64(x) << uint(k)
	} else {
		y = int64(x) >> uint(-k)
	}

	t := y >> Shift
	f := y & int64(FractionMask)
	v1 := int64(sqrtTable[t])
	v2 := int64(sqrtTable[t+1])

	// interpolated value carries 16 extra fraction bits
	v := v1*(int64(One)-f) + v2*f

	shift := uint(Shift + k/2)
	v = (v + (1 << (shift - 1))) >> shift
	return Fixed(v)
}

// Hypot returns sqrt(x*x + y*y).
func Hypot(x, y Fixed) Fixed {
	sq := (int64(x)*int64(x) + int64(y)*int64(y)) >> Shift
	n := uint(0)
	for sq > math.MaxInt32 {
		sq >>= 2
		n++
	}
	return Sqrt(Fixed(sq)) << n
}
