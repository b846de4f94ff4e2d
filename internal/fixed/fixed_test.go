package fixed

import (
	"math"
	"testing"
)

func TestConversions(t *testing.T) {
	if FromInt(3) != 3*One {
		t.Errorf("unexpected value for FromInt(3): %v", FromInt(3))
	}
	if FromInt(-2).Int() != -2 {
		t.Errorf("round trip through FromInt failed")
	}
	if FromFloat(0.5) != Half {
		t.Errorf("unexpected value for FromFloat(0.5): %v", FromFloat(0.5))
	}
	if FromFloat(1.75).Round() != 2 {
		t.Errorf("unexpected rounding of 1.75")
	}
	if FromFloat(-1.25).Int() != -2 {
		t.Errorf("Int must truncate towards negative infinity")
	}
	if math.Abs(FromFloat(3.1415).Float()-3.1415) > 1.0/float64(One) {
		t.Errorf("float round trip out of tolerance")
	}
}

func TestMulDiv(t *testing.T) {
	a := FromFloat(2.5)
	b := FromFloat(-4)
	if Mul(a, b) != FromInt(-10) {
		t.Errorf("unexpected product: %v", Mul(a, b).Float())
	}
	if Div(FromInt(-10), b) != a {
		t.Errorf("unexpected quotient: %v", Div(FromInt(-10), b).Float())
	}

	// large operands must not overflow the intermediate
	big := FromInt(2000)
	if Mul(big, FromInt(10)) != FromInt(20000) {
		t.Errorf("unexpected product for large operands")
	}
	if Div(FromInt(20000), big) != FromInt(10) {
		t.Errorf("unexpected quotient for large operands")
	}

	if Div(One, 0) != Max || Div(-One, 0) != Min {
		t.Errorf("division by zero must saturate")
	}
}

func TestMulCoarse(t *testing.T) {
	got := MulCoarse(FromInt(100), FromFloat(0.6))
	expected := 60.0
	if math.Abs(got.Float()-expected) > 0.5 {
		t.Errorf("unexpected coarse product: %v != %v", got.Float(), expected)
	}
}

func TestSqrtSpecialValues(t *testing.T) {
	if Sqrt(0) != 0 {
		t.Errorf("sqrt(0) must be 0")
	}
	if Sqrt(FromInt(-4)) != 0 {
		t.Errorf("sqrt of a negative value must be 0")
	}
	if Sqrt(FromInt(4)) != FromInt(2) {
		t.Errorf("unexpected sqrt(4): %v", Sqrt(FromInt(4)).Float())
	}
	if Sqrt(FromInt(256)) != FromInt(16) {
		t.Errorf("unexpected sqrt(256): %v", Sqrt(FromInt(256)).Float())
	}
	if Sqrt(FromFloat(0.25)) != Half {
		t.Errorf("unexpected sqrt(0.25): %v", Sqrt(FromFloat(0.25)).Float())
	}
}

func TestSqrtAccuracy(t *testing.T) {
	var prev Fixed
	for x := Fixed(0); x < 1<<24; x += 97 {
		got := Sqrt(x)
		if got < prev {
			t.Fatalf("sqrt is not monotonic at %v: %v < %v", x, got, prev)
		}
		prev = got

		expected := math.Sqrt(float64(x)/float64(One)) * float64(One)
		diff := math.Abs(float64(got) - expected)
		// below 1.0 the quantization of the result dominates
		if x >= One && diff > expected*0.0001 {
			t.Fatalf("sqrt(%v) out of tolerance: %v != %v", x.Float(), got.Float(), expected/float64(One))
		}
		if x < One && diff > 2 {
			t.Fatalf("sqrt(%v) off by more than two units: %v != %v", x, got, expected)
		}
	}
}

func TestSqrtLargeValues(t *testing.T) {
	for _, v := range []float64{300, 1000, 2000, 16000, 32000} {
		got := Sqrt(FromFloat(v)).Float()
		expected := math.Sqrt(v)
		if math.Abs(got-expected) > expected*0.0001 {
			t.Errorf("sqrt(%v) out of tolerance: %v != %v", v, got, expected)
		}
	}
}

func TestHypot(t *testing.T) {
	got := Hypot(FromInt(3), FromInt(4))
	if math.Abs(got.Float()-5) > 0.001 {
		t.Errorf("unexpected hypot(3, 4): %v", got.Float())
	}

	got = Hypot(FromInt(3000), FromInt(4000))
	if math.Abs(got.Float()-5000) > 1 {
		t.Errorf("unexpected hypot for large values: %v", got.Float())
	}
}
