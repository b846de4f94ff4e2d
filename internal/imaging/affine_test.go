package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestRotation(t *testing.T) {
	x := 1
	y := 2
	rad := 90 * math.Pi / 180

	rot := Rotation(rad)
	tx, ty := rot.Apply(float64(x), float64(y))

	if math.Round(tx) != -2 {
		t.Errorf("unexpected value for transformed x: %v", tx)
	}
	if math.Round(ty) != 1 {
		t.Errorf("unexpected value for transformed y: %v", ty)
	}

	// translating around the center should result in the same point
	m := Translation(float64(-x), float64(-y)).Then(rot)
	tx, ty = m.Apply(float64(x), float64(y))

	if math.Round(tx) != 0 {
		t.Errorf("unexpected value for transformed x: %v", tx)
	}
	if math.Round(ty) != 0 {
		t.Errorf("unexpected value for transformed y: %v", ty)
	}
}

func TestScaleThenTranslate(t *testing.T) {
	m := Scaling(2, 2).Then(Translation(10, 5))
	tx, ty := m.Apply(3, 4)
	if tx != 16 || ty != 13 {
		t.Errorf("unexpected value for transformed point: %v,%v", tx, ty)
	}
	if m.ScaleFactor() != 2 {
		t.Errorf("unexpected scale factor %v", m.ScaleFactor())
	}
}

func TestResize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 640, 360))
	dst := ResizeWidth(src, 160)
	if dst.Bounds().Dx() != 160 || dst.Bounds().Dy() != 90 {
		t.Errorf("unexpected size %v", dst.Bounds())
	}

	dst = Fill(src, 320, 200)
	if dst.Bounds() != image.Rect(0, 0, 320, 200) {
		t.Errorf("unexpected size %v", dst.Bounds())
	}

	red := color.RGBA{255, 0, 0, 255}
	dst = Fit(image.NewRGBA(image.Rect(0, 0, 100, 100)), 200, 100, red)
	if dst.RGBAAt(10, 50) != red {
		t.Errorf("unexpected background %v", dst.RGBAAt(10, 50))
	}

	g := ToGray(dst)
	if g.Bounds() != dst.Bounds() {
		t.Errorf("unexpected size %v", g.Bounds())
	}
}
