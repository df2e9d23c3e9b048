package rimage

import (
	"testing"

	"go.viam.com/test"
)

func TestNewSimpleBoxFilter(t *testing.T) {
	k, err := NewSimpleBoxFilter(3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, k.Width, test.ShouldEqual, 3)
	test.That(t, k.Height, test.ShouldEqual, 3)
	test.That(t, k.Weight(2, 1), test.ShouldAlmostEqual, 1.0/9)
	test.That(t, k.Sum(), test.ShouldAlmostEqual, 1.0)

	_, err = NewSimpleBoxFilter(0)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewSimpleBoxFilter(MaxKernelDimension)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewKernel(2, 2, []float64{1})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConvolveUniform(t *testing.T) {
	b := NewBitmap(5, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			b.SetRGB(x, y, Color{100, 150, 200})
		}
	}
	out, err := BoxBlur(b, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Equal(b), test.ShouldBeTrue)
}

func TestConvolveEdges(t *testing.T) {
	b := NewBitmap(3, 1)
	b.SetRGB(2, 0, Color{90, 0, 255})

	k, err := NewKernel(3, 1, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3})
	test.That(t, err, test.ShouldBeNil)
	out, err := Convolve(b, k)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.RGBAt(0, 0), test.ShouldResemble, Color{0, 0, 0})
	test.That(t, out.RGBAt(1, 0), test.ShouldResemble, Color{30, 0, 85})
	// the right edge is clamped so the bright pixel counts twice
	test.That(t, out.RGBAt(2, 0), test.ShouldResemble, Color{60, 0, 170})

	sharpen, err := NewKernel(3, 1, []float64{-1, 3, -1})
	test.That(t, err, test.ShouldBeNil)
	out, err = Convolve(b, sharpen)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.RGBAt(1, 0), test.ShouldResemble, Color{0, 0, 0})
	test.That(t, out.RGBAt(2, 0), test.ShouldResemble, Color{180, 0, 255})
}

func TestConvolveErrors(t *testing.T) {
	k, err := NewSimpleBoxFilter(1)
	test.That(t, err, test.ShouldBeNil)

	_, err = Convolve(&Bitmap{Pix: []byte{1}, Width: 1, Height: 1}, k)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Convolve(NewBitmap(1, 1), nil)
	test.That(t, err, test.ShouldNotBeNil)

	out, err := Convolve(NewBitmap(0, 0), k)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Valid(), test.ShouldBeTrue)
}
