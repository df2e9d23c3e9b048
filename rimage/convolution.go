package rimage

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/legacyimage/utils"
)

// MaxKernelDimension bounds the side of generated box filters.
const MaxKernelDimension = 65536

// Kernel is a 2D convolution matrix. Width and Height are the matrix columns and rows.
type Kernel struct {
	*mat.Dense
	Width  int
	Height int
}

// NewKernel builds a kernel from row-major weights.
func NewKernel(width, height int, weights []float64) (*Kernel, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("kernel dimensions must be positive, got %dx%d", width, height)
	}
	if len(weights) != width*height {
		return nil, errors.Errorf("kernel of %dx%d needs %d weights, got %d", width, height, width*height, len(weights))
	}
	return &Kernel{mat.NewDense(height, width, weights), width, height}, nil
}

// Size returns the kernel size as a point.
func (k *Kernel) Size() image.Point {
	return image.Point{k.Width, k.Height}
}

// Weight returns the weight at column x, row y.
func (k *Kernel) Weight(x, y int) float64 {
	return k.Dense.At(y, x)
}

// Sum returns the sum of all weights.
func (k *Kernel) Sum() float64 {
	return mat.Sum(k.Dense)
}

// NewSimpleBoxFilter returns a dimension x dimension kernel where every weight is 1/dimension².
func NewSimpleBoxFilter(dimension uint) (*Kernel, error) {
	if dimension == 0 || dimension >= MaxKernelDimension {
		return nil, errors.Errorf("box filter dimension must be in [1, %d), got %d", MaxKernelDimension, dimension)
	}
	n := int(dimension)
	weights := make([]float64, n*n)
	w := 1.0 / float64(n*n)
	for i := range weights {
		weights[i] = w
	}
	return NewKernel(n, n, weights)
}

// Convolve applies the kernel to each channel of b, centered on each pixel. Samples outside
// the bitmap are taken from the nearest edge pixel and results are clamped to [0, 255].
func Convolve(b *Bitmap, k *Kernel) (*Bitmap, error) {
	if !b.Valid() {
		return nil, errors.New("cannot convolve a bitmap whose buffer does not match its dimensions")
	}
	if k == nil || k.Dense == nil {
		return nil, errors.New("cannot convolve with a nil kernel")
	}
	out := NewBitmap(b.Width, b.Height)
	if b.Width == 0 || b.Height == 0 {
		return out, nil
	}

	w, h := int(b.Width), int(b.Height)
	anchor := image.Point{k.Width / 2, k.Height / 2}
	utils.ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		var r, g, bl float64
		for ky := 0; ky < k.Height; ky++ {
			sy := utils.ClampInt(y+ky-anchor.Y, 0, h-1)
			for kx := 0; kx < k.Width; kx++ {
				sx := utils.ClampInt(x+kx-anchor.X, 0, w-1)
				weight := k.Weight(kx, ky)
				c := b.RGBAt(sx, sy)
				r += float64(c.R) * weight
				g += float64(c.G) * weight
				bl += float64(c.B) * weight
			}
		}
		out.SetRGB(x, y, Color{clampByte(r), clampByte(g), clampByte(bl)})
	})
	return out, nil
}

// BoxBlur is Convolve with a simple box filter of the given dimension.
func BoxBlur(b *Bitmap, dimension uint) (*Bitmap, error) {
	k, err := NewSimpleBoxFilter(dimension)
	if err != nil {
		return nil, err
	}
	return Convolve(b, k)
}

func clampByte(v float64) uint8 {
	v = utils.ClampF64(v+0.5, 0, 255)
	return uint8(v)
}
