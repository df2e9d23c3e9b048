package rimage

import (
	"bytes"
	"image"
	"image/color"
)

// Bitmap is the canonical decoded image every decoder produces and the TGA encoder consumes.
//
// Pix holds PixelSize bytes per pixel (red, green, blue), row-major, top row first and left to
// right within a row. A Bitmap handed out by a decoder always satisfies
// len(Pix) == Width*Height*PixelSize; the type itself does not enforce it.
type Bitmap struct {
	Pix    []byte
	Width  uint
	Height uint

	// Filtered is passed through for resize/filter consumers. Decoders always set it.
	Filtered bool
}

// NewBitmap returns a zeroed (black) bitmap of the given size.
func NewBitmap(width, height uint) *Bitmap {
	return &Bitmap{
		Pix:      make([]byte, width*height*PixelSize),
		Width:    width,
		Height:   height,
		Filtered: true,
	}
}

// Valid reports whether the pixel buffer matches the declared dimensions.
func (b *Bitmap) Valid() bool {
	if b == nil {
		return false
	}
	if b.Width != 0 && b.Height > ^uint(0)/b.Width/PixelSize {
		return false
	}
	return uint(len(b.Pix)) == b.Width*b.Height*PixelSize
}

func (b *Bitmap) offset(x, y int) int {
	return (y*int(b.Width) + x) * PixelSize
}

// In reports whether (x, y) lies inside the bitmap.
func (b *Bitmap) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < int(b.Width) && y < int(b.Height)
}

// RGBAt returns the pixel at (x, y). Out of range coordinates return black.
func (b *Bitmap) RGBAt(x, y int) Color {
	if !b.In(x, y) {
		return Color{}
	}
	k := b.offset(x, y)
	return Color{b.Pix[k], b.Pix[k+1], b.Pix[k+2]}
}

// SetRGB sets the pixel at (x, y). Out of range coordinates are ignored.
func (b *Bitmap) SetRGB(x, y int, c Color) {
	if !b.In(x, y) {
		return
	}
	k := b.offset(x, y)
	b.Pix[k] = c.R
	b.Pix[k+1] = c.G
	b.Pix[k+2] = c.B
}

// Equal reports whether both bitmaps have the same dimensions and pixel bytes.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Width == other.Width && b.Height == other.Height && bytes.Equal(b.Pix, other.Pix)
}

// Bounds implements image.Image.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(b.Width), int(b.Height))
}

// ColorModel converts any color to an opaque Color.
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	return NewColorFromColor(c)
})

// ColorModel implements image.Image.
func (b *Bitmap) ColorModel() color.Model {
	return ColorModel
}

// At implements image.Image.
func (b *Bitmap) At(x, y int) color.Color {
	return b.RGBAt(x, y)
}

// BitmapFromImage flattens any image into a new RGB24 bitmap. Alpha is dropped.
func BitmapFromImage(img image.Image) *Bitmap {
	if bm, ok := img.(*Bitmap); ok {
		return &Bitmap{
			Pix:      append([]byte(nil), bm.Pix...),
			Width:    bm.Width,
			Height:   bm.Height,
			Filtered: bm.Filtered,
		}
	}

	bounds := img.Bounds()
	out := NewBitmap(uint(bounds.Dx()), uint(bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			out.SetRGB(x, y, NewColorFromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}
	return out
}
