package rimage

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// PixelSize is the number of bytes a single pixel occupies in a Bitmap.
const PixelSize = 3

// Color is one RGB24 pixel. It is the unit Bitmap.Pix is made of and is always held by value.
type Color struct {
	R, G, B uint8
}

func (c Color) String() string {
	return c.Hex()
}

// Hex returns the color as a #rrggbb string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%.2x%.2x%.2x", c.R, c.G, c.B)
}

// RGBA implements color.Color. Bitmaps carry no alpha so every color is opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = 0xffff
	return
}

func (c Color) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// NewColor returns the color with the given channels.
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// NewColorFromHexOrPanic is NewColorFromHex for constants.
func NewColorFromHexOrPanic(hex string) Color {
	c, err := NewColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// NewColorFromHex parses a "#rrggbb" (or "#rgb") string.
func NewColorFromHex(hex string) (Color, error) {
	cc, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, errors.Wrapf(err, "couldn't parse hex (%s)", hex)
	}
	r, g, b := cc.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// NewColorFromColor drops alpha from any color.Color. Premultiplied channels are used as is.
func NewColorFromColor(c color.Color) Color {
	if cc, ok := c.(Color); ok {
		return cc
	}
	r, g, b, _ := c.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

var (
	Red   = NewColor(255, 0, 0)
	Green = NewColor(0, 255, 0)
	Blue  = NewColor(0, 0, 255)

	White     = NewColor(255, 255, 255)
	LightGray = NewColor(0xc0, 0xc0, 0xc0)
	Gray      = NewColor(128, 128, 128)
	Black     = NewColor(0, 0, 0)
)
