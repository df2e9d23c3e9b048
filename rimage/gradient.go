package rimage

import (
	"github.com/pkg/errors"
)

// GradientDirection is the axis a linear gradient runs along.
type GradientDirection int

const (
	// GradientHorizontal blends from the left column to the right column.
	GradientHorizontal GradientDirection = iota
	// GradientVertical blends from the top row to the bottom row.
	GradientVertical
)

func (d GradientDirection) String() string {
	switch d {
	case GradientHorizontal:
		return "horizontal"
	case GradientVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// GradientDirectionFromString parses "horizontal" or "vertical".
func GradientDirectionFromString(s string) (GradientDirection, error) {
	switch s {
	case "horizontal", "h", "":
		return GradientHorizontal, nil
	case "vertical", "v":
		return GradientVertical, nil
	default:
		return 0, errors.Errorf("unknown gradient direction %q", s)
	}
}

var (
	gridDark  = NewColor(0xc0, 0xc0, 0xc0)
	gridLight = NewColor(0xff, 0xff, 0xff)
)

// NewGridTexture returns a 2x2 checker of light gray and white quadrants, light gray in the
// top left.
func NewGridTexture(width, height uint) *Bitmap {
	b := NewBitmap(width, height)
	for y := uint(0); y < height; y++ {
		for x := uint(0); x < width; x++ {
			c := gridLight
			if (x < width/2) != (y >= height/2) {
				c = gridDark
			}
			b.SetRGB(int(x), int(y), c)
		}
	}
	return b
}

// NewLinearGradient returns a bitmap blending from one color to another in Lab space. The
// first column (or row) is exactly from and the last is exactly to.
func NewLinearGradient(width, height uint, from, to Color, dir GradientDirection) *Bitmap {
	b := NewBitmap(width, height)
	steps := width
	if dir == GradientVertical {
		steps = height
	}
	if steps == 0 {
		return b
	}

	start, end := from.toColorful(), to.toColorful()
	ramp := make([]Color, steps)
	for i := range ramp {
		switch {
		case i == 0:
			ramp[i] = from
		case uint(i) == steps-1:
			ramp[i] = to
		default:
			t := float64(i) / float64(steps-1)
			r, g, bl := start.BlendLab(end, t).Clamped().RGB255()
			ramp[i] = Color{r, g, bl}
		}
	}

	for y := uint(0); y < height; y++ {
		for x := uint(0); x < width; x++ {
			if dir == GradientVertical {
				b.SetRGB(int(x), int(y), ramp[y])
			} else {
				b.SetRGB(int(x), int(y), ramp[x])
			}
		}
	}
	return b
}
