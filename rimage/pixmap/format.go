// Package pixmap decodes the six Netpbm formats (P1 through P6) into rimage bitmaps.
package pixmap

import (
	"fmt"
)

// FormatName is the name Netpbm errors use.
const FormatName = "pixmap"

// Format is one of the Netpbm sub-formats named by the magic token.
type Format uint8

// The Netpbm sub-formats.
const (
	// P1 is ASCII bitmap.
	P1 Format = iota + 1
	// P2 is ASCII graymap.
	P2
	// P3 is ASCII pixmap.
	P3
	// P4 is binary bitmap.
	P4
	// P5 is binary graymap.
	P5
	// P6 is binary pixmap.
	P6
)

// ParseFormat parses a magic token.
func ParseFormat(tok string) (Format, bool) {
	switch tok {
	case "P1":
		return P1, true
	case "P2":
		return P2, true
	case "P3":
		return P3, true
	case "P4":
		return P4, true
	case "P5":
		return P5, true
	case "P6":
		return P6, true
	default:
		return 0, false
	}
}

func (f Format) String() string {
	switch f {
	case P1, P2, P3, P4, P5, P6:
		return fmt.Sprintf("P%d", uint8(f))
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// Binary reports whether samples are stored as raw bytes rather than ASCII tokens.
func (f Format) Binary() bool {
	switch f {
	case P4, P5, P6:
		return true
	case P1, P2, P3:
		return false
	default:
		return false
	}
}

// Channels returns the number of samples per pixel.
func (f Format) Channels() int {
	switch f {
	case P3, P6:
		return 3
	case P1, P2, P4, P5:
		return 1
	default:
		return 0
	}
}

// HasMaxValue reports whether the header carries a max value token. Bitmaps are implicitly 0/1.
func (f Format) HasMaxValue() bool {
	switch f {
	case P2, P3, P5, P6:
		return true
	case P1, P4:
		return false
	default:
		return false
	}
}

// Bitonal reports whether the format has only black and white pixels.
func (f Format) Bitonal() bool {
	switch f {
	case P1, P4:
		return true
	case P2, P3, P5, P6:
		return false
	default:
		return false
	}
}
