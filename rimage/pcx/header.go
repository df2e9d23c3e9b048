// Package pcx decodes 8 bit ZSoft PCX images into rimage bitmaps.
package pcx

import (
	"fmt"

	"go.viam.com/legacyimage/rimage"
	"go.viam.com/legacyimage/rimage/cursor"
)

// FormatName is the name PCX errors and the image package registration use.
const FormatName = "pcx"

const (
	// HeaderSize is the fixed size of a PCX header.
	HeaderSize = 128
	// Manufacturer is the magic first byte of every PCX file.
	Manufacturer = 10
	// EncodingRLE is the only encoding PCX defines.
	EncodingRLE = 1
	// PaletteMarker precedes the trailing 256 color palette.
	PaletteMarker = 0x0c
	// PaletteSize is the size of the trailing palette in bytes.
	PaletteSize = 256 * rimage.PixelSize
)

// header field offsets.
const (
	offManufacturer = 0
	offVersion      = 1
	offEncoding     = 2
	offBitsPerPixel = 3
	offMinX         = 4
	offMinY         = 6
	offMaxX         = 8
	offMaxY         = 10
	offHDPI         = 12
	offVDPI         = 14
	offEGAPalette   = 16
	offReserved     = 64
	offPlanes       = 65
	offBytesPerLine = 66
	offPaletteInfo  = 68
	offHScreen      = 70
	offVScreen      = 72

	egaPaletteSize = 48
)

// Version is the PC Paintbrush version that wrote the file.
type Version uint8

// Known versions.
const (
	Version25        Version = 0
	Version28Palette Version = 2
	Version28        Version = 3
	VersionWindows   Version = 4
	Version30        Version = 5
)

func (v Version) String() string {
	switch v {
	case Version25:
		return "2.5"
	case Version28Palette:
		return "2.8 with palette"
	case Version28:
		return "2.8"
	case VersionWindows:
		return "windows"
	case Version30:
		return "3.0+"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
}

// HasTrailingPalette reports whether this version stores a 256 color palette at the end of the file.
func (v Version) HasTrailingPalette() bool {
	switch v {
	case Version30:
		return true
	case Version25, Version28Palette, Version28, VersionWindows:
		return false
	default:
		return false
	}
}

// PlaneLayout is the number of color planes a PCX image is stored in.
type PlaneLayout uint8

// Supported layouts.
const (
	// PlanesIndexed is a single plane of palette indices or gray values.
	PlanesIndexed PlaneLayout = 1
	// PlanesRGB is three separate red, green and blue planes.
	PlanesRGB PlaneLayout = 3
)

func (p PlaneLayout) String() string {
	switch p {
	case PlanesIndexed:
		return "indexed"
	case PlanesRGB:
		return "rgb"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(p))
	}
}

// Header is a decoded PCX header.
type Header struct {
	Manufacturer uint8
	Version      Version
	Encoding     uint8
	BitsPerPixel uint8
	MinX, MinY   uint16
	MaxX, MaxY   uint16
	HDPI, VDPI   uint16
	EGAPalette   [egaPaletteSize]byte
	Reserved     uint8
	Planes       PlaneLayout
	BytesPerLine uint16
	PaletteInfo  uint16
	HScreen      uint16
	VScreen      uint16
}

// Width returns the image width the header describes.
func (h Header) Width() uint {
	return uint(h.MaxX) - uint(h.MinX) + 1
}

// Height returns the image height the header describes.
func (h Header) Height() uint {
	return uint(h.MaxY) - uint(h.MinY) + 1
}

// ParseHeader reads and validates the 128 byte header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	v, ok := cursor.NewView(data, HeaderSize)
	if !ok {
		return Header{}, invalid(rimage.KindTruncated, "need %d header bytes, have %d", HeaderSize, len(data))
	}

	h := Header{
		Manufacturer: v.Uint8(offManufacturer),
		Version:      Version(v.Uint8(offVersion)),
		Encoding:     v.Uint8(offEncoding),
		BitsPerPixel: v.Uint8(offBitsPerPixel),
		MinX:         v.Uint16LE(offMinX),
		MinY:         v.Uint16LE(offMinY),
		MaxX:         v.Uint16LE(offMaxX),
		MaxY:         v.Uint16LE(offMaxY),
		HDPI:         v.Uint16LE(offHDPI),
		VDPI:         v.Uint16LE(offVDPI),
		Reserved:     v.Uint8(offReserved),
		Planes:       PlaneLayout(v.Uint8(offPlanes)),
		BytesPerLine: v.Uint16LE(offBytesPerLine),
		PaletteInfo:  v.Uint16LE(offPaletteInfo),
		HScreen:      v.Uint16LE(offHScreen),
		VScreen:      v.Uint16LE(offVScreen),
	}
	copy(h.EGAPalette[:], v.Bytes(offEGAPalette, egaPaletteSize))

	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Validate checks the header fields in a fixed order and reports the first violation.
func (h Header) Validate() error {
	if h.Manufacturer != Manufacturer {
		return invalid(rimage.KindBadMagic, "manufacturer byte is %d, expected %d", h.Manufacturer, Manufacturer)
	}
	if h.Encoding != EncodingRLE {
		return invalid(rimage.KindUnsupported, "encoding %d is not run length encoding", h.Encoding)
	}
	if h.MinX >= h.MaxX {
		return invalid(rimage.KindBadGeometry, "min x %d is not less than max x %d", h.MinX, h.MaxX)
	}
	if h.MinY >= h.MaxY {
		return invalid(rimage.KindBadGeometry, "min y %d is not less than max y %d", h.MinY, h.MaxY)
	}
	switch h.Planes {
	case PlanesIndexed, PlanesRGB:
	default:
		return invalid(rimage.KindUnsupported, "%d color planes", uint8(h.Planes))
	}
	if h.BitsPerPixel != 8 {
		return invalid(rimage.KindUnsupported, "%d bits per pixel", h.BitsPerPixel)
	}
	return nil
}

func invalid(kind rimage.ErrorKind, reasonf string, args ...interface{}) error {
	return rimage.NewDecodeError(FormatName, kind, reasonf, args...)
}
