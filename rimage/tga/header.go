// Package tga decodes and encodes uncompressed 24 bit Truevision TGA images.
package tga

import (
	"fmt"

	"go.viam.com/legacyimage/rimage"
	"go.viam.com/legacyimage/rimage/cursor"
)

// FormatName is the name TGA errors use.
const FormatName = "tga"

const (
	// HeaderSize is the fixed size of a TGA header.
	HeaderSize = 18
	// MaxDimension is the largest width or height decoded or encoded.
	MaxDimension = 16384

	descriptorRightToLeft = 0x10
	descriptorTopToBottom = 0x20
)

const (
	offIDLength     = 0
	offColorMapType = 1
	offImageType    = 2
	offCMapFirst    = 3
	offCMapLength   = 5
	offCMapBits     = 7
	offXOrigin      = 8
	offYOrigin      = 10
	offWidth        = 12
	offHeight       = 14
	offBitsPerPixel = 16
	offDescriptor   = 17
)

// ImageType is the kind of pixel data a TGA file holds.
type ImageType uint8

// The image types TGA defines. Only TypeTrueColor is decoded.
const (
	TypeNoImage       ImageType = 0
	TypeColorMapped   ImageType = 1
	TypeTrueColor     ImageType = 2
	TypeBlackAndWhite ImageType = 3
	TypeRLEColorMap   ImageType = 9
	TypeRLETrueColor  ImageType = 10
	TypeRLEBlackWhite ImageType = 11
)

func (t ImageType) String() string {
	switch t {
	case TypeNoImage:
		return "no image"
	case TypeColorMapped:
		return "color mapped"
	case TypeTrueColor:
		return "true color"
	case TypeBlackAndWhite:
		return "black and white"
	case TypeRLEColorMap:
		return "rle color mapped"
	case TypeRLETrueColor:
		return "rle true color"
	case TypeRLEBlackWhite:
		return "rle black and white"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Header is a decoded TGA header.
type Header struct {
	IDLength       uint8
	ColorMapType   uint8
	ImageType      ImageType
	ColorMapFirst  uint16
	ColorMapLength uint16
	ColorMapBits   uint8
	XOrigin        uint16
	YOrigin        uint16
	Width          uint16
	Height         uint16
	BitsPerPixel   uint8
	Descriptor     uint8
}

// TopToBottom reports whether the first stored row is the top of the image.
func (h Header) TopToBottom() bool {
	return h.Descriptor&descriptorTopToBottom != 0
}

// LeftToRight reports whether pixels within a row are stored left first.
func (h Header) LeftToRight() bool {
	return h.Descriptor&descriptorRightToLeft == 0
}

// PixelOffset returns where pixel data starts: after the header, image id and color map.
func (h Header) PixelOffset() uint64 {
	return HeaderSize + uint64(h.IDLength) + uint64(h.ColorMapLength)*uint64(h.ColorMapBits/8)
}

// ParseHeader reads and validates the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	v, ok := cursor.NewView(data, HeaderSize)
	if !ok {
		return Header{}, invalid(rimage.KindTruncated, "need %d header bytes, have %d", HeaderSize, len(data))
	}
	h := Header{
		IDLength:       v.Uint8(offIDLength),
		ColorMapType:   v.Uint8(offColorMapType),
		ImageType:      ImageType(v.Uint8(offImageType)),
		ColorMapFirst:  v.Uint16LE(offCMapFirst),
		ColorMapLength: v.Uint16LE(offCMapLength),
		ColorMapBits:   v.Uint8(offCMapBits),
		XOrigin:        v.Uint16LE(offXOrigin),
		YOrigin:        v.Uint16LE(offYOrigin),
		Width:          v.Uint16LE(offWidth),
		Height:         v.Uint16LE(offHeight),
		BitsPerPixel:   v.Uint8(offBitsPerPixel),
		Descriptor:     v.Uint8(offDescriptor),
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Validate reports whether the header describes an image this package decodes.
func (h Header) Validate() error {
	switch h.ImageType {
	case TypeTrueColor:
	case TypeNoImage, TypeColorMapped, TypeBlackAndWhite, TypeRLEColorMap, TypeRLETrueColor, TypeRLEBlackWhite:
		return invalid(rimage.KindUnsupported, "image type %s", h.ImageType)
	default:
		return invalid(rimage.KindBadMagic, "image type %s", h.ImageType)
	}
	if h.BitsPerPixel != 24 {
		return invalid(rimage.KindUnsupported, "%d bits per pixel", h.BitsPerPixel)
	}
	if h.ColorMapLength != 0 || h.ColorMapBits != 0 {
		return invalid(rimage.KindUnsupported, "true color image with a color map")
	}
	if !h.LeftToRight() {
		return invalid(rimage.KindUnsupported, "right to left pixel order")
	}
	if h.Width > MaxDimension || h.Height > MaxDimension {
		return invalid(rimage.KindBadGeometry, "%dx%d exceeds %d", h.Width, h.Height, MaxDimension)
	}
	return nil
}

func invalid(kind rimage.ErrorKind, reasonf string, args ...interface{}) error {
	return rimage.NewDecodeError(FormatName, kind, reasonf, args...)
}
