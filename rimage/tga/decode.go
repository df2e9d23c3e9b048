package tga

import (
	"go.viam.com/legacyimage/logging"
	"go.viam.com/legacyimage/rimage"
	"go.viam.com/legacyimage/utils"
)

var blankLogger = logging.NewBlankLogger(FormatName)

// IsFileName reports whether name has a .tga extension, ignoring ASCII case.
func IsFileName(name string) bool {
	return utils.HasExtensionFold(name, ".tga")
}

// Decode decodes a complete in-memory TGA file. Bytes after the pixel data, such as a TGA 2.0
// footer, are ignored.
func Decode(data []byte) (*rimage.Bitmap, error) {
	return DecodeWithLogger(data, blankLogger)
}

// DecodeWithLogger is Decode, reporting diagnostics to logger.
func DecodeWithLogger(data []byte, logger logging.Logger) (*rimage.Bitmap, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	offset := h.PixelOffset()
	size := uint64(h.Width) * uint64(h.Height) * rimage.PixelSize
	if offset > uint64(len(data)) || size > uint64(len(data))-offset {
		return nil, invalid(rimage.KindOutOfBounds,
			"%d bytes of pixels at offset %d overrun a %d byte buffer", size, offset, len(data))
	}
	pixels := data[offset : offset+size]

	out := rimage.NewBitmap(uint(h.Width), uint(h.Height))
	if h.TopToBottom() {
		copy(out.Pix, pixels)
		return out, nil
	}

	logger.Debugw("copying rows bottom to top; encode top to bottom for best performance",
		"width", h.Width, "height", h.Height)
	stride := int(h.Width) * rimage.PixelSize
	rows := int(h.Height)
	for y := 0; y < rows; y++ {
		src := pixels[y*stride : (y+1)*stride]
		dst := (rows - 1 - y) * stride
		copy(out.Pix[dst:dst+stride], src)
	}
	return out, nil
}
