package pcx

import (
	"go.viam.com/legacyimage/logging"
	"go.viam.com/legacyimage/rimage"
	"go.viam.com/legacyimage/rimage/cursor"
	"go.viam.com/legacyimage/utils"
)

var blankLogger = logging.NewBlankLogger(FormatName)

// IsFileName reports whether name has a .pcx extension, ignoring ASCII case.
func IsFileName(name string) bool {
	return utils.HasExtensionFold(name, ".pcx")
}

// Decode decodes a complete in-memory PCX file.
func Decode(data []byte) (*rimage.Bitmap, error) {
	return DecodeWithLogger(data, blankLogger)
}

// DecodeWithLogger is Decode, reporting diagnostics to logger.
func DecodeWithLogger(data []byte, logger logging.Logger) (*rimage.Bitmap, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	var palette []byte
	switch h.Planes {
	case PlanesIndexed:
		if h.Version.HasTrailingPalette() {
			palette, err = trailingPalette(data)
			if err != nil {
				return nil, err
			}
			logger.Debugw("using trailing palette", "version", h.Version.String())
		}
	case PlanesRGB:
		return nil, invalid(rimage.KindUnsupported, "three plane images are not supported")
	}

	end := len(data)
	if palette != nil {
		end = len(data) - PaletteSize - 1
	}

	if err := checkAvailable(h, end-HeaderSize, palette != nil); err != nil {
		return nil, err
	}

	out := rimage.NewBitmap(h.Width(), h.Height())
	if err := expand(data[HeaderSize:end], out.Pix, palette); err != nil {
		return nil, err
	}
	logger.Debugw("decoded", "width", out.Width, "height", out.Height, "version", h.Version.String())
	return out, nil
}

// maxRun is the longest run one encoded pair can describe.
const maxRun = 0xff - 0xc0

// checkAvailable rejects a header whose image is larger than streamLen encoded bytes could
// ever expand to, so that a small file cannot make us allocate a huge bitmap.
func checkAvailable(h Header, streamLen int, paletted bool) error {
	need := uint64(h.Width()) * uint64(h.Height()) * rimage.PixelSize
	most := uint64(streamLen) * maxRun
	if paletted {
		most *= rimage.PixelSize
	}
	if need > most {
		return invalid(rimage.KindTruncated, "%d encoded bytes cannot fill a %dx%d image", streamLen, h.Width(), h.Height())
	}
	return nil
}

// trailingPalette returns the 768 palette bytes at the end of data, checking the marker byte
// in front of them. The result aliases data.
func trailingPalette(data []byte) ([]byte, error) {
	if len(data) < HeaderSize+PaletteSize+1 {
		return nil, invalid(rimage.KindTruncated, "%d bytes is too short for a header and palette", len(data))
	}
	markerAt := len(data) - PaletteSize - 1
	if data[markerAt] != PaletteMarker {
		return nil, invalid(rimage.KindBadMagic, "palette marker is %#02x, expected %#02x", data[markerAt], PaletteMarker)
	}
	return data[markerAt+1:], nil
}

// expand run length decodes stream into out until out is full. Without a palette each decoded
// byte is written as is; with one each byte is replaced by its three palette bytes.
func expand(stream, out, palette []byte) error {
	c := cursor.New(stream)
	written := 0
	for written < len(out) {
		b, err := c.ReadByte()
		if err != nil {
			return invalid(rimage.KindTruncated, "encoded data ended with %d of %d bytes decoded", written, len(out))
		}
		run := 1
		value := b
		if b >= 0xc0 {
			run = int(b - 0xc0)
			value, err = c.ReadByte()
			if err != nil {
				return invalid(rimage.KindTruncated, "run of %d is missing its value byte", run)
			}
		}

		if palette == nil {
			if written+run > len(out) {
				return invalid(rimage.KindOutOfBounds, "run of %d overruns the image at byte %d", run, written)
			}
			for i := 0; i < run; i++ {
				out[written+i] = value
			}
			written += run
			continue
		}

		if written+run*rimage.PixelSize > len(out) {
			return invalid(rimage.KindOutOfBounds, "run of %d overruns the image at byte %d", run, written)
		}
		entry := palette[int(value)*rimage.PixelSize : int(value)*rimage.PixelSize+rimage.PixelSize]
		for i := 0; i < run; i++ {
			copy(out[written:written+rimage.PixelSize], entry)
			written += rimage.PixelSize
		}
	}
	return nil
}
