// Package codec picks a decoder or encoder for a file by its name or mime type.
package codec

import (
	"bytes"
	"context"
	"image/png"
	"os"

	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"

	"go.viam.com/legacyimage/logging"
	"go.viam.com/legacyimage/rimage"
	"go.viam.com/legacyimage/rimage/pcx"
	"go.viam.com/legacyimage/rimage/pixmap"
	"go.viam.com/legacyimage/rimage/tga"
	"go.viam.com/legacyimage/utils"
)

// Format is a legacy format this module decodes.
type Format int

// The decodable formats.
const (
	FormatUnknown Format = iota
	FormatPCX
	FormatTGA
	FormatPixmap
)

func (f Format) String() string {
	switch f {
	case FormatPCX:
		return pcx.FormatName
	case FormatTGA:
		return tga.FormatName
	case FormatPixmap:
		return pixmap.FormatName
	case FormatUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// FormatFromFileName returns the format implied by the extension of name.
func FormatFromFileName(name string) Format {
	switch {
	case pcx.IsFileName(name):
		return FormatPCX
	case tga.IsFileName(name):
		return FormatTGA
	case pixmap.IsFileName(name):
		return FormatPixmap
	default:
		return FormatUnknown
	}
}

// FormatFromMimeType returns the format for a mime type.
func FormatFromMimeType(mimeType string) Format {
	switch mimeType {
	case utils.MimeTypePCX:
		return FormatPCX
	case utils.MimeTypeTGA:
		return FormatTGA
	case utils.MimeTypePBM, utils.MimeTypePGM, utils.MimeTypePPM:
		return FormatPixmap
	default:
		return FormatUnknown
	}
}

// Sniff guesses the format from the first bytes of data. TGA has no signature so it is never
// returned.
func Sniff(data []byte) Format {
	if len(data) >= 3 && data[0] == pcx.Manufacturer && data[2] == pcx.EncodingRLE {
		return FormatPCX
	}
	if len(data) >= 2 && data[0] == 'P' && data[1] >= '1' && data[1] <= '6' {
		return FormatPixmap
	}
	return FormatUnknown
}

// Decode decodes data with the decoder for format.
func Decode(format Format, data []byte, logger logging.Logger) (*rimage.Bitmap, error) {
	switch format {
	case FormatPCX:
		return pcx.DecodeWithLogger(data, logger)
	case FormatTGA:
		return tga.DecodeWithLogger(data, logger)
	case FormatPixmap:
		return pixmap.DecodeWithLogger(data, logger)
	case FormatUnknown:
		return nil, errors.New("unknown image format")
	default:
		return nil, errors.Errorf("unknown image format %d", int(format))
	}
}

// DecodeImage decodes data of the given mime type.
func DecodeImage(ctx context.Context, data []byte, mimeType string, logger logging.Logger) (*rimage.Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format := FormatFromMimeType(mimeType)
	if format == FormatUnknown {
		return nil, utils.NewUnsupportedMimeTypeError(mimeType)
	}
	return Decode(format, data, logger)
}

// ReadFile reads and decodes the file at path. The format comes from the extension, falling back
// to the file contents.
func ReadFile(ctx context.Context, path string, logger logging.Logger) (*rimage.Bitmap, Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, FormatUnknown, err
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, FormatUnknown, errors.Wrapf(err, "reading %q", path)
	}
	format := FormatFromFileName(path)
	if format == FormatUnknown {
		format = Sniff(data)
	}
	if format == FormatUnknown {
		return nil, FormatUnknown, utils.NewUnknownFormatError(path)
	}
	logger.CDebugw(ctx, "decoding", "path", path, "format", format.String(), "bytes", len(data))
	b, err := Decode(format, data, logger)
	if err != nil {
		return nil, format, errors.Wrapf(err, "decoding %q", path)
	}
	return b, format, nil
}

// EncodeImage encodes b as the given mime type. Netpbm output is always binary PPM.
func EncodeImage(ctx context.Context, b *rimage.Bitmap, mimeType string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !b.Valid() {
		return nil, errors.New("bitmap buffer does not match its dimensions")
	}
	if mimeType == utils.MimeTypeTGA {
		return tga.Encode(b)
	}

	var buf bytes.Buffer
	var err error
	switch mimeType {
	case utils.MimeTypePNG:
		err = png.Encode(&buf, b)
	case utils.MimeTypeQOI:
		err = qoi.Encode(&buf, b)
	case utils.MimeTypePPM:
		err = ppm.Encode(&buf, b)
	case utils.MimeTypeBMP:
		err = bmp.Encode(&buf, b)
	default:
		return nil, utils.NewUnsupportedMimeTypeError(mimeType)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", mimeType)
	}
	return buf.Bytes(), nil
}

// WriteFile encodes b in the format implied by the extension of path and writes it.
func WriteFile(ctx context.Context, path string, b *rimage.Bitmap) error {
	mimeType := utils.MimeTypeFromFileName(path)
	if mimeType == "" {
		return utils.NewUnknownFormatError(path)
	}
	data, err := EncodeImage(ctx, b, mimeType)
	if err != nil {
		return err
	}
	//nolint:gosec
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %q", path)
	}
	return nil
}

// EncodableMimeTypes lists what EncodeImage accepts.
var EncodableMimeTypes = []string{
	utils.MimeTypeTGA,
	utils.MimeTypePNG,
	utils.MimeTypeQOI,
	utils.MimeTypePPM,
	utils.MimeTypeBMP,
}
