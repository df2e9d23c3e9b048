package pcx

import (
	"image"
	"io"

	"github.com/pkg/errors"

	"go.viam.com/legacyimage/rimage"
)

func init() {
	image.RegisterFormat(FormatName, "\x0a?\x01", DecodeImage, DecodeConfig)
}

// DecodeImage reads a whole PCX file from r. It lets PCX files be opened with image.Decode.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading pcx data")
	}
	b, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeConfig reads only the PCX header from r.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return image.Config{}, invalid(rimage.KindTruncated, "need %d header bytes", HeaderSize)
		}
		return image.Config{}, errors.Wrap(err, "reading pcx header")
	}
	h, err := ParseHeader(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: rimage.ColorModel,
		Width:      int(h.Width()),
		Height:     int(h.Height()),
	}, nil
}
