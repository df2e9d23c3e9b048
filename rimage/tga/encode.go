package tga

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"go.viam.com/legacyimage/rimage"
)

// Encode writes b as an uncompressed, top to bottom, 24 bit TGA. The pixel bytes are written in
// Bitmap order, so Decode(Encode(b)) reproduces b exactly.
func Encode(b *rimage.Bitmap) ([]byte, error) {
	if b == nil {
		return nil, errors.New("cannot encode a nil bitmap")
	}
	if b.Width > MaxDimension || b.Height > MaxDimension {
		return nil, errors.Wrapf(rimage.ErrInvalidImage, "tga: %dx%d exceeds %d", b.Width, b.Height, MaxDimension)
	}
	if !b.Valid() {
		return nil, errors.Wrapf(rimage.ErrInvalidImage,
			"tga: %d pixel bytes for a %dx%d bitmap", len(b.Pix), b.Width, b.Height)
	}

	out := make([]byte, HeaderSize+len(b.Pix))
	out[offColorMapType] = 0
	out[offImageType] = uint8(TypeTrueColor)
	binary.LittleEndian.PutUint16(out[offWidth:], uint16(b.Width))
	binary.LittleEndian.PutUint16(out[offHeight:], uint16(b.Height))
	out[offBitsPerPixel] = 24
	out[offDescriptor] = descriptorTopToBottom
	copy(out[HeaderSize:], b.Pix)
	return out, nil
}

// EncodeTo writes the TGA encoding of b to w.
func EncodeTo(w io.Writer, b *rimage.Bitmap) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "writing tga")
	}
	return nil
}
