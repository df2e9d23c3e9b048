package utils

import (
	"github.com/samber/lo"
)

const (
	// MimeTypePCX is ZSoft paintbrush images.
	MimeTypePCX = "image/x-pcx"

	// MimeTypeTGA is Truevision targa images.
	MimeTypeTGA = "image/x-tga"

	// MimeTypePBM is the Netpbm bitmap (P1, P4).
	MimeTypePBM = "image/x-portable-bitmap"

	// MimeTypePGM is the Netpbm graymap (P2, P5).
	MimeTypePGM = "image/x-portable-graymap"

	// MimeTypePPM is the Netpbm pixmap (P3, P6).
	MimeTypePPM = "image/x-portable-pixmap"

	// MimeTypePNG is regular pngs.
	MimeTypePNG = "image/png"

	// MimeTypeBMP is windows bitmaps.
	MimeTypeBMP = "image/bmp"

	// MimeTypeQOI is for .qoi "Quite OK Image" for lossless, fast encoding/decoding.
	MimeTypeQOI = "image/qoi"
)

var mimeTypeExtensions = map[string]string{
	MimeTypePCX: ".pcx",
	MimeTypeTGA: ".tga",
	MimeTypePBM: ".pbm",
	MimeTypePGM: ".pgm",
	MimeTypePPM: ".ppm",
	MimeTypePNG: ".png",
	MimeTypeBMP: ".bmp",
	MimeTypeQOI: ".qoi",
}

// MimeTypeFromFileName guesses the mime type from the file extension, ignoring ASCII case.
// It returns "" if the extension is not known.
func MimeTypeFromFileName(name string) string {
	mimeType, _ := lo.FindKeyBy(mimeTypeExtensions, func(_, ext string) bool {
		return HasExtensionFold(name, ext)
	})
	return mimeType
}

// ExtensionForMimeType returns the canonical extension for a known mime type.
func ExtensionForMimeType(mimeType string) (string, bool) {
	ext, ok := mimeTypeExtensions[mimeType]
	return ext, ok
}
