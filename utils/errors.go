package utils

import (
	"github.com/pkg/errors"
)

// NewUnsupportedMimeTypeError is used when no codec handles a mime type.
func NewUnsupportedMimeTypeError(mimeType string) error {
	return errors.Errorf("unsupported mime type %q", mimeType)
}

// NewUnknownFormatError is used when the format of a file cannot be determined.
func NewUnknownFormatError(path string) error {
	return errors.Errorf("cannot tell the image format of %q", path)
}
