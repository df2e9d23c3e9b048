package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestFormatErrors(t *testing.T) {
	test.That(t, NewUnsupportedMimeTypeError("image/jpeg").Error(), test.ShouldEqual, `unsupported mime type "image/jpeg"`)
	test.That(t, NewUnknownFormatError("a.dat").Error(), test.ShouldContainSubstring, "a.dat")
}
