package rimage

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidImage is matched (via errors.Is) by every decode failure.
var ErrInvalidImage = errors.New("image data is invalid")

// ErrorKind classifies why a buffer was rejected.
type ErrorKind int

// The kinds of decode failure.
const (
	// KindTruncated means the buffer ended before a required field or sample.
	KindTruncated ErrorKind = iota
	// KindBadMagic means the signature, manufacturer or magic token is wrong.
	KindBadMagic
	// KindUnsupported means the header is well formed but describes a variant we do not decode.
	KindUnsupported
	// KindBadGeometry means the dimensions are zero, inverted, too large or overflow.
	KindBadGeometry
	// KindOutOfBounds means a declared offset or block reaches past the buffer.
	KindOutOfBounds
	// KindSampleRange means a sample or max value is outside its legal range.
	KindSampleRange
	// KindSizeMismatch means the decoded data does not match the declared size.
	KindSizeMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindTruncated:
		return "truncated"
	case KindBadMagic:
		return "bad magic"
	case KindUnsupported:
		return "unsupported"
	case KindBadGeometry:
		return "bad geometry"
	case KindOutOfBounds:
		return "out of bounds"
	case KindSampleRange:
		return "sample out of range"
	case KindSizeMismatch:
		return "size mismatch"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// DecodeError describes a rejected image buffer.
type DecodeError struct {
	Format string
	Kind   ErrorKind
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Format, ErrInvalidImage.Error(), e.Reason)
}

// Is lets errors.Is(err, ErrInvalidImage) succeed for any DecodeError.
func (e *DecodeError) Is(target error) bool {
	//nolint:errorlint
	return target == ErrInvalidImage
}

// NewDecodeError returns a DecodeError for the given format.
func NewDecodeError(format string, kind ErrorKind, reasonf string, args ...interface{}) error {
	return &DecodeError{Format: format, Kind: kind, Reason: fmt.Sprintf(reasonf, args...)}
}

// KindOf returns the kind of the first DecodeError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *DecodeError
	if !errors.As(err, &de) {
		return 0, false
	}
	return de.Kind, true
}
