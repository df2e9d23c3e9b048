package cursor

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrSyntax is returned by ParseInt for anything but an optional '-' followed by digits.
	ErrSyntax = errors.New("invalid integer syntax")
	// ErrOverflow is returned by ParseInt when the value does not fit in a signed 32 bit int.
	ErrOverflow = errors.New("integer overflows int32")
)

// IsSpace reports whether b is ASCII whitespace: space, \t, \n, \v, \f or \r.
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsTokenChar reports whether b may appear in a header token: ASCII letters, digits and '#'.
func IsTokenChar(b byte) bool {
	return IsDigit(b) || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '#'
}

// SkipSpace consumes whitespace.
func (c *Cursor) SkipSpace() {
	for c.pos < len(c.buf) && IsSpace(c.buf[c.pos]) {
		c.pos++
	}
}

// SkipLine consumes everything through the next line ending. "\r", "\n" and "\r\n" each
// count as one line ending. At the last line it consumes to the end.
func (c *Cursor) SkipLine() {
	for c.pos < len(c.buf) {
		b := c.buf[c.pos]
		c.pos++
		if b == '\n' {
			return
		}
		if b == '\r' {
			if c.pos < len(c.buf) && c.buf[c.pos] == '\n' {
				c.pos++
			}
			return
		}
	}
}

// NextToken skips whitespace and consumes the following run of non-whitespace bytes.
// It reports false at the end of the buffer.
func (c *Cursor) NextToken() ([]byte, bool) {
	c.SkipSpace()
	if c.AtEnd() {
		return nil, false
	}
	start := c.pos
	for c.pos < len(c.buf) && !IsSpace(c.buf[c.pos]) {
		c.pos++
	}
	return c.buf[start:c.pos:c.pos], true
}

// ParseInt parses an optional '-' followed by one or more decimal digits. Overflow of the
// int32 range is detected before the accumulator would wrap.
func ParseInt(tok []byte) (int, error) {
	digits := tok
	negate := false
	if len(digits) > 0 && digits[0] == '-' {
		negate = true
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return 0, ErrSyntax
	}

	result := 0
	for _, b := range digits {
		if !IsDigit(b) {
			return 0, ErrSyntax
		}
		d := int(b - '0')
		if result > (math.MaxInt32-d)/10 {
			return 0, ErrOverflow
		}
		result = result*10 + d
	}
	if negate {
		result = -result
	}
	return result, nil
}
