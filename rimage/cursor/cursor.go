// Package cursor provides bounds-checked views and scanners over untrusted image buffers.
//
// Nothing in this package ever reads past the end of the buffer it was given; running out of
// bytes is reported as ErrShortBuffer.
package cursor

import (
	"github.com/pkg/errors"
)

// ErrShortBuffer is returned when a read would go past the end of the buffer.
var ErrShortBuffer = errors.New("buffer too short")

// View is a fixed-size, read-only window over the start of a buffer, used for headers.
// Offsets are byte offsets from the start of the header and multi-byte fields are little
// endian.
type View struct {
	buf []byte
}

// NewView returns a view over the first size bytes of buf. It reports false if buf is
// shorter than size.
func NewView(buf []byte, size int) (View, bool) {
	if size < 0 || len(buf) < size {
		return View{}, false
	}
	return View{buf: buf[:size:size]}, true
}

// Len returns the size of the view.
func (v View) Len() int {
	return len(v.buf)
}

// Uint8 returns the byte at off. It panics if off is outside the view.
func (v View) Uint8(off int) uint8 {
	return v.buf[off]
}

// Uint16LE returns the little endian uint16 at off. It panics if the field is outside the view.
func (v View) Uint16LE(off int) uint16 {
	return uint16(v.buf[off]) | uint16(v.buf[off+1])<<8
}

// Uint32LE returns the little endian uint32 at off. It panics if the field is outside the view.
func (v View) Uint32LE(off int) uint32 {
	return uint32(v.buf[off]) | uint32(v.buf[off+1])<<8 | uint32(v.buf[off+2])<<16 | uint32(v.buf[off+3])<<24
}

// Bytes returns n bytes starting at off. The slice aliases the underlying buffer.
func (v View) Bytes(off, n int) []byte {
	return v.buf[off : off+n : off+n]
}

// Cursor scans forward over a buffer.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a cursor at the start of buf.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the size of the whole buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unconsumed bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// AtEnd reports whether every byte has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.buf)
}

// Rest returns the unconsumed bytes without consuming them.
func (c *Cursor) Rest() []byte {
	return c.buf[c.pos:]
}

// Peek returns the next byte without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.AtEnd() {
		return 0, false
	}
	return c.buf[c.pos], true
}

// Skip consumes n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.Remaining() {
		return ErrShortBuffer
	}
	c.pos += n
	return nil
}

// ReadByte consumes and returns the next byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.AtEnd() {
		return 0, ErrShortBuffer
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// Take consumes n bytes and returns them. The slice aliases the underlying buffer.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, ErrShortBuffer
	}
	out := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return out, nil
}
