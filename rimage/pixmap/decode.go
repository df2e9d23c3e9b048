package pixmap

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/legacyimage/logging"
	"go.viam.com/legacyimage/rimage"
	"go.viam.com/legacyimage/rimage/cursor"
	"go.viam.com/legacyimage/utils"
)

var blankLogger = logging.NewBlankLogger(FormatName)

// IsFileName reports whether name has a .pbm, .pgm or .ppm extension, ignoring ASCII case.
func IsFileName(name string) bool {
	return utils.HasAnyExtensionFold(name, ".pbm", ".pgm", ".ppm")
}

// Header is the parsed text header of a Netpbm file.
type Header struct {
	Format   Format
	Width    int
	Height   int
	MaxValue int
}

type parseState int

const (
	stateMagic parseState = iota
	stateWidth
	stateHeight
	stateMaxValue
	stateData
)

func (s parseState) String() string {
	switch s {
	case stateMagic:
		return "magic"
	case stateWidth:
		return "width"
	case stateHeight:
		return "height"
	case stateMaxValue:
		return "max value"
	case stateData:
		return "data"
	default:
		return "unknown"
	}
}

// Decode decodes a complete in-memory Netpbm file.
func Decode(data []byte) (*rimage.Bitmap, error) {
	return DecodeWithLogger(data, blankLogger)
}

// DecodeWithLogger is Decode, reporting diagnostics to logger.
func DecodeWithLogger(data []byte, logger logging.Logger) (*rimage.Bitmap, error) {
	c := cursor.New(data)
	h, err := parseHeader(c)
	if err != nil {
		return nil, err
	}
	logger.Debugw("parsed header", "format", h.Format.String(), "width", h.Width, "height", h.Height, "max", h.MaxValue)

	if err := checkAvailable(c, h); err != nil {
		return nil, err
	}

	out := rimage.NewBitmap(uint(h.Width), uint(h.Height))
	if h.Format.Binary() {
		err = decodeBinary(c, h, out.Pix)
	} else {
		err = decodeASCII(c, h, out.Pix)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseHeader parses the header tokens at the start of data.
func ParseHeader(data []byte) (Header, error) {
	return parseHeader(cursor.New(data))
}

// parseHeader runs the header state machine, leaving c just after the last header token.
func parseHeader(c *cursor.Cursor) (Header, error) {
	h := Header{MaxValue: 1}
	state := stateMagic
	for state != stateData {
		c.SkipSpace()
		if next, ok := c.Peek(); ok && next == '#' {
			c.SkipLine()
			continue
		}
		tok, ok := c.NextToken()
		if !ok {
			return Header{}, invalid(rimage.KindTruncated, "data ended while reading %s", state)
		}

		switch state {
		case stateMagic:
			f, ok := ParseFormat(string(tok))
			if !ok {
				return Header{}, invalid(rimage.KindBadMagic, "magic %q is not P1 through P6", truncateToken(tok))
			}
			h.Format = f
			state = stateWidth
		case stateWidth, stateHeight, stateMaxValue:
			v, err := parseNumber(tok, state)
			if err != nil {
				return Header{}, err
			}
			switch state {
			case stateWidth:
				h.Width = v
				state = stateHeight
			case stateHeight:
				h.Height = v
				if h.Format.HasMaxValue() {
					state = stateMaxValue
				} else {
					state = stateData
				}
			case stateMaxValue:
				if v <= 0 || v > 255 {
					return Header{}, invalid(rimage.KindSampleRange, "max value %d is not in (0, 255]", v)
				}
				h.MaxValue = v
				state = stateData
			case stateMagic, stateData:
			}
		case stateData:
		}
	}

	if h.Width <= 0 || h.Height <= 0 {
		return Header{}, invalid(rimage.KindBadGeometry, "%dx%d is not a positive size", h.Width, h.Height)
	}
	if uint64(h.Width)*uint64(h.Height)*rimage.PixelSize > math.MaxInt32 {
		return Header{}, invalid(rimage.KindBadGeometry, "%dx%d is too large", h.Width, h.Height)
	}
	return h, nil
}

func parseNumber(tok []byte, state parseState) (int, error) {
	v, err := cursor.ParseInt(tok)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, cursor.ErrOverflow):
		return 0, invalid(rimage.KindBadGeometry, "%s %q overflows", state, truncateToken(tok))
	default:
		return 0, invalid(rimage.KindSampleRange, "%s %q is not an integer", state, truncateToken(tok))
	}
}

// samples returns the number of samples the data section holds.
func (h Header) samples() int {
	return h.Width * h.Height * h.Format.Channels()
}

// dataSize returns the size in bytes of a binary data block.
func (h Header) dataSize() int {
	switch h.Format {
	case P4:
		return (h.Width*h.Height + 7) / 8
	case P5, P6:
		return h.samples()
	case P1, P2, P3:
		return 0
	default:
		return 0
	}
}

// checkAvailable rejects data that cannot possibly hold the declared samples, so that a small
// file cannot make us allocate a huge bitmap.
func checkAvailable(c *cursor.Cursor, h Header) error {
	need := h.dataSize() + 1
	if !h.Format.Binary() {
		// one digit per sample and whitespace between them
		need = 2*h.samples() - 1
	}
	if c.Remaining() < need {
		return invalid(rimage.KindTruncated, "%d bytes left for %d samples", c.Remaining(), h.samples())
	}
	return nil
}

// decodeBinary skips the rest of the line holding the last header token, so a trailing
// comment or a "\r\n" ending is allowed, and expects a block of exactly the declared size after it.
func decodeBinary(c *cursor.Cursor, h Header, out []byte) error {
	if c.AtEnd() {
		return invalid(rimage.KindTruncated, "no data after the header")
	}
	c.SkipLine()

	pixels := h.Width * h.Height
	blockSize := h.dataSize()
	if c.Remaining() != blockSize {
		kind := rimage.KindSizeMismatch
		if c.Remaining() < blockSize {
			kind = rimage.KindTruncated
		}
		return invalid(kind, "%s data block is %d bytes, expected %d", h.Format, c.Remaining(), blockSize)
	}
	block, err := c.Take(blockSize)
	if err != nil {
		return invalid(rimage.KindTruncated, "%s data block", h.Format)
	}

	switch h.Format {
	case P4:
		for i := 0; i < pixels; i++ {
			bit := block[i/8] >> (7 - uint(i%8)) & 1
			fill(out[i*rimage.PixelSize:], bitonal(int(bit)))
		}
	case P5:
		scale := 255 / h.MaxValue
		for i, v := range block {
			if int(v) > h.MaxValue {
				return invalid(rimage.KindSampleRange, "sample %d exceeds max value %d", v, h.MaxValue)
			}
			fill(out[i*rimage.PixelSize:], byte(int(v)*scale))
		}
	case P6:
		for _, v := range block {
			if int(v) > h.MaxValue {
				return invalid(rimage.KindSampleRange, "sample %d exceeds max value %d", v, h.MaxValue)
			}
		}
		copy(out, block)
	case P1, P2, P3:
	}
	return nil
}

// decodeASCII reads whitespace separated sample tokens until the data ends. Comments are
// allowed between samples.
func decodeASCII(c *cursor.Cursor, h Header, out []byte) error {
	channels := h.Format.Channels()
	scale := 255 / h.MaxValue
	written := 0
	for {
		c.SkipSpace()
		if next, ok := c.Peek(); ok && next == '#' {
			c.SkipLine()
			continue
		}
		tok, ok := c.NextToken()
		if !ok {
			break
		}
		v, err := cursor.ParseInt(tok)
		if err != nil {
			return invalid(rimage.KindSampleRange, "sample %q is not an integer", truncateToken(tok))
		}
		if v < 0 || v > h.MaxValue {
			return invalid(rimage.KindSampleRange, "sample %d is not in [0, %d]", v, h.MaxValue)
		}

		if channels == 1 {
			if written+rimage.PixelSize > len(out) {
				return invalid(rimage.KindSizeMismatch, "more than %d samples", h.Width*h.Height)
			}
			fill(out[written:], byte(v*scale))
			written += rimage.PixelSize
			continue
		}

		if written >= len(out) {
			return invalid(rimage.KindSizeMismatch, "more than %d samples", h.Width*h.Height*channels)
		}
		out[written] = byte(v)
		written++
	}

	if written != len(out) {
		return invalid(rimage.KindSizeMismatch, "decoded %d of %d bytes", written, len(out))
	}
	return nil
}

// bitonal maps a packed P4 bit, where 1 is black, to a gray level.
func bitonal(v int) byte {
	if v != 0 {
		return 0
	}
	return 255
}

func fill(dst []byte, v byte) {
	dst[0] = v
	dst[1] = v
	dst[2] = v
}

func truncateToken(tok []byte) string {
	const maxLen = 16
	if len(tok) > maxLen {
		return string(tok[:maxLen]) + "..."
	}
	return string(tok)
}

func invalid(kind rimage.ErrorKind, reasonf string, args ...interface{}) error {
	return rimage.NewDecodeError(FormatName, kind, reasonf, args...)
}
