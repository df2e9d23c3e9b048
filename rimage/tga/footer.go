package tga

import (
	"bytes"
	"strings"
	"time"

	"go.viam.com/legacyimage/rimage/cursor"
)

const (
	// FooterSize is the size of a TGA 2.0 footer.
	FooterSize = 26
	// Signature ends every TGA 2.0 file, including its trailing NUL.
	Signature = "TRUEVISION-XFILE.\x00"

	extensionSize = 495
)

// Footer is the TGA 2.0 trailer.
type Footer struct {
	ExtensionOffset          uint32
	DeveloperDirectoryOffset uint32
}

// ParseFooter looks for a TGA 2.0 footer at the end of data. It reports false for original
// TGA files, which have none.
func ParseFooter(data []byte) (Footer, bool) {
	if len(data) < HeaderSize+FooterSize {
		return Footer{}, false
	}
	v, _ := cursor.NewView(data[len(data)-FooterSize:], FooterSize)
	if string(v.Bytes(8, len(Signature))) != Signature {
		return Footer{}, false
	}
	return Footer{
		ExtensionOffset:          v.Uint32LE(0),
		DeveloperDirectoryOffset: v.Uint32LE(4),
	}, true
}

// AlphaType describes how the extension area says alpha should be treated.
type AlphaType uint8

// Alpha types.
const (
	AlphaNone AlphaType = iota
	AlphaIgnorable
	AlphaRetained
	AlphaPresent
	AlphaPremultiplied
)

func (a AlphaType) String() string {
	switch a {
	case AlphaNone:
		return "none"
	case AlphaIgnorable:
		return "ignorable"
	case AlphaRetained:
		return "retained"
	case AlphaPresent:
		return "present"
	case AlphaPremultiplied:
		return "premultiplied"
	default:
		return "unknown"
	}
}

// Extension is the descriptive part of a TGA 2.0 extension area.
type Extension struct {
	Author     string
	Comments   []string
	Created    time.Time
	JobName    string
	SoftwareID string
	Alpha      AlphaType
}

// ParseExtension reads the extension area a footer points at. It reports false if the offset
// is zero, out of range, or the area does not declare the expected size.
func ParseExtension(data []byte, f Footer) (Extension, bool) {
	off := uint64(f.ExtensionOffset)
	if off == 0 || off > uint64(len(data)) {
		return Extension{}, false
	}
	v, ok := cursor.NewView(data[off:], extensionSize)
	if !ok || v.Uint16LE(0) != extensionSize {
		return Extension{}, false
	}

	ext := Extension{
		Author:     fixedString(v.Bytes(2, 41)),
		JobName:    fixedString(v.Bytes(379, 41)),
		SoftwareID: fixedString(v.Bytes(426, 41)),
		Alpha:      AlphaType(v.Uint8(494)),
	}
	for i := 0; i < 4; i++ {
		if line := fixedString(v.Bytes(43+81*i, 81)); line != "" {
			ext.Comments = append(ext.Comments, line)
		}
	}
	month, day, year := int(v.Uint16LE(367)), int(v.Uint16LE(369)), int(v.Uint16LE(371))
	if month != 0 && day != 0 && year != 0 {
		ext.Created = time.Date(year, time.Month(month), day,
			int(v.Uint16LE(373)), int(v.Uint16LE(375)), int(v.Uint16LE(377)), 0, time.UTC)
	}
	return ext, true
}

func fixedString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), " ")
}
