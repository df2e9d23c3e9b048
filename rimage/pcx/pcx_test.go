package pcx

import (
	"bytes"
	"encoding/binary"
	"image"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/legacyimage/logging"
	"go.viam.com/legacyimage/rimage"
)

type testHeader struct {
	manufacturer, version, encoding, bpp, planes uint8
	minX, minY, maxX, maxY                       uint16
}

func defaultHeader(width, height uint16) testHeader {
	return testHeader{
		manufacturer: Manufacturer,
		version:      uint8(Version30),
		encoding:     EncodingRLE,
		bpp:          8,
		planes:       1,
		maxX:         width - 1,
		maxY:         height - 1,
	}
}

func (th testHeader) bytes() []byte {
	buf := make([]byte, HeaderSize)
	buf[offManufacturer] = th.manufacturer
	buf[offVersion] = th.version
	buf[offEncoding] = th.encoding
	buf[offBitsPerPixel] = th.bpp
	binary.LittleEndian.PutUint16(buf[offMinX:], th.minX)
	binary.LittleEndian.PutUint16(buf[offMinY:], th.minY)
	binary.LittleEndian.PutUint16(buf[offMaxX:], th.maxX)
	binary.LittleEndian.PutUint16(buf[offMaxY:], th.maxY)
	buf[offPlanes] = th.planes
	return buf
}

func withPalette(stream []byte, entries map[byte]rimage.Color) []byte {
	out := append([]byte(nil), stream...)
	out = append(out, PaletteMarker)
	palette := make([]byte, PaletteSize)
	for i, c := range entries {
		palette[int(i)*3] = c.R
		palette[int(i)*3+1] = c.G
		palette[int(i)*3+2] = c.B
	}
	return append(out, palette...)
}

func rawFile() []byte {
	h := defaultHeader(2, 2)
	h.version = uint8(Version25)
	return append(h.bytes(), 0xc3, 0x10, 0x42, 0xc8, 0x07)
}

func paletteFile() []byte {
	h := defaultHeader(2, 2)
	stream := []byte{0xc3, 0x01, 0x02}
	return append(h.bytes(), withPalette(stream, map[byte]rimage.Color{
		1: {R: 1, G: 2, B: 3},
		2: {R: 200, G: 100, B: 50},
	})...)
}

func TestDecodeRunLength(t *testing.T) {
	b, err := Decode(rawFile())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Width, test.ShouldEqual, uint(2))
	test.That(t, b.Height, test.ShouldEqual, uint(2))
	test.That(t, b.Valid(), test.ShouldBeTrue)
	test.That(t, b.Filtered, test.ShouldBeTrue)
	test.That(t, b.Pix, test.ShouldResemble, []byte{
		0x10, 0x10, 0x10, 0x42, 7, 7,
		7, 7, 7, 7, 7, 7,
	})
}

func TestDecodePalette(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	b, err := DecodeWithLogger(paletteFile(), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.RGBAt(0, 0), test.ShouldResemble, rimage.Color{R: 1, G: 2, B: 3})
	test.That(t, b.RGBAt(1, 0), test.ShouldResemble, rimage.Color{R: 1, G: 2, B: 3})
	test.That(t, b.RGBAt(0, 1), test.ShouldResemble, rimage.Color{R: 1, G: 2, B: 3})
	test.That(t, b.RGBAt(1, 1), test.ShouldResemble, rimage.Color{R: 200, G: 100, B: 50})
	test.That(t, logs.FilterMessage("using trailing palette").Len(), test.ShouldEqual, 1)
}

func TestDecodeIgnoresTrailingBytesWithoutPalette(t *testing.T) {
	data := append(rawFile(), 0xff, 0xff, 0xff)
	b, err := Decode(data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Valid(), test.ShouldBeTrue)
}

func TestDecodeOffsetGeometry(t *testing.T) {
	h := defaultHeader(0, 0)
	h.version = uint8(Version28)
	h.minX, h.maxX = 10, 12
	h.minY, h.maxY = 5, 6
	data := append(h.bytes(), 0xd2, 0x33)
	b, err := Decode(data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Width, test.ShouldEqual, uint(3))
	test.That(t, b.Height, test.ShouldEqual, uint(2))
	test.That(t, b.Pix, test.ShouldResemble, bytes.Repeat([]byte{0x33}, 18))
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*testHeader)
		stream []byte
		kind   rimage.ErrorKind
	}{
		{"manufacturer", func(h *testHeader) { h.manufacturer = 0 }, nil, rimage.KindBadMagic},
		{"encoding", func(h *testHeader) { h.encoding = 0 }, nil, rimage.KindUnsupported},
		{"flat x", func(h *testHeader) { h.minX = h.maxX }, nil, rimage.KindBadGeometry},
		{"inverted y", func(h *testHeader) { h.minY = h.maxY + 1 }, nil, rimage.KindBadGeometry},
		{"two planes", func(h *testHeader) { h.planes = 2 }, nil, rimage.KindUnsupported},
		{"four bits", func(h *testHeader) { h.bpp = 4 }, nil, rimage.KindUnsupported},
		{"rgb planes", func(h *testHeader) { h.planes = 3 }, nil, rimage.KindUnsupported},
		{"short stream", func(h *testHeader) { h.version = 0 }, []byte{0xc3, 0x10}, rimage.KindTruncated},
		{"missing run value", func(h *testHeader) { h.version = 0 }, []byte{0xcb, 0x10, 0xc1}, rimage.KindTruncated},
		{"overrun", func(h *testHeader) { h.version = 0 }, []byte{0xcd, 0x10}, rimage.KindOutOfBounds},
		{"empty stream", func(h *testHeader) { h.version = 0 }, []byte{}, rimage.KindTruncated},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := defaultHeader(2, 2)
			tc.mutate(&h)
			data := append(h.bytes(), tc.stream...)
			b, err := Decode(data)
			test.That(t, b, test.ShouldBeNil)
			test.That(t, errors.Is(err, rimage.ErrInvalidImage), test.ShouldBeTrue)
			kind, ok := rimage.KindOf(err)
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, kind, test.ShouldEqual, tc.kind)
		})
	}
}

func TestDecodeHugeGeometry(t *testing.T) {
	for _, version := range []Version{Version25, Version30} {
		h := defaultHeader(2, 2)
		h.version = uint8(version)
		h.maxX, h.maxY = 0xffff, 0xffff
		data := append(h.bytes(), 0xff, 0x00, 0xff, 0x00)
		if version.HasTrailingPalette() {
			data = append(h.bytes(), withPalette([]byte{0xff, 0x00}, nil)...)
		}

		b, err := Decode(data)
		test.That(t, b, test.ShouldBeNil)
		test.That(t, errors.Is(err, rimage.ErrInvalidImage), test.ShouldBeTrue)
		kind, ok := rimage.KindOf(err)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, kind, test.ShouldEqual, rimage.KindTruncated)
		test.That(t, err.Error(), test.ShouldContainSubstring, "65536x65536")
	}

	// a stream of maximal runs is enough for a large image
	h := defaultHeader(63, 10)
	h.version = uint8(Version25)
	stream := bytes.Repeat([]byte{0xff, 0x22}, 30)
	b, err := Decode(append(h.bytes(), stream...))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Valid(), test.ShouldBeTrue)
	test.That(t, b.Pix[len(b.Pix)-1], test.ShouldEqual, byte(0x22))
}

func TestDecodeValidationOrder(t *testing.T) {
	h := defaultHeader(2, 2)
	h.manufacturer = 1
	h.encoding = 7
	h.bpp = 1
	_, err := Decode(h.bytes())
	kind, _ := rimage.KindOf(err)
	test.That(t, kind, test.ShouldEqual, rimage.KindBadMagic)

	h.manufacturer = Manufacturer
	_, err = Decode(h.bytes())
	test.That(t, err.Error(), test.ShouldContainSubstring, "encoding")
}

func TestDecodePaletteErrors(t *testing.T) {
	data := paletteFile()
	data[len(data)-PaletteSize-1] = 0xc0
	_, err := Decode(data)
	kind, _ := rimage.KindOf(err)
	test.That(t, kind, test.ShouldEqual, rimage.KindBadMagic)

	h := defaultHeader(2, 2)
	_, err = Decode(append(h.bytes(), PaletteMarker, 0, 0))
	kind, _ = rimage.KindOf(err)
	test.That(t, kind, test.ShouldEqual, rimage.KindTruncated)

	// the palette must not be read as encoded data
	_, err = Decode(append(h.bytes(), withPalette([]byte{0xc1, 0x01}, nil)...))
	kind, _ = rimage.KindOf(err)
	test.That(t, kind, test.ShouldEqual, rimage.KindTruncated)
}

func TestDecodeTruncated(t *testing.T) {
	for _, data := range [][]byte{rawFile(), paletteFile()} {
		for n := 0; n < len(data); n++ {
			b, err := Decode(data[:n])
			if err == nil {
				test.That(t, b.Valid(), test.ShouldBeTrue)
				continue
			}
			test.That(t, b, test.ShouldBeNil)
			test.That(t, errors.Is(err, rimage.ErrInvalidImage), test.ShouldBeTrue)
		}
	}
	for n := 0; n < len(rawFile()); n++ {
		_, err := Decode(rawFile()[:n])
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func FuzzDecode(f *testing.F) {
	f.Add(rawFile())
	f.Add(paletteFile())
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, data []byte) {
		b, err := Decode(data)
		if err != nil {
			if b != nil {
				t.Fatal("bitmap returned with error")
			}
			return
		}
		if !b.Valid() {
			t.Fatalf("invalid bitmap %dx%d with %d bytes", b.Width, b.Height, len(b.Pix))
		}
	})
}

func TestImageRegistration(t *testing.T) {
	img, format, err := image.Decode(bytes.NewReader(paletteFile()))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, format, test.ShouldEqual, FormatName)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 2, 2))

	cfg, format, err := image.DecodeConfig(bytes.NewReader(rawFile()))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, format, test.ShouldEqual, FormatName)
	test.That(t, cfg.Width, test.ShouldEqual, 2)
	test.That(t, cfg.Height, test.ShouldEqual, 2)

	_, err = DecodeConfig(bytes.NewReader(rawFile()[:10]))
	test.That(t, errors.Is(err, rimage.ErrInvalidImage), test.ShouldBeTrue)
}

func TestHeader(t *testing.T) {
	h, err := ParseHeader(paletteFile())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, h.Version, test.ShouldEqual, Version30)
	test.That(t, h.Version.String(), test.ShouldEqual, "3.0+")
	test.That(t, h.Planes, test.ShouldEqual, PlanesIndexed)
	test.That(t, h.Planes.String(), test.ShouldEqual, "indexed")
	test.That(t, Version(9).String(), test.ShouldEqual, "unknown(9)")
	test.That(t, Version28.HasTrailingPalette(), test.ShouldBeFalse)

	_, err = ParseHeader(make([]byte, HeaderSize-1))
	kind, _ := rimage.KindOf(err)
	test.That(t, kind, test.ShouldEqual, rimage.KindTruncated)
}

func TestIsFileName(t *testing.T) {
	test.That(t, IsFileName("a.pcx"), test.ShouldBeTrue)
	test.That(t, IsFileName("A.PCX"), test.ShouldBeTrue)
	test.That(t, IsFileName("a.pcx.tga"), test.ShouldBeFalse)
	test.That(t, IsFileName("pcx"), test.ShouldBeFalse)
}
