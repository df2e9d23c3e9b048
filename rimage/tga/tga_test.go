package tga

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/legacyimage/logging"
	"go.viam.com/legacyimage/rimage"
)

func testBitmap(width, height uint) *rimage.Bitmap {
	b := rimage.NewBitmap(width, height)
	for i := range b.Pix {
		b.Pix[i] = byte(i * 7)
	}
	return b
}

func rawTGA(width, height uint16, descriptor byte, pix []byte) []byte {
	h := make([]byte, HeaderSize)
	h[offImageType] = uint8(TypeTrueColor)
	binary.LittleEndian.PutUint16(h[offWidth:], width)
	binary.LittleEndian.PutUint16(h[offHeight:], height)
	h[offBitsPerPixel] = 24
	h[offDescriptor] = descriptor
	return append(h, pix...)
}

func TestRoundTrip(t *testing.T) {
	for _, size := range [][2]uint{{1, 1}, {3, 2}, {16, 9}, {0, 0}, {5, 0}} {
		b := testBitmap(size[0], size[1])
		data, err := Encode(b)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(data), test.ShouldEqual, HeaderSize+len(b.Pix))
		test.That(t, data[offDescriptor], test.ShouldEqual, byte(0x20))
		test.That(t, data[offImageType], test.ShouldEqual, byte(2))
		test.That(t, data[offBitsPerPixel], test.ShouldEqual, byte(24))

		decoded, err := Decode(data)
		test.That(t, err, test.ShouldBeNil)
		if diff := cmp.Diff(b, decoded); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestEncodeTo(t *testing.T) {
	var buf bytes.Buffer
	b := testBitmap(2, 2)
	test.That(t, EncodeTo(&buf, b), test.ShouldBeNil)
	expected, err := Encode(b)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, buf.Bytes(), test.ShouldResemble, expected)
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(&rimage.Bitmap{Width: MaxDimension + 1, Height: 1})
	test.That(t, errors.Is(err, rimage.ErrInvalidImage), test.ShouldBeTrue)
	_, err = Encode(&rimage.Bitmap{Width: 1, Height: MaxDimension + 1})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Encode(&rimage.Bitmap{Pix: []byte{1, 2}, Width: 1, Height: 1})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Encode(nil)
	test.That(t, err, test.ShouldNotBeNil)

	data, err := Encode(&rimage.Bitmap{Width: MaxDimension, Height: 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(data), test.ShouldEqual, HeaderSize)
}

func TestDecodeBottomToTop(t *testing.T) {
	rows := []byte{
		1, 1, 1, 2, 2, 2, // stored first, the bottom row
		3, 3, 3, 4, 4, 4,
		5, 5, 5, 6, 6, 6,
	}
	logger, logs := logging.NewObservedTestLogger(t)
	b, err := DecodeWithLogger(rawTGA(2, 3, 0, rows), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Pix, test.ShouldResemble, []byte{
		5, 5, 5, 6, 6, 6,
		3, 3, 3, 4, 4, 4,
		1, 1, 1, 2, 2, 2,
	})
	test.That(t, logs.FilterLevelExact(logging.DEBUG.AsZap()).Len(), test.ShouldEqual, 1)

	topDown, err := DecodeWithLogger(rawTGA(2, 3, descriptorTopToBottom, rows), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, topDown.Pix, test.ShouldResemble, rows)
	test.That(t, logs.Len(), test.ShouldEqual, 1)
}

func TestDecodeSkipsIDField(t *testing.T) {
	data := rawTGA(1, 1, descriptorTopToBottom, nil)
	data[offIDLength] = 4
	data = append(data, 'n', 'a', 'm', 'e', 9, 8, 7)
	b, err := Decode(data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Pix, test.ShouldResemble, []byte{9, 8, 7})
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func([]byte)
		kind   rimage.ErrorKind
	}{
		{"color mapped", func(d []byte) { d[offImageType] = 1 }, rimage.KindUnsupported},
		{"rle", func(d []byte) { d[offImageType] = 10 }, rimage.KindUnsupported},
		{"unknown type", func(d []byte) { d[offImageType] = 77 }, rimage.KindBadMagic},
		{"32 bit", func(d []byte) { d[offBitsPerPixel] = 32 }, rimage.KindUnsupported},
		{"color map length", func(d []byte) { d[offCMapLength] = 1 }, rimage.KindUnsupported},
		{"color map bits", func(d []byte) { d[offCMapBits] = 24 }, rimage.KindUnsupported},
		{"right to left", func(d []byte) { d[offDescriptor] |= descriptorRightToLeft }, rimage.KindUnsupported},
		{"too wide", func(d []byte) { binary.LittleEndian.PutUint16(d[offWidth:], MaxDimension+1) }, rimage.KindBadGeometry},
		{"too tall", func(d []byte) { binary.LittleEndian.PutUint16(d[offHeight:], 0xffff) }, rimage.KindBadGeometry},
		{"pixels past end", func(d []byte) { d[offHeight] = 3 }, rimage.KindOutOfBounds},
		{"id past end", func(d []byte) { d[offIDLength] = 0xff }, rimage.KindOutOfBounds},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data := rawTGA(2, 2, descriptorTopToBottom, make([]byte, 12))
			tc.mutate(data)
			b, err := Decode(data)
			test.That(t, b, test.ShouldBeNil)
			test.That(t, errors.Is(err, rimage.ErrInvalidImage), test.ShouldBeTrue)
			kind, ok := rimage.KindOf(err)
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, kind, test.ShouldEqual, tc.kind)
		})
	}
}

func TestDecodeTruncated(t *testing.T) {
	data, err := Encode(testBitmap(3, 3))
	test.That(t, err, test.ShouldBeNil)
	for n := 0; n < len(data); n++ {
		b, err := Decode(data[:n])
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, b, test.ShouldBeNil)
		test.That(t, errors.Is(err, rimage.ErrInvalidImage), test.ShouldBeTrue)
	}
}

func FuzzDecode(f *testing.F) {
	seed, err := Encode(testBitmap(2, 2))
	if err != nil {
		f.Fatal(err)
	}
	f.Add(seed)
	f.Add(rawTGA(1, 2, 0, []byte{1, 2, 3, 4, 5, 6}))
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

func TestFooter(t *testing.T) {
	data, err := Encode(testBitmap(2, 2))
	test.That(t, err, test.ShouldBeNil)
	_, ok := ParseFooter(data)
	test.That(t, ok, test.ShouldBeFalse)

	extOffset := len(data)
	ext := make([]byte, extensionSize)
	binary.LittleEndian.PutUint16(ext, extensionSize)
	copy(ext[2:], "Ada")
	copy(ext[43:], "first line")
	copy(ext[43+81*2:], "third line   ")
	binary.LittleEndian.PutUint16(ext[367:], 3)
	binary.LittleEndian.PutUint16(ext[369:], 14)
	binary.LittleEndian.PutUint16(ext[371:], 1994)
	binary.LittleEndian.PutUint16(ext[373:], 13)
	copy(ext[426:], "paintbrush")
	ext[494] = byte(AlphaIgnorable)
	data = append(data, ext...)

	footer := make([]byte, 8, FooterSize)
	binary.LittleEndian.PutUint32(footer, uint32(extOffset))
	footer = append(footer, Signature...)
	data = append(data, footer...)

	f, ok := ParseFooter(data)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, f.ExtensionOffset, test.ShouldEqual, uint32(extOffset))
	test.That(t, f.DeveloperDirectoryOffset, test.ShouldEqual, uint32(0))

	e, ok := ParseExtension(data, f)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, e.Author, test.ShouldEqual, "Ada")
	test.That(t, e.Comments, test.ShouldResemble, []string{"first line", "third line"})
	test.That(t, e.Created.Year(), test.ShouldEqual, 1994)
	test.That(t, e.Created.Hour(), test.ShouldEqual, 13)
	test.That(t, e.SoftwareID, test.ShouldEqual, "paintbrush")
	test.That(t, e.Alpha, test.ShouldEqual, AlphaIgnorable)

	// footers and extensions are ignored by the decoder
	b, err := Decode(data)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Equal(testBitmap(2, 2)), test.ShouldBeTrue)

	_, ok = ParseExtension(data, Footer{ExtensionOffset: uint32(len(data) - 10)})
	test.That(t, ok, test.ShouldBeFalse)
	_, ok = ParseExtension(data, Footer{})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestHeaderAndNames(t *testing.T) {
	h, err := ParseHeader(rawTGA(4, 5, descriptorTopToBottom, nil))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, h.Width, test.ShouldEqual, uint16(4))
	test.That(t, h.TopToBottom(), test.ShouldBeTrue)
	test.That(t, h.PixelOffset(), test.ShouldEqual, uint64(HeaderSize))
	test.That(t, h.ImageType.String(), test.ShouldEqual, "true color")

	test.That(t, IsFileName("x.TGA"), test.ShouldBeTrue)
	test.That(t, IsFileName("x.tga.pcx"), test.ShouldBeFalse)
}
