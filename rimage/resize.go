package rimage

// ResizePointSampled returns a copy of b scaled to width x height using nearest neighbour
// sampling. A zero sized source or destination yields an empty bitmap of the requested size.
func ResizePointSampled(b *Bitmap, width, height uint) *Bitmap {
	out := NewBitmap(width, height)
	if b.Width == 0 || b.Height == 0 || width == 0 || height == 0 {
		return out
	}

	for y := uint(0); y < height; y++ {
		srcY := b.Height * y / height
		srcRow := srcY * b.Width * PixelSize
		dstRow := y * width * PixelSize
		for x := uint(0); x < width; x++ {
			srcX := b.Width * x / width
			s := srcRow + srcX*PixelSize
			d := dstRow + x*PixelSize
			copy(out.Pix[d:d+PixelSize], b.Pix[s:s+PixelSize])
		}
	}
	return out
}
