package spritematte

// integralAlpha is a summed-area table over the alpha channel of an Image.
// It is padded with a zero row and column so sum[(y+1)*(w+1)+(x+1)] holds
// the sum of all alpha values in the rectangle [0,x]x[0,y].
type integralAlpha struct {
	w, h int
	sum  []uint64
}

func newIntegralAlpha(img *Image) integralAlpha {
	w, h := img.W, img.H
	t := integralAlpha{w: w, h: h, sum: make([]uint64, (w+1)*(h+1))}
	stride := w + 1
	for y := range h {
		var row uint64
		for x := range w {
			row += uint64(img.Pix[pixOffset(w, x, y)+3])
			t.sum[(y+1)*stride+x+1] = t.sum[y*stride+x+1] + row
		}
	}
	return t
}

// window returns the alpha sum and pixel count of the (2r+1)^2 window
// centred on (x, y), clipped to the image.
func (t integralAlpha) window(x, y, r int) (sum uint64, n int) {
	x0 := clampInt(x-r, 0, t.w-1)
	x1 := clampInt(x+r, 0, t.w-1) + 1
	y0 := clampInt(y-r, 0, t.h-1)
	y1 := clampInt(y+r, 0, t.h-1) + 1
	stride := t.w + 1
	sum = t.sum[y1*stride+x1] + t.sum[y0*stride+x0] - t.sum[y0*stride+x1] - t.sum[y1*stride+x0]
	return sum, (x1 - x0) * (y1 - y0)
}

// mean returns the window mean rounded half up.
func (t integralAlpha) mean(x, y, r int) uint8 {
	sum, n := t.window(x, y, r)
	if n == 0 {
		return 0
	}
	return uint8((2*sum + uint64(n)) / uint64(2*n))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
