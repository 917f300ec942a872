package spritematte

import "math"

// Composite turns a classification into the output alpha of one pixel.
// A transparent source stays transparent. Otherwise the source alpha is
// scaled by 1-confidence, so confidence 1 clears the pixel and confidence 0
// keeps it as is. Only the confidence is consulted.
func Composite(src uint8, c Classification) uint8 {
	if src == 0 {
		return 0
	}
	conf := c.Confidence
	if math.IsNaN(conf) {
		return src
	}
	conf = max(0, min(1, conf))
	return uint8(math.Round((1 - conf) * float64(src)))
}

// FeatherAlpha replaces each alpha value of img with the mean alpha of the
// (2*radius+1)^2 window around it. Windows are clipped at the image border
// and averaged over the pixels they cover, so uniform regions are left
// unchanged. Color channels are never touched. radius <= 0 is a no-op, as
// is an image whose buffer does not match its size.
func FeatherAlpha(img *Image, radius int) {
	if radius <= 0 || !img.Valid() || img.W == 0 || img.H == 0 {
		return
	}
	table := newIntegralAlpha(img)
	for y := range img.H {
		for x := range img.W {
			img.Pix[pixOffset(img.W, x, y)+3] = table.mean(x, y, radius)
		}
	}
}

// compositeImage applies mode to every pixel of src and writes the result
// alpha into dst. dst must have the same size as src.
func compositeImage(dst, src *Image, cfg *Config, mode Mode) {
	for y := range src.H {
		for x := range src.W {
			off := pixOffset(src.W, x, y)
			a := src.Pix[off+3]
			if a == 0 {
				dst.Pix[off+3] = 0
				continue
			}
			p := Pixel{src.Pix[off], src.Pix[off+1], src.Pix[off+2], a}
			dst.Pix[off+3] = Composite(a, Classify(p, cfg, mode))
		}
	}
}

// compositeSegmented reads the alpha of a segmenter result as a
// classification: an output alpha s means confidence 1-s/255.
func compositeSegmented(dst, src, seg *Image) {
	for i := 3; i < len(src.Pix); i += 4 {
		a := src.Pix[i]
		s := seg.Pix[i]
		c := Classification{Background: s < 255, Confidence: 1 - float64(s)/255}
		dst.Pix[i] = Composite(a, c)
	}
}
