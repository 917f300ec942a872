package spritematte

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/floats"
)

// Pixel is a single non-premultiplied RGBA sample.
type Pixel struct {
	R, G, B, A uint8
}

// Distance returns the Euclidean distance between p and q in RGB space.
// Alpha is ignored.
func (p Pixel) Distance(q Pixel) float64 {
	a := [3]float64{float64(p.R), float64(p.G), float64(p.B)}
	b := [3]float64{float64(q.R), float64(q.G), float64(q.B)}
	return floats.Distance(a[:], b[:], 2)
}

// Equal reports whether p and q have the same RGB channels.
func (p Pixel) Equal(q Pixel) bool {
	return p.R == q.R && p.G == q.G && p.B == q.B
}

// RGBA converts p to a color.NRGBA.
func (p Pixel) RGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// Image is an owned RGBA buffer. Pix holds W*H*4 bytes in row-major order.
type Image struct {
	W, H int
	Pix  []uint8
}

// NewImage returns a fully transparent black image of the given size.
// Negative dimensions are treated as zero.
func NewImage(w, h int) *Image {
	w, h = max(w, 0), max(h, 0)
	return &Image{
		W:   w,
		H:   h,
		Pix: make([]uint8, w*h*4),
	}
}

// FromImage copies src into a new Image, converting every pixel through the
// NRGBA color model.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	img := NewImage(w, h)
	if nrgba, ok := src.(*image.NRGBA); ok {
		for y := range h {
			s := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(img.Pix[pixOffset(w, 0, y):pixOffset(w, 0, y+1)], nrgba.Pix[s:s+w*4])
		}
		return img
	}
	for y := range h {
		for x := range w {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			off := pixOffset(w, x, y)
			img.Pix[off] = c.R
			img.Pix[off+1] = c.G
			img.Pix[off+2] = c.B
			img.Pix[off+3] = c.A
		}
	}
	return img
}

// NRGBA returns a copy of img as an *image.NRGBA, ready for the standard
// encoders.
func (img *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.W, img.H))
	copy(out.Pix, img.Pix)
	return out
}

// Bounds returns the image rectangle, anchored at the origin.
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.W, img.H)
}

// Valid reports whether img is non-nil and Pix holds exactly W*H*4 bytes.
func (img *Image) Valid() bool {
	return img != nil && img.W >= 0 && img.H >= 0 && len(img.Pix) == img.W*img.H*4
}

func (img *Image) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < img.W && y < img.H
}

// At returns the pixel at (x, y). Coordinates outside the image yield the
// zero Pixel.
func (img *Image) At(x, y int) Pixel {
	if !img.inside(x, y) {
		return Pixel{}
	}
	off := pixOffset(img.W, x, y)
	return Pixel{img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3]}
}

// Set writes p at (x, y). Writes outside the image are ignored.
func (img *Image) Set(x, y int, p Pixel) {
	if !img.inside(x, y) {
		return
	}
	off := pixOffset(img.W, x, y)
	img.Pix[off] = p.R
	img.Pix[off+1] = p.G
	img.Pix[off+2] = p.B
	img.Pix[off+3] = p.A
}

// SetAlpha replaces only the alpha channel at (x, y).
func (img *Image) SetAlpha(x, y int, a uint8) {
	if !img.inside(x, y) {
		return
	}
	img.Pix[pixOffset(img.W, x, y)+3] = a
}

// Clone returns a deep copy of img.
func (img *Image) Clone() *Image {
	out := &Image{W: img.W, H: img.H, Pix: make([]uint8, len(img.Pix))}
	copy(out.Pix, img.Pix)
	return out
}

// Crop copies the part of img inside r into a new Image. r is clipped to
// the image bounds.
func (img *Image) Crop(r image.Rectangle) *Image {
	r = r.Intersect(img.Bounds())
	out := NewImage(r.Dx(), r.Dy())
	for y := range out.H {
		s := pixOffset(img.W, r.Min.X, r.Min.Y+y)
		copy(out.Pix[pixOffset(out.W, 0, y):pixOffset(out.W, 0, y+1)], img.Pix[s:s+out.W*4])
	}
	return out
}

// TransparentFraction returns the share of pixels whose alpha is zero.
func (img *Image) TransparentFraction() float64 {
	n := img.W * img.H
	if n == 0 {
		return 0
	}
	transparent := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] == 0 {
			transparent++
		}
	}
	return float64(transparent) / float64(n)
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 4
}
