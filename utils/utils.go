package utils

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	sm "github.com/setanarut/spritematte"
)

// ReadImage decodes the image at path. PNG, JPEG, GIF, BMP, TIFF and WebP
// are recognised.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// ReadMatte decodes the image at path into a spritematte.Image.
func ReadMatte(path string) (*sm.Image, error) {
	img, err := ReadImage(path)
	if err != nil {
		return nil, err
	}
	return sm.FromImage(img), nil
}

func create(filename string, encode func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveImage writes img as a PNG file.
func SaveImage(img image.Image, filename string) error {
	return create(filename, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

// SaveWebP writes img as a lossless WebP file.
func SaveWebP(img image.Image, filename string) error {
	return create(filename, func(w io.Writer) error {
		return nativewebp.Encode(w, img, nil)
	})
}

// SaveMatte writes img as PNG or, for a .webp filename, lossless WebP.
func SaveMatte(img *sm.Image, filename string) error {
	if strings.EqualFold(filepath.Ext(filename), ".webp") {
		return SaveWebP(img.NRGBA(), filename)
	}
	return SaveImage(img.NRGBA(), filename)
}

// SaveAnimation encodes seq as an animated WebP or GIF depending on the
// extension of filename.
func SaveAnimation(seq *sm.Sequence, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".webp":
		return create(filename, func(w io.Writer) error { return EncodeWebPAnimation(w, seq) })
	case ".gif":
		return create(filename, func(w io.Writer) error { return EncodeGIFAnimation(w, seq) })
	}
	return fmt.Errorf("unsupported animation format %q", filepath.Ext(filename))
}

// EncodeWebPAnimation writes seq as a lossless animated WebP on a
// transparent canvas. Every frame is disposed to the background after it
// is shown.
func EncodeWebPAnimation(w io.Writer, seq *sm.Sequence) error {
	if len(seq.Frames) == 0 {
		return sm.ErrNoFrames
	}
	ani := nativewebp.Animation{
		Images:    make([]image.Image, len(seq.Frames)),
		Durations: make([]uint, len(seq.Frames)),
		Disposals: make([]uint, len(seq.Frames)),
		LoopCount: uint16(min(max(seq.LoopCount, 0), 0xFFFF)),
	}
	for i, f := range seq.Frames {
		ani.Images[i] = f.Image.NRGBA()
		ani.Durations[i] = uint(f.Duration.Milliseconds())
		ani.Disposals[i] = 1
	}
	return nativewebp.EncodeAll(w, &ani, nil)
}

// EncodeGIFAnimation writes seq as an animated GIF. Pixels with alpha below
// 128 map to a transparent palette entry; the rest are matched against the
// web-safe palette.
func EncodeGIFAnimation(w io.Writer, seq *sm.Sequence) error {
	if len(seq.Frames) == 0 {
		return sm.ErrNoFrames
	}
	pal := gifPalette()
	anim := &gif.GIF{
		LoopCount: gifLoopCount(seq.LoopCount),
	}
	for _, f := range seq.Frames {
		anim.Image = append(anim.Image, toPaletted(f.Image, pal))
		anim.Delay = append(anim.Delay, int(f.Duration.Milliseconds()/10))
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}
	return gif.EncodeAll(w, anim)
}

// gifLoopCount maps a play count (0 = forever) onto the GIF convention
// where 0 loops forever, -1 plays once and n plays n+1 times.
func gifLoopCount(n int) int {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return -1
	default:
		return n - 1
	}
}

func gifPalette() color.Palette {
	pal := color.Palette{color.NRGBA{}}
	for r := 0; r < 256; r += 0x33 {
		for g := 0; g < 256; g += 0x33 {
			for b := 0; b < 256; b += 0x33 {
				pal = append(pal, color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff})
			}
		}
	}
	return pal
}

func toPaletted(img *sm.Image, pal color.Palette) *image.Paletted {
	out := image.NewPaletted(img.Bounds(), pal)
	opaque := pal[1:]
	for y := range img.H {
		for x := range img.W {
			p := img.At(x, y)
			if p.A < 128 {
				out.SetColorIndex(x, y, 0)
				continue
			}
			p.A = 0xff
			out.SetColorIndex(x, y, uint8(opaque.Index(p.RGBA())+1))
		}
	}
	return out
}
