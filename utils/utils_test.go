package utils

import (
	"bytes"
	"errors"
	"image/color"
	"image/gif"
	"path/filepath"
	"testing"
	"time"

	sm "github.com/setanarut/spritematte"
)

// frames returns n 8x8 frames, each opaque red on the left half and
// transparent on the right half.
func frames(n int, d time.Duration, loop int) *sm.Sequence {
	seq := &sm.Sequence{LoopCount: loop}
	for range n {
		img := sm.NewImage(8, 8)
		for y := range 8 {
			for x := range 4 {
				img.Set(x, y, sm.Pixel{R: 255, A: 255})
			}
		}
		seq.Frames = append(seq.Frames, sm.Frame{Image: img, Duration: d})
	}
	return seq
}

func TestEncodeGIFAnimation(t *testing.T) {
	cases := []struct {
		loop     int
		wantLoop int
	}{
		{0, 0},
		{1, -1},
		{3, 2},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if err := EncodeGIFAnimation(&buf, frames(3, 100*time.Millisecond, c.loop)); err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		g, err := gif.DecodeAll(&buf)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if len(g.Image) != 3 {
			t.Fatalf("got %d frames, want 3", len(g.Image))
		}
		if g.LoopCount != c.wantLoop {
			t.Errorf("loop %d encoded as %d, want %d", c.loop, g.LoopCount, c.wantLoop)
		}
		for i, d := range g.Delay {
			if d != 10 {
				t.Errorf("frame %d delay %d, want 10", i, d)
			}
		}
		_, _, _, a := g.Image[0].At(7, 0).RGBA()
		if a != 0 {
			t.Errorf("transparent pixel decoded with alpha %d", a)
		}
		if got := color.NRGBAModel.Convert(g.Image[0].At(0, 0)).(color.NRGBA); got != (color.NRGBA{R: 255, A: 255}) {
			t.Errorf("opaque pixel decoded as %v", got)
		}
	}
}

func TestEncodeWebPAnimation(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeWebPAnimation(&buf, frames(2, 100*time.Millisecond, 0)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	b := buf.Bytes()
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Fatalf("not a WebP container: % x", b[:min(len(b), 16)])
	}
	for _, chunk := range []string{"VP8X", "ANIM", "ANMF"} {
		if !bytes.Contains(b, []byte(chunk)) {
			t.Errorf("missing %s chunk", chunk)
		}
	}
}

func TestEncodeAnimationEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeWebPAnimation(&buf, &sm.Sequence{}); !errors.Is(err, sm.ErrNoFrames) {
		t.Errorf("webp: got %v, want ErrNoFrames", err)
	}
	if err := EncodeGIFAnimation(&buf, &sm.Sequence{}); !errors.Is(err, sm.ErrNoFrames) {
		t.Errorf("gif: got %v, want ErrNoFrames", err)
	}
}

func TestSaveAnimationFormat(t *testing.T) {
	dir := t.TempDir()
	seq := frames(2, 50*time.Millisecond, 0)
	for _, name := range []string{"a.webp", "a.gif"} {
		if err := SaveAnimation(seq, filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if err := SaveAnimation(seq, filepath.Join(dir, "a.mp4")); err == nil {
		t.Errorf("expected an error for .mp4")
	}
}

func TestSaveMatteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := frames(1, 0, 0).Frames[0].Image
	for _, name := range []string{"m.png", "m.webp"} {
		path := filepath.Join(dir, name)
		if err := SaveMatte(img, path); err != nil {
			t.Fatalf("%s: save failed: %v", name, err)
		}
		back, err := ReadMatte(path)
		if err != nil {
			t.Fatalf("%s: read failed: %v", name, err)
		}
		if back.W != img.W || back.H != img.H {
			t.Fatalf("%s: size %dx%d", name, back.W, back.H)
		}
		for y := range img.H {
			for x := range img.W {
				want, got := img.At(x, y), back.At(x, y)
				if got.A != want.A || (want.A != 0 && got != want) {
					t.Errorf("%s: pixel %d,%d = %v, want %v", name, x, y, got, want)
				}
			}
		}
	}
}

func TestReadImageMissing(t *testing.T) {
	if _, err := ReadImage(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
