package utils

import (
	"errors"
	"image"
	"image/color"
	"testing"

	sm "github.com/setanarut/spritematte"
)

// sheet returns a w x h image on bg with an orange square covering the
// middle half.
func sheet(w, h int, bg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := bg
			if x >= w/4 && x < 3*w/4 && y >= h/4 && y < 3*h/4 {
				c = color.NRGBA{R: 240, G: 160, B: 20, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestEstimateKeyColor(t *testing.T) {
	magenta := color.NRGBA{R: 255, G: 0, B: 255, A: 255}
	want := sm.Pixel{R: 255, G: 0, B: 255, A: 255}
	cases := []struct {
		name   string
		w, h   int
		method KeyMethod
	}{
		{"border", 64, 48, KeyMethodBorder},
		{"border tiny", 2, 2, KeyMethodBorder},
		{"dominantcolor", 64, 48, KeyMethodDominantColor},
		{"dominantcolor large", 1200, 300, KeyMethodDominantColor},
		{"kmeans", 64, 48, KeyMethodKMeans},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := EstimateKeyColor(sheet(c.w, c.h, magenta), c.method)
			if err != nil {
				t.Fatalf("EstimateKeyColor failed: %v", err)
			}
			if got != want {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestEstimateKeyColorMostCommon(t *testing.T) {
	img := sheet(40, 40, color.NRGBA{G: 255, A: 255})
	// a few off-key border pixels must not win
	img.SetNRGBA(0, 0, color.NRGBA{R: 9, A: 255})
	img.SetNRGBA(39, 39, color.NRGBA{R: 9, A: 255})
	got, err := EstimateKeyColor(img, KeyMethodBorder)
	if err != nil {
		t.Fatal(err)
	}
	if got != (sm.Pixel{G: 255, A: 255}) {
		t.Errorf("got %v, want pure green", got)
	}
}

func TestEstimateKeyColorEmpty(t *testing.T) {
	_, err := EstimateKeyColor(image.NewNRGBA(image.Rect(0, 0, 0, 0)), KeyMethodDominantColor)
	if !errors.Is(err, sm.ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
}

func TestBorderSamples(t *testing.T) {
	img := sheet(100, 50, color.NRGBA{B: 255, A: 255})
	samples := BorderSamples(img)
	// 4 corners, 10 columns on two edges, 10 rows on two edges
	if len(samples) != 4+2*10+2*10 {
		t.Errorf("got %d samples", len(samples))
	}
	for i, s := range samples {
		if s != (color.NRGBA{B: 255, A: 255}) {
			t.Errorf("sample %d = %v is not on the border", i, s)
		}
	}
}

func TestParseKeyMethod(t *testing.T) {
	for _, m := range []KeyMethod{KeyMethodBorder, KeyMethodDominantColor, KeyMethodKMeans} {
		got, err := ParseKeyMethod(m.String())
		if err != nil || got != m {
			t.Errorf("ParseKeyMethod(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseKeyMethod("median"); err == nil {
		t.Errorf("expected an error for an unknown method")
	}
}
