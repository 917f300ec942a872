package spritematte

import (
	"math"
	"testing"
)

func TestToHSV(t *testing.T) {
	cases := []struct {
		p    Pixel
		want HSV
	}{
		{Pixel{255, 0, 0, 255}, HSV{0, 1, 1}},
		{Pixel{0, 255, 0, 255}, HSV{120, 1, 1}},
		{Pixel{0, 0, 255, 255}, HSV{240, 1, 1}},
		{Pixel{255, 0, 255, 255}, HSV{300, 1, 1}},
		{Pixel{0, 0, 0, 255}, HSV{0, 0, 0}},
		{Pixel{255, 255, 255, 255}, HSV{0, 0, 1}},
		{Pixel{100, 150, 100, 255}, HSV{120, 1.0 / 3, 150.0 / 255}},
	}
	for _, c := range cases {
		got := ToHSV(c.p)
		if math.Abs(got.H-c.want.H) > 1e-9 || math.Abs(got.S-c.want.S) > 1e-9 || math.Abs(got.V-c.want.V) > 1e-9 {
			t.Errorf("ToHSV(%v) = %+v, want %+v", c.p, got, c.want)
		}
	}
}

func TestToHSVRange(t *testing.T) {
	step := 3
	if testing.Short() {
		step = 15
	}
	for r := 0; r < 256; r += step {
		for g := 0; g < 256; g += step {
			for b := 0; b < 256; b += step {
				p := Pixel{uint8(r), uint8(g), uint8(b), 255}
				hsv := ToHSV(p)
				if hsv.H < 0 || hsv.H >= 360 {
					t.Fatalf("hue of %v out of range: %v", p, hsv.H)
				}
				if hsv.S < 0 || hsv.S > 1 || hsv.V < 0 || hsv.V > 1 {
					t.Fatalf("saturation or value of %v out of range: %+v", p, hsv)
				}
			}
		}
	}
}
