package spritematte

import "github.com/lucasb-eyer/go-colorful"

// HSV is a hue/saturation/value triple. H is in [0,360), S and V in [0,1].
type HSV struct {
	H, S, V float64
}

// ToHSV converts the RGB channels of p. Achromatic pixels get hue 0 and
// saturation 0.
func ToHSV(p Pixel) HSV {
	c := colorful.Color{
		R: float64(p.R) / 255.0,
		G: float64(p.G) / 255.0,
		B: float64(p.B) / 255.0,
	}
	h, s, v := c.Hsv()
	if h >= 360 {
		h -= 360
	}
	return HSV{H: h, S: s, V: v}
}
