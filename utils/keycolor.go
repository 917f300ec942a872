package utils

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	sm "github.com/setanarut/spritematte"
)

// KeyMethod selects how EstimateKeyColor picks the background color.
type KeyMethod int

const (
	// KeyMethodBorder takes the most common color among corner and edge
	// samples.
	KeyMethodBorder KeyMethod = iota
	// KeyMethodDominantColor runs dominantcolor over the image border band.
	KeyMethodDominantColor
	// KeyMethodKMeans clusters the border band with k-means and takes the
	// most populated center.
	KeyMethodKMeans
)

func (m KeyMethod) String() string {
	switch m {
	case KeyMethodDominantColor:
		return "dominantcolor"
	case KeyMethodKMeans:
		return "kmeans"
	default:
		return "border"
	}
}

// ParseKeyMethod parses the names printed by KeyMethod.String.
func ParseKeyMethod(s string) (KeyMethod, error) {
	switch strings.ToLower(s) {
	case "border", "":
		return KeyMethodBorder, nil
	case "dominantcolor", "dominant":
		return KeyMethodDominantColor, nil
	case "kmeans":
		return KeyMethodKMeans, nil
	}
	return 0, fmt.Errorf("unknown key method %q", s)
}

// BorderSamples returns the four corners followed by roughly ten evenly
// spaced samples along each edge.
func BorderSamples(img image.Image) []color.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	at := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
	}
	samples := []color.NRGBA{at(0, 0), at(w-1, 0), at(0, h-1), at(w-1, h-1)}
	for x := 0; x < w; x += max(1, w/10) {
		samples = append(samples, at(x, 0), at(x, h-1))
	}
	for y := 0; y < h; y += max(1, h/10) {
		samples = append(samples, at(0, y), at(w-1, y))
	}
	return samples
}

// borderBand collects the pixels of the outer band of the image, at most
// maxSamples of them.
func borderBand(img image.Image, maxSamples int) []color.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	band := max(1, min(w, h)/16)
	area := w*h - max(0, w-2*band)*max(0, h-2*band)
	step := 1
	if area > maxSamples {
		step = int(math.Sqrt(float64(area)/float64(maxSamples))) + 1
	}
	var out []color.NRGBA
	for y := 0; y < h; y += step {
		for x := 0; x < w; x += step {
			if x >= band && x < w-band && y >= band && y < h-band {
				continue
			}
			out = append(out, color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA))
		}
	}
	return out
}

func mostCommon(samples []color.NRGBA) color.NRGBA {
	counts := map[color.NRGBA]int{}
	var order []color.NRGBA
	for _, s := range samples {
		s.A = 0xff
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

func dominantKey(img image.Image) (color.NRGBA, bool) {
	samples := borderBand(img, 12000)
	if len(samples) == 0 {
		return color.NRGBA{}, false
	}
	// square tile, dominantcolor shrinks wide images to zero height
	side := int(math.Ceil(math.Sqrt(float64(len(samples)))))
	tile := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i := range side * side {
		s := samples[i%len(samples)]
		s.A = 0xff
		tile.SetNRGBA(i%side, i/side, s)
	}
	candidates := dominantcolor.FindWeight(tile, 3)
	if len(candidates) == 0 {
		return color.NRGBA{}, false
	}
	best := slices.MaxFunc(candidates, func(a, b dominantcolor.Color) int {
		switch {
		case a.Weight < b.Weight:
			return -1
		case a.Weight > b.Weight:
			return 1
		}
		return 0
	})
	return color.NRGBA{R: best.R, G: best.G, B: best.B, A: 0xff}, true
}

func kmeansKey(img image.Image) (color.NRGBA, bool) {
	samples := borderBand(img, 12000)
	if len(samples) == 0 {
		return color.NRGBA{}, false
	}
	dataset := make(clusters.Observations, 0, len(samples))
	for _, s := range samples {
		dataset = append(dataset, clusters.Coordinates{
			float64(s.R) / 255.0,
			float64(s.G) / 255.0,
			float64(s.B) / 255.0,
		})
	}
	km := kmeans.New()
	cc, err := km.Partition(dataset, min(3, len(dataset)))
	if err != nil || len(cc) == 0 {
		return color.NRGBA{}, false
	}
	// most populated cluster first
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})
	center := cc[0].Center
	if len(center) < 3 {
		return color.NRGBA{}, false
	}
	to8 := func(v float64) uint8 { return uint8(max(0, min(255, math.Round(v*255)))) }
	return color.NRGBA{R: to8(center[0]), G: to8(center[1]), B: to8(center[2]), A: 0xff}, true
}

// EstimateKeyColor guesses the solid background color of img. The
// clustering methods fall back to the border method when they cannot
// produce a color. KeyMethodKMeans seeds its centers randomly, so its
// result may vary between runs.
func EstimateKeyColor(img image.Image, method KeyMethod) (sm.Pixel, error) {
	samples := BorderSamples(img)
	if len(samples) == 0 {
		return sm.Pixel{}, fmt.Errorf("%w: empty image", sm.ErrInvalidConfig)
	}
	var (
		c  color.NRGBA
		ok bool
	)
	switch method {
	case KeyMethodDominantColor:
		c, ok = dominantKey(img)
	case KeyMethodKMeans:
		c, ok = kmeansKey(img)
	}
	if !ok {
		if method != KeyMethodBorder {
			log.Printf("key color warning: %v found no color, falling back to border samples", method)
		}
		c = mostCommon(samples)
	}
	return sm.Pixel{R: c.R, G: c.G, B: c.B, A: 0xff}, nil
}
