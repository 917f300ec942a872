package spritematte

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// Mode selects the classification strategy.
type Mode int

const (
	// ModeChromaKey treats pixels near Config.KeyColor as background.
	ModeChromaKey Mode = iota
	// ModeHSV uses the near-black / near-white / hue band rules.
	ModeHSV
	// ModeExternal delegates to a Segmenter.
	ModeExternal
)

func (m Mode) String() string {
	switch m {
	case ModeChromaKey:
		return "chroma"
	case ModeHSV:
		return "hsv"
	case ModeExternal:
		return "external"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) valid() bool {
	return m >= ModeChromaKey && m <= ModeExternal
}

// ParseMode parses the names printed by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chroma", "chromakey", "key":
		return ModeChromaKey, nil
	case "hsv":
		return ModeHSV, nil
	case "external", "ai", "segment":
		return ModeExternal, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}

// ParseChain parses a comma separated list of modes, e.g. "external,hsv".
func ParseChain(s string) ([]Mode, error) {
	var chain []Mode
	for _, f := range strings.Split(s, ",") {
		if strings.TrimSpace(f) == "" {
			continue
		}
		m, err := ParseMode(f)
		if err != nil {
			return nil, err
		}
		chain = append(chain, m)
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: empty fallback chain", ErrInvalidConfig)
	}
	return chain, nil
}

// HueBand is an inclusive hue range in degrees.
type HueBand struct {
	Min, Max float64
}

// Contains reports whether h lies within the band, bounds included.
func (b HueBand) Contains(h float64) bool {
	return h >= b.Min && h <= b.Max
}

// Config holds the thresholds used by every classification strategy.
type Config struct {
	// Chroma key color. Only RGB is used.
	KeyColor Pixel
	// Pixels closer than Tolerance to KeyColor are fully background.
	Tolerance float64
	// Width of the linear confidence ramp beyond Tolerance. 0 gives a hard edge.
	FeatherWidth float64

	// Hue ranges treated as background by the HSV heuristic, checked in order.
	HueBands []HueBand
	// Minimum saturation and value for a hue band match.
	MinSaturation float64
	MinValue      float64
	// Pixels with every channel <= NearBlack, or >= NearWhite, are background.
	NearBlack uint8
	NearWhite uint8

	// Radius of the alpha box blur applied after compositing. 0 disables it.
	EdgeBlurRadius int
}

// DefaultConfig returns the thresholds of the asset cleanup sweep: green
// key, green and blue screen hue bands, near-black and near-white removal,
// no edge blur.
func DefaultConfig() Config {
	return Config{
		KeyColor:      Pixel{R: 0, G: 255, B: 0, A: 255},
		Tolerance:     40,
		FeatherWidth:  0,
		HueBands:      []HueBand{{80, 160}, {180, 260}},
		MinSaturation: 0.2,
		MinValue:      0.2,
		NearBlack:     20,
		NearWhite:     240,
	}
}

// SpriteSheetConfig keys out a magenta background with a soft 15 unit edge.
func SpriteSheetConfig() Config {
	cfg := DefaultConfig()
	cfg.KeyColor = Pixel{R: 255, G: 0, B: 255, A: 255}
	cfg.Tolerance = 60
	cfg.FeatherWidth = 15
	return cfg
}

// UIConfig keys out the black backgrounds common in generated UI elements.
func UIConfig() Config {
	cfg := DefaultConfig()
	cfg.KeyColor = Pixel{A: 255}
	cfg.Tolerance = 30
	return cfg
}

// AggressiveConfig is DefaultConfig with edge blurring enabled. The radius
// grows with the image so large images are smoothed over a similar
// relative distance.
func AggressiveConfig(size image.Point) Config {
	cfg := DefaultConfig()
	cfg.EdgeBlurRadius = 1
	if size.X*size.Y > 1920*1080 {
		cfg.EdgeBlurRadius = 2
	}
	return cfg
}

// Validate checks every field and returns an error wrapping
// ErrInvalidConfig for the first bad one.
func (c *Config) Validate() error {
	switch {
	case math.IsNaN(c.Tolerance) || c.Tolerance < 0:
		return fmt.Errorf("%w: tolerance %v must be >= 0", ErrInvalidConfig, c.Tolerance)
	case math.IsNaN(c.FeatherWidth) || c.FeatherWidth < 0:
		return fmt.Errorf("%w: feather width %v must be >= 0", ErrInvalidConfig, c.FeatherWidth)
	case math.IsNaN(c.MinSaturation) || c.MinSaturation < 0 || c.MinSaturation > 1:
		return fmt.Errorf("%w: min saturation %v outside [0,1]", ErrInvalidConfig, c.MinSaturation)
	case math.IsNaN(c.MinValue) || c.MinValue < 0 || c.MinValue > 1:
		return fmt.Errorf("%w: min value %v outside [0,1]", ErrInvalidConfig, c.MinValue)
	case c.EdgeBlurRadius < 0:
		return fmt.Errorf("%w: edge blur radius %d must be >= 0", ErrInvalidConfig, c.EdgeBlurRadius)
	}
	for i, b := range c.HueBands {
		if math.IsNaN(b.Min) || math.IsNaN(b.Max) || b.Min < 0 || b.Max > 360 || b.Min > b.Max {
			return fmt.Errorf("%w: hue band %d [%v,%v] invalid", ErrInvalidConfig, i, b.Min, b.Max)
		}
	}
	return nil
}
