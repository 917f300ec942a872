package spritematte

// Classification is the per-pixel verdict of a strategy. Confidence 1 means
// certainly background, 0 certainly subject.
type Classification struct {
	Background bool
	Confidence float64
}

// Classify runs the strategy selected by mode on a single pixel. It is a
// pure function of its arguments. ModeExternal has no per-pixel rule and
// always yields the zero Classification; external segmentation goes through
// a Segmenter instead.
func Classify(p Pixel, cfg *Config, mode Mode) Classification {
	switch mode {
	case ModeChromaKey:
		return classifyChromaKey(p, cfg)
	case ModeHSV:
		return classifyHSV(p, cfg)
	default:
		return Classification{}
	}
}

func classifyChromaKey(p Pixel, cfg *Config) Classification {
	d := p.Distance(cfg.KeyColor)
	if d < cfg.Tolerance {
		return Classification{Background: true, Confidence: 1}
	}
	if cfg.FeatherWidth > 0 && d < cfg.Tolerance+cfg.FeatherWidth {
		return Classification{
			Background: true,
			Confidence: 1 - (d-cfg.Tolerance)/cfg.FeatherWidth,
		}
	}
	return Classification{}
}

func classifyHSV(p Pixel, cfg *Config) Classification {
	if p.R <= cfg.NearBlack && p.G <= cfg.NearBlack && p.B <= cfg.NearBlack {
		return Classification{Background: true, Confidence: 1}
	}
	if p.R >= cfg.NearWhite && p.G >= cfg.NearWhite && p.B >= cfg.NearWhite {
		return Classification{Background: true, Confidence: 1}
	}
	hsv := ToHSV(p)
	for _, band := range cfg.HueBands {
		if !band.Contains(hsv.H) {
			continue
		}
		if hsv.S >= cfg.MinSaturation && hsv.V >= cfg.MinValue {
			// full confidence from 50% saturation upwards
			return Classification{Background: true, Confidence: min(1.0, hsv.S/0.5)}
		}
	}
	return Classification{}
}
