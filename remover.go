package spritematte

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultSegmentTimeout bounds a Segmenter call when Remover.Timeout is zero.
const DefaultSegmentTimeout = 30 * time.Second

// Segmenter is an external background remover, typically a matting model.
// It returns an image of the same size whose alpha channel separates
// subject from background. Only the alpha channel of the result is used.
type Segmenter interface {
	Segment(ctx context.Context, img *Image) (*Image, error)
}

// SegmenterFunc adapts a function to the Segmenter interface.
type SegmenterFunc func(ctx context.Context, img *Image) (*Image, error)

func (f SegmenterFunc) Segment(ctx context.Context, img *Image) (*Image, error) {
	return f(ctx, img)
}

// Attempt records one strategy run.
type Attempt struct {
	Mode     Mode
	Err      error
	Duration time.Duration
}

// Report describes how an image was processed.
type Report struct {
	// Applied is the mode whose result was kept. Only valid when Remove
	// returned no error.
	Applied  Mode
	Attempts []Attempt
}

// Succeeded returns how many attempts with mode m succeeded.
func (r *Report) Succeeded(m Mode) int {
	n := 0
	for _, a := range r.Attempts {
		if a.Mode == m && a.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns how many attempts with mode m failed.
func (r *Report) Failed(m Mode) int {
	n := 0
	for _, a := range r.Attempts {
		if a.Mode == m && a.Err != nil {
			n++
		}
	}
	return n
}

// Remover removes image backgrounds by trying each mode of Chain in turn
// until one succeeds.
type Remover struct {
	Config Config
	// Chain lists the preferred mode first, followed by its fallbacks.
	Chain []Mode
	// Segmenter serves ModeExternal. Without one that mode always fails.
	Segmenter Segmenter
	// Timeout bounds each Segmenter call. Zero means DefaultSegmentTimeout.
	Timeout time.Duration
}

// NewRemover returns a Remover for cfg. With no chain given it falls back
// from the HSV heuristic to chroma keying.
func NewRemover(cfg Config, chain ...Mode) *Remover {
	if len(chain) == 0 {
		chain = []Mode{ModeHSV, ModeChromaKey}
	}
	return &Remover{Config: cfg, Chain: chain}
}

// RemoveBackground is shorthand for a one-off Remover.
func RemoveBackground(ctx context.Context, img *Image, cfg Config, chain []Mode, seg Segmenter) (*Image, *Report, error) {
	r := &Remover{Config: cfg, Chain: chain, Segmenter: seg}
	return r.Remove(ctx, img)
}

func (r *Remover) validate() error {
	if err := r.Config.Validate(); err != nil {
		return err
	}
	if len(r.Chain) == 0 {
		return fmt.Errorf("%w: empty fallback chain", ErrInvalidConfig)
	}
	for _, m := range r.Chain {
		if !m.valid() {
			return fmt.Errorf("%w: unknown mode %v in chain", ErrInvalidConfig, m)
		}
	}
	if r.Timeout < 0 {
		return fmt.Errorf("%w: negative segmenter timeout", ErrInvalidConfig)
	}
	return nil
}

// Remove returns a copy of img with a recomputed alpha channel. Exactly one
// strategy of the chain is applied; the RGB channels and size are kept and
// img itself is not modified. A nil img, or one whose Pix length is not
// W*H*4, is rejected with ErrInvalidConfig. If every strategy fails the
// returned error wraps ErrAllStrategiesExhausted and no image is returned.
func (r *Remover) Remove(ctx context.Context, img *Image) (*Image, *Report, error) {
	if err := r.validate(); err != nil {
		return nil, nil, err
	}
	if !img.Valid() {
		return nil, nil, fmt.Errorf("%w: image buffer does not match its size", ErrInvalidConfig)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	log := Logger()
	report := &Report{}
	var errs []error
	for _, mode := range r.Chain {
		start := time.Now()
		out, err := r.apply(ctx, img, mode)
		report.Attempts = append(report.Attempts, Attempt{Mode: mode, Err: err, Duration: time.Since(start)})
		if err != nil {
			log.Warn("strategy failed, falling back", "mode", mode, "err", err)
			errs = append(errs, fmt.Errorf("%v: %w", mode, err))
			continue
		}
		if r.Config.EdgeBlurRadius > 0 {
			featherKeepingTransparent(out, img, r.Config.EdgeBlurRadius)
		}
		report.Applied = mode
		log.Debug("background removed", "mode", mode, "width", img.W, "height", img.H)
		return out, report, nil
	}
	return nil, report, fmt.Errorf("%w: %w", ErrAllStrategiesExhausted, errors.Join(errs...))
}

func (r *Remover) apply(ctx context.Context, img *Image, mode Mode) (*Image, error) {
	out := img.Clone()
	switch mode {
	case ModeChromaKey, ModeHSV:
		compositeImage(out, img, &r.Config, mode)
		return out, nil
	case ModeExternal:
		seg, err := r.segment(ctx, img)
		if err != nil {
			return nil, err
		}
		compositeSegmented(out, img, seg)
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown mode %v", ErrStrategyUnavailable, mode)
}

type segmentResult struct {
	img *Image
	err error
}

// segment runs the Segmenter on a private copy of img under a timeout. A
// Segmenter that ignores its context is abandoned once the timeout fires.
func (r *Remover) segment(ctx context.Context, img *Image) (*Image, error) {
	if r.Segmenter == nil {
		return nil, fmt.Errorf("%w: no segmenter configured", ErrStrategyUnavailable)
	}
	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultSegmentTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan segmentResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- segmentResult{err: fmt.Errorf("segmenter panic: %v", p)}
			}
		}()
		out, err := r.Segmenter.Segment(ctx, img.Clone())
		done <- segmentResult{img: out, err: err}
	}()

	var res segmentResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrStrategyUnavailable, ctx.Err())
	}
	switch {
	case res.err != nil:
		return nil, fmt.Errorf("%w: %w", ErrStrategyUnavailable, res.err)
	case res.img == nil:
		return nil, fmt.Errorf("%w: segmenter returned no image", ErrStrategyUnavailable)
	case res.img.W != img.W || res.img.H != img.H || len(res.img.Pix) != len(img.Pix):
		return nil, fmt.Errorf("%w: segmenter returned %dx%d for %dx%d input",
			ErrStrategyUnavailable, res.img.W, res.img.H, img.W, img.H)
	}
	return res.img, nil
}

// featherKeepingTransparent blurs the alpha of out and then clears every
// pixel that was already transparent in src, so the blur cannot revive it.
func featherKeepingTransparent(out, src *Image, radius int) {
	FeatherAlpha(out, radius)
	for i := 3; i < len(src.Pix); i += 4 {
		if src.Pix[i] == 0 {
			out.Pix[i] = 0
		}
	}
}
