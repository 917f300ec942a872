package spritematte

import (
	"fmt"
	"image"
	"time"
)

// DefaultFrameDuration is the display time used for sprite sheet frames.
const DefaultFrameDuration = 100 * time.Millisecond

// Frame is one image of an animation and how long it is shown.
type Frame struct {
	Image    *Image
	Duration time.Duration
}

// Sequence is an ordered list of frames ready for an animated encoder.
type Sequence struct {
	Frames []Frame
	// LoopCount is the number of times the animation plays. 0 means forever.
	LoopCount int
}

// UniformFrames gives every image the same duration, keeping their order.
func UniformFrames(imgs []*Image, d time.Duration) []Frame {
	frames := make([]Frame, len(imgs))
	for i, img := range imgs {
		frames[i] = Frame{Image: img, Duration: d}
	}
	return frames
}

// Assemble validates frames and packages them with loopCount. Frame order
// is preserved exactly. All frames must share one size.
func Assemble(frames []Frame, loopCount int) (*Sequence, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if loopCount < 0 {
		return nil, fmt.Errorf("%w: loop count %d must be >= 0", ErrInvalidConfig, loopCount)
	}
	var size image.Point
	for i, f := range frames {
		if f.Image == nil {
			return nil, fmt.Errorf("%w: frame %d has no image", ErrInvalidConfig, i)
		}
		if f.Duration < 0 {
			return nil, fmt.Errorf("%w: frame %d has negative duration %v", ErrInvalidConfig, i, f.Duration)
		}
		s := image.Pt(f.Image.W, f.Image.H)
		if i == 0 {
			size = s
		} else if s != size {
			return nil, fmt.Errorf("%w: frame %d is %v, frame 0 is %v", ErrShapeMismatch, i, s, size)
		}
	}
	seq := &Sequence{Frames: make([]Frame, len(frames)), LoopCount: loopCount}
	copy(seq.Frames, frames)
	return seq, nil
}

// TotalDuration returns the sum of all frame durations.
func (s *Sequence) TotalDuration() time.Duration {
	var total time.Duration
	for i := range s.Frames {
		total += s.Frames[i].Duration
	}
	return total
}

// Size returns the common frame size, or the zero point for an empty
// sequence.
func (s *Sequence) Size() image.Point {
	if len(s.Frames) == 0 || s.Frames[0].Image == nil {
		return image.Point{}
	}
	return image.Pt(s.Frames[0].Image.W, s.Frames[0].Image.H)
}
