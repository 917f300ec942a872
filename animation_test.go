package spritematte

import (
	"errors"
	"image"
	"testing"
	"time"
)

func TestAssemble(t *testing.T) {
	imgs := []*Image{fill(4, 2, Pixel{1, 0, 0, 255}), fill(4, 2, Pixel{2, 0, 0, 255}), fill(4, 2, Pixel{3, 0, 0, 255})}
	frames := UniformFrames(imgs, DefaultFrameDuration)
	seq, err := Assemble(frames, 0)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(seq.Frames) != 3 || seq.LoopCount != 0 {
		t.Fatalf("unexpected sequence %+v", seq)
	}
	for i, f := range seq.Frames {
		if f.Image.At(0, 0).R != uint8(i+1) {
			t.Errorf("frame %d out of order", i)
		}
		if f.Duration != 100*time.Millisecond {
			t.Errorf("frame %d duration %v", i, f.Duration)
		}
	}
	if d := seq.TotalDuration(); d != 300*time.Millisecond {
		t.Errorf("total duration %v, want 300ms", d)
	}
	if s := seq.Size(); s != image.Pt(4, 2) {
		t.Errorf("size %v, want 4x2", s)
	}

	frames[0] = Frame{Image: imgs[2], Duration: time.Second}
	if seq.Frames[0].Duration != DefaultFrameDuration {
		t.Errorf("sequence shares the caller's frame slice")
	}
}

func TestAssembleMixedDurations(t *testing.T) {
	img := NewImage(2, 2)
	seq, err := Assemble([]Frame{{img, 50 * time.Millisecond}, {img, 0}, {img, 200 * time.Millisecond}}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if seq.LoopCount != 3 || seq.TotalDuration() != 250*time.Millisecond {
		t.Errorf("unexpected sequence loop %d total %v", seq.LoopCount, seq.TotalDuration())
	}
}

func TestAssembleErrors(t *testing.T) {
	a, b := NewImage(4, 4), NewImage(4, 5)
	cases := []struct {
		name   string
		frames []Frame
		loop   int
		want   error
	}{
		{"empty", nil, 0, ErrNoFrames},
		{"negative loop", []Frame{{a, time.Millisecond}}, -1, ErrInvalidConfig},
		{"nil image", []Frame{{a, time.Millisecond}, {nil, time.Millisecond}}, 0, ErrInvalidConfig},
		{"negative duration", []Frame{{a, -time.Millisecond}}, 0, ErrInvalidConfig},
		{"size mismatch", []Frame{{a, time.Millisecond}, {b, time.Millisecond}}, 0, ErrShapeMismatch},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Assemble(c.frames, c.loop)
			if !errors.Is(err, c.want) {
				t.Errorf("got %v, want %v", err, c.want)
			}
		})
	}
}

func TestSliceThenAssemble(t *testing.T) {
	cells, err := Slice(numbered(192, 96, 3, 3), 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	seq, err := Assemble(UniformFrames(cells, DefaultFrameDuration), 0)
	if err != nil {
		t.Fatal(err)
	}
	if seq.Size() != image.Pt(64, 32) || len(seq.Frames) != 9 {
		t.Errorf("got %d frames of %v", len(seq.Frames), seq.Size())
	}
}
