package sprite

import (
	"image"
	"testing"
	"time"

	"github.com/gogpu/ggstage/clock"
)

func frames(n int) []image.Image {
	out := make([]image.Image, n)
	for i := range out {
		out[i] = image.NewRGBA(image.Rect(0, 0, i+1, 1))
	}
	return out
}

func TestNewDefaults(t *testing.T) {
	s := New(Rectangle)
	if !s.Visible || s.Alpha != 1 || s.Filter != "none" || s.BorderColor != "none" || s.Delay != DefaultDelay {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if _, ok := s.Frame(); ok {
		t.Error("frame index set without frames")
	}
	if s.HasBorder() {
		t.Error("default sprite has a border")
	}
}

func TestHasBorder(t *testing.T) {
	tests := []struct {
		color string
		width float64
		want  bool
	}{
		{"red", 2, true},
		{"none", 2, false},
		{"", 2, false},
		{"red", 0, false},
	}
	for _, tt := range tests {
		s := New(Ellipse, WithBorder(tt.color, tt.width))
		if got := s.HasBorder(); got != tt.want {
			t.Errorf("HasBorder(%q, %v) = %v, want %v", tt.color, tt.width, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{None, Rectangle, Ellipse, Image} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("triangle"); err == nil {
		t.Error("ParseKind(triangle) succeeded")
	}
}

func TestAdvanceWrapsAround(t *testing.T) {
	s := New(Image, WithFrames(frames(3)...))
	var got []int
	for range 7 {
		i, _ := s.Frame()
		got = append(got, i)
		s.Advance()
	}
	want := []int{0, 1, 2, 0, 1, 2, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frames = %v, want %v", got, want)
		}
	}
}

func TestAdvanceEmptySequence(t *testing.T) {
	s := New(Image)
	s.Advance()
	if _, ok := s.Frame(); ok {
		t.Error("Advance on empty sequence set a frame")
	}
}

func TestGotoFrameNoBoundsCheck(t *testing.T) {
	s := New(Image, WithFrames(frames(2)...))
	s.GotoFrame(5)
	if i, ok := s.Frame(); !ok || i != 5 {
		t.Errorf("Frame() = %d, %v; want 5, true", i, ok)
	}
	if s.CurrentImage() != nil {
		t.Error("CurrentImage() for out-of-range index should be nil")
	}
	s.GotoFrame(1)
	if s.CurrentImage() != s.Frames()[1] {
		t.Error("CurrentImage() did not return frame 1")
	}
	s.Advance()
	if i, _ := s.Frame(); i != 0 {
		t.Errorf("Advance from last frame = %d, want 0", i)
	}
}

func TestSetFramesResetsIndex(t *testing.T) {
	s := New(Image, WithFrames(frames(3)...))
	s.GotoFrame(2)
	s.SetFrames(frames(1))
	if i, ok := s.Frame(); !ok || i != 0 {
		t.Errorf("Frame() = %d, %v after SetFrames", i, ok)
	}
	s.SetFrames(nil)
	if _, ok := s.Frame(); ok {
		t.Error("Frame() set after SetFrames(nil)")
	}
}

func TestStartAnimation(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	s := New(Image, WithFrames(frames(4)...), WithDelay(50*time.Millisecond))

	s.StartAnimation(clk)
	if !s.Animating() {
		t.Fatal("Animating() = false after start")
	}
	clk.Advance(150 * time.Millisecond)
	if i, _ := s.Frame(); i != 3 {
		t.Errorf("after 3 ticks frame = %d, want 3", i)
	}
	clk.Advance(50 * time.Millisecond)
	if i, _ := s.Frame(); i != 0 {
		t.Errorf("after wrap frame = %d, want 0", i)
	}

	s.StopAnimation()
	if s.Animating() || clk.Active() != 0 {
		t.Error("timer still active after StopAnimation")
	}
	clk.Advance(time.Second)
	if i, _ := s.Frame(); i != 0 {
		t.Errorf("frame advanced after stop: %d", i)
	}
}

func TestStartAnimationKeepsSingleTimer(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	s := New(Image, WithFrames(frames(10)...), WithDelay(10*time.Millisecond))
	s.StartAnimation(clk)
	s.StartAnimation(clk)
	s.StartAnimation(clk)
	if clk.Active() != 1 {
		t.Fatalf("Active() = %d, want 1", clk.Active())
	}
	clk.Advance(30 * time.Millisecond)
	if i, _ := s.Frame(); i != 3 {
		t.Errorf("frame = %d, want 3 (one timer)", i)
	}
	s.StopAnimation()
}

func TestStartAnimationIgnoresNonImage(t *testing.T) {
	clk := clock.NewManual(time.Time{})
	s := New(Rectangle)
	s.StartAnimation(clk)
	if s.Animating() || clk.Active() != 0 {
		t.Error("non-image sprite started a timer")
	}
	s.StopAnimation()
}

func TestSetFramesDuringAnimation(t *testing.T) {
	f := frames(3)
	s := New(Image, WithFrames(f...), WithDelay(time.Microsecond))
	s.StartAnimation(clock.System())
	defer s.StopAnimation()

	for i := range 500 {
		s.SetFrames(f[:1+i%3])
		if s.CurrentImage() == nil {
			i, _ := s.Frame()
			t.Fatalf("index %d left outside a sequence of %d frames", i, len(s.Frames()))
		}
		time.Sleep(10 * time.Microsecond)
	}
}

func TestAdvanceUsesReplacedSequence(t *testing.T) {
	s := New(Image, WithFrames(frames(5)...))
	s.GotoFrame(3)
	s.SetFrames(frames(2))
	s.Advance()
	s.Advance()
	if i, _ := s.Frame(); i != 0 {
		t.Errorf("frame = %d, want 0 after wrapping the 2-frame sequence", i)
	}
}
