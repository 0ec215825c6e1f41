package sprite

import "github.com/gogpu/ggstage/clock"

// StartAnimation advances the current frame every Delay on clk, wrapping
// to the first frame after the last one. It is a no-op for sprites that are
// not of kind Image. A running animation is stopped first, so a sprite never
// has more than one timer.
func (s *Sprite) StartAnimation(clk clock.Clock) {
	if s.Kind != Image {
		return
	}
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.update(func(q *sequence) int64 {
		if q.index < 0 && len(q.frames) > 0 {
			return 0
		}
		return q.index
	})
	s.timer = clk.Every(delay, s.Advance)
}

// StopAnimation cancels the running animation, if any.
func (s *Sprite) StopAnimation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Animating reports whether an animation timer is active.
func (s *Sprite) Animating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// GotoFrame sets the current frame index. The index is not checked against
// the sequence; an out-of-range index makes the sprite draw nothing.
func (s *Sprite) GotoFrame(i int) {
	s.update(func(*sequence) int64 { return int64(i) })
}

// Advance moves to the next frame, wrapping to 0 when the end of the
// sequence is reached. It does nothing for an empty sequence.
func (s *Sprite) Advance() {
	s.update(func(q *sequence) int64 {
		n := int64(len(q.frames))
		if n == 0 {
			return q.index
		}
		next := q.index + 1
		if next >= n || next < 0 {
			next = 0
		}
		return next
	})
}
