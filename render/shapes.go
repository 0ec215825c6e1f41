package render

import (
	"github.com/gogpu/ggstage/canvas"
	"github.com/gogpu/ggstage/geom"
	"github.com/gogpu/ggstage/sprite"
)

// DrawRectangle draws a size.X by size.Y rectangle centred on the origin.
func DrawRectangle(c canvas.Canvas, s *sprite.Sprite, size geom.Vec2) {
	c.SetFilter(s.Filter)
	c.SetAlpha(s.Alpha)
	c.Save()
	c.Scale(1, -1)
	c.BeginPath()
	c.Rect(-size.X/2, -size.Y/2, size.X, size.Y)
	paint(c, s)
	c.Restore()
}

// DrawEllipse draws the ellipse inscribed in a size.X by size.Y rectangle
// centred on the origin.
func DrawEllipse(c canvas.Canvas, s *sprite.Sprite, size geom.Vec2) {
	c.SetFilter(s.Filter)
	c.SetAlpha(s.Alpha)
	c.Save()
	c.Scale(1, -1)
	c.BeginPath()
	c.Ellipse(0, 0, size.X/2, size.Y/2)
	paint(c, s)
	c.Restore()
}

// DrawImage draws the sprite's current frame scaled to size and centred on
// the origin. Sprites without frames or without a valid frame index draw
// nothing.
func DrawImage(c canvas.Canvas, s *sprite.Sprite, size geom.Vec2) {
	img := s.CurrentImage()
	if img == nil {
		return
	}
	c.SetFilter(s.Filter)
	c.SetAlpha(s.Alpha)
	c.Save()
	c.DrawImage(img, -size.X/2, -size.Y/2, size.X, size.Y)
	c.Restore()
}

func paint(c canvas.Canvas, s *sprite.Sprite) {
	if s.HasFill() {
		c.SetFillStyle(s.Fill)
		c.Fill()
	}
	if s.HasBorder() {
		c.SetStrokeStyle(s.BorderColor)
		c.SetLineWidth(s.BorderWidth)
		c.Stroke()
	}
}
