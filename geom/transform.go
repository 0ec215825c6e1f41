package geom

// Transform is the local placement of a scene entity relative to its
// parent: a position, a rotation angle in radians and a logical size.
// Size is not part of the composed matrix; shape renderers read it directly.
type Transform struct {
	Pos   Vec2
	Angle float64
	Size  Vec2
}

// NewTransform returns a Transform at pos with the given size and no
// rotation.
func NewTransform(pos, size Vec2) *Transform {
	return &Transform{Pos: pos, Size: size}
}

// Local returns the matrix of t alone: translate by Pos, then rotate by
// Angle.
func (t Transform) Local() Matrix {
	return Translate(t.Pos.X, t.Pos.Y).Multiply(Rotate(t.Angle))
}

// Compose returns the transform an entity draws with, given the transform
// that is active when the entity is reached. The result is also the active
// transform for the entity's children, so nested transforms accumulate in
// traversal order.
func Compose(active Matrix, t Transform) Matrix {
	if t.Angle == 0 {
		if t.Pos.IsZero() {
			return active
		}
		return active.Multiply(Translate(t.Pos.X, t.Pos.Y))
	}
	return active.Multiply(t.Local())
}
