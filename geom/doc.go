// Package geom holds the 2D math shared by the surface reconciler and the
// render pass: vectors, affine matrices and the per-entity Transform
// component.
//
// Matrices use the same row-major 2x3 layout as a 2D canvas:
//
//	| A  B  C |
//	| D  E  F |
//
// so that x' = A*x + B*y + C and y' = D*x + E*y + F.
//
// Composition follows canvas semantics: m.Multiply(n) applies n first and
// then m. Translating and then rotating an active transform is therefore
//
//	active.Multiply(Translate(x, y)).Multiply(Rotate(angle))
//
// which is exactly what [Compose] does for a [Transform].
package geom
