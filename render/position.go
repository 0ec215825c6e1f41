package render

import (
	"fmt"

	"github.com/gogpu/ggstage/ecs"
	"github.com/gogpu/ggstage/geom"
	"github.com/gogpu/ggstage/scene"
)

// GlobalPos returns the position of e relative to the root of its tree:
// the sum of the local positions of e and its ancestors, excluding the
// first ancestor without a parent. Rotation is ignored.
//
// An entity without a parent is at (0, 0).
func GlobalPos(store ecs.Store, e ecs.Entity) (geom.Vec2, error) {
	var pos geom.Vec2
	seen := make(map[ecs.Entity]struct{})
	for cur := e; ; {
		n, ok := ecs.Get[scene.Node](store, cur)
		if !ok {
			return geom.Vec2{}, fmt.Errorf("%w: entity %d", ErrMissingNode, cur)
		}
		if !n.HasParent() {
			return pos, nil
		}
		if _, loop := seen[cur]; loop {
			return geom.Vec2{}, fmt.Errorf("%w: at entity %d", ErrCycle, cur)
		}
		seen[cur] = struct{}{}
		if t, ok := ecs.Get[geom.Transform](store, cur); ok {
			pos = pos.Add(t.Pos)
		}
		cur = n.Parent
	}
}
