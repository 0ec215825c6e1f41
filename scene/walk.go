package scene

import (
	"errors"
	"fmt"

	"github.com/gogpu/ggstage/ecs"
)

// SkipChildren can be returned by a WalkFunc to skip the children of the
// entity it was called for.
var SkipChildren = errors.New("scene: skip children")

// WalkFunc is called for each entity reached by Walk with its depth below
// the starting entity.
type WalkFunc func(e ecs.Entity, depth int) error

// Walk visits root and its descendants in pre-order, children in stored
// order. Entities without a Node are visited as leaves. Walk stops at the
// first error returned by fn, and returns ErrCycle if an entity is reached
// twice.
func Walk(w ecs.Store, root ecs.Entity, fn WalkFunc) error {
	type item struct {
		e     ecs.Entity
		depth int
	}
	seen := make(map[ecs.Entity]struct{})
	stack := []item{{root, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := seen[it.e]; ok {
			return fmt.Errorf("%w: entity %d reached twice", ErrCycle, it.e)
		}
		seen[it.e] = struct{}{}

		err := fn(it.e, it.depth)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if n, ok := ecs.Get[Node](w, it.e); ok {
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, item{n.Children[i], it.depth + 1})
			}
		}
	}
	return nil
}
