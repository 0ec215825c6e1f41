// Package scene provides the parent/children hierarchy component that links
// entities into a tree, and the bookkeeping that keeps it consistent.
//
// Children are kept in insertion order. The render pass visits them in that
// order every frame.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/ggstage/ecs"
)

// Common errors returned by hierarchy operations.
var (
	// ErrNoNode is returned when an entity has no Node component.
	ErrNoNode = errors.New("scene: entity has no node component")

	// ErrCycle is returned when attaching would make an entity its own ancestor.
	ErrCycle = errors.New("scene: attach would create a cycle")
)

// Node is the hierarchy component. Parent is ecs.Nil for the root of a tree.
type Node struct {
	Parent   ecs.Entity
	Children []ecs.Entity
}

// HasParent reports whether the node is attached to a parent.
func (n *Node) HasParent() bool {
	return n.Parent.Valid()
}

// Attach makes child the last child of parent, detaching it from any
// previous parent first. Both entities must carry a Node.
func Attach(w ecs.Store, parent, child ecs.Entity) error {
	pn, ok := ecs.Get[Node](w, parent)
	if !ok {
		return fmt.Errorf("%w: parent %d", ErrNoNode, parent)
	}
	cn, ok := ecs.Get[Node](w, child)
	if !ok {
		return fmt.Errorf("%w: child %d", ErrNoNode, child)
	}

	// child must not be parent or one of its ancestors.
	for e, steps := parent, 0; e.Valid(); steps++ {
		if e == child {
			return fmt.Errorf("%w: %d under %d", ErrCycle, child, parent)
		}
		n, ok := ecs.Get[Node](w, e)
		if !ok || steps > maxDepth {
			break
		}
		e = n.Parent
	}

	if err := Detach(w, child); err != nil {
		return err
	}
	cn.Parent = parent
	pn.Children = append(pn.Children, child)
	return nil
}

// Detach removes child from its parent's children. Detaching a node with no
// parent is a no-op.
func Detach(w ecs.Store, child ecs.Entity) error {
	cn, ok := ecs.Get[Node](w, child)
	if !ok {
		return fmt.Errorf("%w: child %d", ErrNoNode, child)
	}
	if !cn.HasParent() {
		return nil
	}
	if pn, ok := ecs.Get[Node](w, cn.Parent); ok {
		if i := slices.Index(pn.Children, child); i >= 0 {
			pn.Children = slices.Delete(pn.Children, i, i+1)
		}
	}
	cn.Parent = ecs.Nil
	return nil
}

// maxDepth bounds parent-chain walks over hierarchies that were mutated
// without Attach.
const maxDepth = 1 << 16
