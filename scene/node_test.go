package scene

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/ggstage/ecs"
)

func spawnNodes(w *ecs.World, n int) []ecs.Entity {
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = w.Spawn(&Node{})
	}
	return out
}

func TestAttachKeepsInsertionOrder(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnNodes(w, 4)
	for _, c := range []ecs.Entity{e[3], e[1], e[2]} {
		if err := Attach(w, e[0], c); err != nil {
			t.Fatal(err)
		}
	}
	root, _ := ecs.Get[Node](w, e[0])
	if want := []ecs.Entity{e[3], e[1], e[2]}; !slices.Equal(root.Children, want) {
		t.Errorf("Children = %v, want %v", root.Children, want)
	}
	child, _ := ecs.Get[Node](w, e[1])
	if child.Parent != e[0] {
		t.Errorf("Parent = %d, want %d", child.Parent, e[0])
	}
}

func TestAttachReparents(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnNodes(w, 3)
	if err := Attach(w, e[0], e[2]); err != nil {
		t.Fatal(err)
	}
	if err := Attach(w, e[1], e[2]); err != nil {
		t.Fatal(err)
	}
	old, _ := ecs.Get[Node](w, e[0])
	if len(old.Children) != 0 {
		t.Errorf("old parent still has children %v", old.Children)
	}
	moved, _ := ecs.Get[Node](w, e[2])
	if moved.Parent != e[1] {
		t.Errorf("Parent = %d, want %d", moved.Parent, e[1])
	}
}

func TestAttachRejectsCycles(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnNodes(w, 3)
	if err := Attach(w, e[0], e[1]); err != nil {
		t.Fatal(err)
	}
	if err := Attach(w, e[1], e[2]); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name          string
		parent, child ecs.Entity
	}{
		{"self", e[1], e[1]},
		{"grandparent under grandchild", e[2], e[0]},
		{"parent under child", e[2], e[1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Attach(w, tt.parent, tt.child); !errors.Is(err, ErrCycle) {
				t.Errorf("Attach() err = %v, want ErrCycle", err)
			}
		})
	}
}

func TestAttachMissingNode(t *testing.T) {
	w := ecs.NewWorld()
	n := w.Spawn(&Node{})
	bare := w.Spawn()
	if err := Attach(w, bare, n); !errors.Is(err, ErrNoNode) {
		t.Errorf("missing parent node: err = %v", err)
	}
	if err := Attach(w, n, bare); !errors.Is(err, ErrNoNode) {
		t.Errorf("missing child node: err = %v", err)
	}
	if err := Detach(w, bare); !errors.Is(err, ErrNoNode) {
		t.Errorf("Detach missing node: err = %v", err)
	}
}

func TestDetachRoot(t *testing.T) {
	w := ecs.NewWorld()
	e := spawnNodes(w, 1)
	if err := Detach(w, e[0]); err != nil {
		t.Errorf("Detach(root) = %v, want nil", err)
	}
}
