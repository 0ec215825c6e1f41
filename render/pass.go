package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/ggstage/canvas"
	"github.com/gogpu/ggstage/ecs"
	"github.com/gogpu/ggstage/geom"
	"github.com/gogpu/ggstage/internal/logger"
	"github.com/gogpu/ggstage/scene"
	"github.com/gogpu/ggstage/sprite"
	"github.com/gogpu/ggstage/viewport"
)

// Errors returned by the render pass and GlobalPos.
var (
	ErrCycle       = errors.New("render: scene hierarchy contains a cycle")
	ErrNoRoot      = errors.New("render: no root entity")
	ErrMissingNode = errors.New("render: entity has no node component")
)

// Renderer draws one sprite centred on the origin of the canvas's current
// transform.
type Renderer func(c canvas.Canvas, s *sprite.Sprite, size geom.Vec2)

// step is an entry of the traversal stack. Exit steps restore the matrix
// that was active before their entity was entered.
type step struct {
	entity ecs.Entity
	exit   bool
}

// Pass renders a scene hierarchy. A Pass reuses its buffers between
// frames and must not be used by more than one goroutine at a time.
type Pass struct {
	renderers map[sprite.Kind]Renderer
	matrices  []geom.Matrix
	steps     []step
	visited   map[ecs.Entity]struct{}
}

// NewPass creates a pass with the rectangle, ellipse and image renderers.
func NewPass() *Pass {
	return &Pass{
		renderers: map[sprite.Kind]Renderer{
			sprite.Rectangle: DrawRectangle,
			sprite.Ellipse:   DrawEllipse,
			sprite.Image:     DrawImage,
		},
		visited: make(map[ecs.Entity]struct{}),
	}
}

// Handle sets the renderer for kind, replacing any previous one. A nil
// renderer makes the kind draw nothing.
func (p *Pass) Handle(kind sprite.Kind, r Renderer) {
	if r == nil {
		delete(p.renderers, kind)
		return
	}
	p.renderers[kind] = r
}

// Render draws one frame: it resets the canvas to the surface's base
// transform, clears the logical area and draws every entity below the
// root in pre-order.
//
// Render returns ErrNoRoot when the surface has no root and none is tagged
// with sprite.Root, and ErrCycle when an entity is reached twice. In both
// cases the canvas is left with the base transform.
func (p *Pass) Render(store ecs.Store, s *viewport.Surface) error {
	c := s.Canvas
	c.SetTransform(s.Base)
	c.ClearRect(-s.Size.X, -s.Size.Y, 2*s.Size.X, 2*s.Size.Y)

	root, err := findRoot(store, s)
	if err != nil {
		return err
	}

	err = p.walk(store, c, s.Base, root)
	c.SetTransform(s.Base)
	return err
}

func (p *Pass) walk(store ecs.Store, c canvas.Canvas, base geom.Matrix, root ecs.Entity) error {
	clear(p.visited)
	p.matrices = p.matrices[:0]
	p.steps = append(p.steps[:0], step{entity: root})
	active := base

	for len(p.steps) > 0 {
		st := p.steps[len(p.steps)-1]
		p.steps = p.steps[:len(p.steps)-1]

		if st.exit {
			active = p.matrices[len(p.matrices)-1]
			p.matrices = p.matrices[:len(p.matrices)-1]
			c.SetTransform(active)
			continue
		}

		e := st.entity
		if _, seen := p.visited[e]; seen {
			return fmt.Errorf("%w: entity %d reached twice", ErrCycle, e)
		}
		p.visited[e] = struct{}{}

		p.matrices = append(p.matrices, active)
		var size geom.Vec2
		if t, ok := ecs.Get[geom.Transform](store, e); ok {
			active = geom.Compose(active, *t)
			size = t.Size
		} else {
			logger.Get().Debug("render: entity without transform", "entity", e)
		}
		c.SetTransform(active)
		p.draw(store, c, e, size)

		p.steps = append(p.steps, step{entity: e, exit: true})
		if n, ok := ecs.Get[scene.Node](store, e); ok {
			for i := len(n.Children) - 1; i >= 0; i-- {
				p.steps = append(p.steps, step{entity: n.Children[i]})
			}
		}
	}
	return nil
}

func (p *Pass) draw(store ecs.Store, c canvas.Canvas, e ecs.Entity, size geom.Vec2) {
	sp, ok := ecs.Get[sprite.Sprite](store, e)
	if !ok {
		logger.Get().Debug("render: entity without sprite", "entity", e)
		return
	}
	if !sp.Visible || sp.Kind == sprite.None {
		return
	}
	if r, ok := p.renderers[sp.Kind]; ok {
		r(c, sp, size)
	}
}

func findRoot(store ecs.Store, s *viewport.Surface) (ecs.Entity, error) {
	if s.Root.Valid() {
		return s.Root, nil
	}
	roots := ecs.Query[sprite.Root](store)
	if len(roots) == 0 {
		return ecs.Nil, ErrNoRoot
	}
	if len(roots) > 1 {
		logger.Get().Warn("render: several root entities, using the first", "roots", roots)
	}
	return roots[0], nil
}
