package ggstage

import (
	"fmt"
	"sync"

	"github.com/gogpu/ggstage/clock"
	"github.com/gogpu/ggstage/ecs"
	"github.com/gogpu/ggstage/geom"
	"github.com/gogpu/ggstage/render"
	"github.com/gogpu/ggstage/scene"
	"github.com/gogpu/ggstage/sprite"
	"github.com/gogpu/ggstage/viewport"
)

// Plugin installs a stage into an ecs.World.
//
// Frame systems and SetZoom are serialised by the plugin, so a host may
// change the zoom from any goroutine while frames are running.
type Plugin struct {
	mu   sync.Mutex
	opts options
	pass *render.Pass
	root ecs.Entity
}

// New creates a plugin. Nothing happens until Startup.
func New(opts ...Option) *Plugin {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Plugin{opts: o, pass: render.NewPass()}
}

// Startup checks the world's capabilities, creates the surface and spawns
// the root entity.
//
// The world must provide a clock.Clock resource and have the
// geom.Transform component registered. The host comes from WithHost or,
// failing that, from a viewport.Host resource.
func (p *Plugin) Startup(w *ecs.World) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.root.Valid() {
		return ErrAlreadyStarted
	}
	if err := CheckCompatibility(w); err != nil {
		return err
	}
	host := p.opts.host
	if host == nil {
		host, _ = ecs.GetResource[viewport.Host](w)
	}

	vopts := []viewport.Option{
		viewport.WithWidth(p.opts.width),
		viewport.WithRendering(p.opts.rendering),
	}
	if p.opts.factory != nil {
		vopts = append(vopts, viewport.WithCanvasFactory(p.opts.factory))
	}
	s, err := viewport.Setup(host, vopts...)
	if err != nil {
		return fmt.Errorf("ggstage: startup: %w", err)
	}

	w.Register(
		ecs.KindOf[sprite.Sprite](),
		ecs.KindOf[sprite.Root](),
		ecs.KindOf[scene.Node](),
		ecs.KindOf[viewport.Surface](),
	)

	p.root = w.Spawn(sprite.New(sprite.None), &geom.Transform{}, &scene.Node{}, &sprite.Root{})
	s.Root = p.root
	w.Spawn(s)

	Logger().Info("ggstage: started", "root", p.root, "width", s.Size.X, "height", s.Size.Y)
	return nil
}

// CheckCompatibility reports whether w provides what a stage needs: a
// clock.Clock resource and the geom.Transform component.
func CheckCompatibility(w *ecs.World) error {
	if _, ok := ecs.GetResource[clock.Clock](w); !ok {
		return ErrMissingClock
	}
	if !ecs.Registered[geom.Transform](w) {
		return ErrMissingTransform
	}
	return nil
}

// Root returns the root entity spawned by Startup, or ecs.Nil before it.
func (p *Plugin) Root() ecs.Entity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.root
}

// Systems returns the per-frame systems in the order they must run:
// resize, zoom, render.
func (p *Plugin) Systems() []ecs.System {
	return []ecs.System{
		{Name: "resize", Run: p.withSurface(p.resize)},
		{Name: "zoom", Run: p.withSurface(p.zoom)},
		{Name: "render", Run: p.withSurface(p.render)},
	}
}

// Frame runs the frame systems once, in order.
func (p *Plugin) Frame(w *ecs.World) error {
	return ecs.RunSystems(w, p.Systems()...)
}

// SetZoom requests a zoom factor, applied by the next zoom system run.
func (p *Plugin) SetZoom(w *ecs.World, zoom float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, err := SurfaceOf(w)
	if err != nil {
		return err
	}
	return s.SetZoom(zoom)
}

// StartAnimation starts cycling the frames of e's sprite on the world's
// clock.
func (p *Plugin) StartAnimation(w *ecs.World, e ecs.Entity) error {
	clk, ok := ecs.GetResource[clock.Clock](w)
	if !ok {
		return ErrMissingClock
	}
	sp, ok := ecs.Get[sprite.Sprite](w, e)
	if !ok {
		return fmt.Errorf("ggstage: entity %d has no sprite", e)
	}
	sp.StartAnimation(clk)
	return nil
}

// SurfaceOf returns the single surface of w.
func SurfaceOf(w ecs.Store) (*viewport.Surface, error) {
	es := ecs.Query[viewport.Surface](w)
	switch len(es) {
	case 0:
		return nil, ErrNoSurface
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d", ErrMultipleSurfaces, len(es))
	}
	s, ok := ecs.Get[viewport.Surface](w, es[0])
	if !ok {
		return nil, ErrNoSurface
	}
	return s, nil
}

func (p *Plugin) withSurface(fn func(*ecs.World, *viewport.Surface) error) func(*ecs.World) error {
	return func(w *ecs.World) error {
		p.mu.Lock()
		defer p.mu.Unlock()
		s, err := SurfaceOf(w)
		if err != nil {
			return err
		}
		return fn(w, s)
	}
}

func (p *Plugin) resize(_ *ecs.World, s *viewport.Surface) error {
	changed, err := viewport.ReconcileSize(s)
	if changed {
		Logger().Debug("ggstage: surface resized", "width", s.Size.X, "height", s.Size.Y)
	}
	return err
}

func (p *Plugin) zoom(_ *ecs.World, s *viewport.Surface) error {
	changed, err := viewport.ReconcileZoom(s)
	if changed {
		Logger().Debug("ggstage: surface zoomed", "zoom", s.Zoom, "width", s.Size.X)
	}
	return err
}

func (p *Plugin) render(w *ecs.World, s *viewport.Surface) error {
	return p.pass.Render(w, s)
}
