package render

import (
	"errors"
	"image"
	"slices"
	"testing"

	"github.com/gogpu/ggstage/canvas"
	"github.com/gogpu/ggstage/ecs"
	"github.com/gogpu/ggstage/geom"
	"github.com/gogpu/ggstage/scene"
	"github.com/gogpu/ggstage/sprite"
	"github.com/gogpu/ggstage/viewport"
)

type fixture struct {
	world   *ecs.World
	surface *viewport.Surface
	rec     *canvas.Recorder
	root    ecs.Entity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{world: ecs.NewWorld()}
	s, err := viewport.Setup(viewport.NewStaticHost(800, 600, 1),
		viewport.WithCanvasFactory(func(w, h int, _ canvas.Rendering) (canvas.Canvas, error) {
			return canvas.NewRecorder(w, h)
		}))
	if err != nil {
		t.Fatal(err)
	}
	f.surface = s
	f.rec = s.Canvas.(*canvas.Recorder)
	f.root = f.world.Spawn(sprite.New(sprite.None), &geom.Transform{}, &scene.Node{}, &sprite.Root{})
	return f
}

func (f *fixture) add(t *testing.T, parent ecs.Entity, sp *sprite.Sprite, tr *geom.Transform) ecs.Entity {
	t.Helper()
	e := f.world.Spawn(sp, tr, &scene.Node{})
	if err := scene.Attach(f.world, parent, e); err != nil {
		t.Fatal(err)
	}
	return e
}

func (f *fixture) render(t *testing.T) error {
	t.Helper()
	f.rec.Reset()
	return NewPass().Render(f.world, f.surface)
}

func fillStyles(rec *canvas.Recorder) []string {
	var out []string
	for _, c := range rec.Filtered(canvas.CmdFill) {
		out = append(out, c.Style)
	}
	return out
}

func rect(fill string) *sprite.Sprite {
	return sprite.New(sprite.Rectangle, sprite.WithFill(fill))
}

func TestRenderPreOrder(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, f.root, rect("red"), geom.NewTransform(geom.V(10, 0), geom.V(4, 4)))
	f.add(t, a, rect("orange"), geom.NewTransform(geom.V(0, 5), geom.V(2, 2)))
	a2 := f.add(t, a, rect("yellow"), &geom.Transform{})
	f.add(t, a2, rect("green"), &geom.Transform{})
	b := f.add(t, f.root, rect("blue"), &geom.Transform{})
	f.add(t, b, rect("purple"), &geom.Transform{})

	if err := f.render(t); err != nil {
		t.Fatal(err)
	}
	want := []string{"red", "orange", "yellow", "green", "blue", "purple"}
	if got := fillStyles(f.rec); !slices.Equal(got, want) {
		t.Errorf("fill order = %v, want %v", got, want)
	}
}

func TestRenderComposesTransforms(t *testing.T) {
	f := newFixture(t)
	ta := &geom.Transform{Pos: geom.V(10, 20), Angle: 0.5, Size: geom.V(4, 6)}
	tb := &geom.Transform{Pos: geom.V(-3, 1), Size: geom.V(2, 2)}
	a := f.add(t, f.root, rect("red"), ta)
	f.add(t, a, rect("blue"), tb)

	if err := f.render(t); err != nil {
		t.Fatal(err)
	}
	fills := f.rec.Filtered(canvas.CmdFill)
	if len(fills) != 2 {
		t.Fatalf("got %d fills, want 2", len(fills))
	}

	flip := geom.Scale(1, -1)
	ma := geom.Compose(f.surface.Base, *ta)
	mb := geom.Compose(ma, *tb)
	if got, want := fills[0].Transform, ma.Multiply(flip); !got.ApproxEqual(want, 1e-9) {
		t.Errorf("parent transform = %v, want %v", got, want)
	}
	if got, want := fills[1].Transform, mb.Multiply(flip); !got.ApproxEqual(want, 1e-9) {
		t.Errorf("child transform = %v, want %v", got, want)
	}
	shape := fills[0].Shapes[0]
	if shape.X != -2 || shape.Y != -3 || shape.W != 4 || shape.H != 6 {
		t.Errorf("rect = %+v, want centred 4x6", shape)
	}
}

func TestRenderRestoresBaseTransform(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, f.root, rect("red"), &geom.Transform{Pos: geom.V(100, 100), Angle: 1})
	f.add(t, a, rect("blue"), &geom.Transform{Pos: geom.V(5, 5), Angle: 2})

	if err := f.render(t); err != nil {
		t.Fatal(err)
	}
	if got := f.rec.Transform(); got != f.surface.Base {
		t.Errorf("transform after render = %v, want %v", got, f.surface.Base)
	}
}

func TestRenderClearsLogicalArea(t *testing.T) {
	f := newFixture(t)
	if err := f.render(t); err != nil {
		t.Fatal(err)
	}
	cmds := f.rec.Commands()
	if len(cmds) < 2 || cmds[1].Type != canvas.CmdClearRect {
		t.Fatalf("commands = %v, want SetTransform then ClearRect", cmds)
	}
	clearCmd := cmds[1]
	if want := [4]float64{-1000, -750, 2000, 1500}; clearCmd.Rect != want {
		t.Errorf("clear rect = %v, want %v", clearCmd.Rect, want)
	}
	if clearCmd.Transform != f.surface.Base {
		t.Errorf("clear transform = %v, want base", clearCmd.Transform)
	}
}

func TestRenderRootNoneDrawsNothing(t *testing.T) {
	f := newFixture(t)
	if err := f.render(t); err != nil {
		t.Fatal(err)
	}
	for _, typ := range []canvas.CommandType{canvas.CmdFill, canvas.CmdStroke, canvas.CmdDrawImage} {
		if n := f.rec.Count(typ); n != 0 {
			t.Errorf("Count(%v) = %d, want 0", typ, n)
		}
	}
}

func TestRenderInvisibleStillTraverses(t *testing.T) {
	f := newFixture(t)
	hidden := sprite.New(sprite.Rectangle, sprite.WithFill("red"), sprite.Hidden())
	a := f.add(t, f.root, hidden, &geom.Transform{Pos: geom.V(1, 1)})
	f.add(t, a, rect("blue"), &geom.Transform{})

	if err := f.render(t); err != nil {
		t.Fatal(err)
	}
	if got := fillStyles(f.rec); !slices.Equal(got, []string{"blue"}) {
		t.Errorf("fills = %v, want [blue]", got)
	}
}

func TestRenderMalformedEntities(t *testing.T) {
	f := newFixture(t)
	// No sprite, no transform: acts as an identity group.
	group := f.world.Spawn(&scene.Node{})
	if err := scene.Attach(f.world, f.root, group); err != nil {
		t.Fatal(err)
	}
	f.add(t, group, rect("blue"), &geom.Transform{})
	// No node: leaf.
	leaf := f.world.Spawn(rect("red"), &geom.Transform{})
	rootNode, _ := ecs.Get[scene.Node](f.world, f.root)
	rootNode.Children = append(rootNode.Children, leaf)

	if err := f.render(t); err != nil {
		t.Fatal(err)
	}
	if got := fillStyles(f.rec); !slices.Equal(got, []string{"blue", "red"}) {
		t.Errorf("fills = %v, want [blue red]", got)
	}
}

func TestRenderCycle(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, f.root, rect("red"), &geom.Transform{Pos: geom.V(3, 3)})
	b := f.add(t, a, rect("blue"), &geom.Transform{Pos: geom.V(4, 4)})
	bn, _ := ecs.Get[scene.Node](f.world, b)
	bn.Children = append(bn.Children, a)

	err := f.render(t)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Render() error = %v, want ErrCycle", err)
	}
	if got := f.rec.Transform(); got != f.surface.Base {
		t.Errorf("transform after failed render = %v, want base", got)
	}
}

func TestRenderNoRoot(t *testing.T) {
	f := newFixture(t)
	f.world.Remove(f.root, ecs.KindOf[sprite.Root]())
	if err := f.render(t); !errors.Is(err, ErrNoRoot) {
		t.Errorf("Render() error = %v, want ErrNoRoot", err)
	}

	// An explicit surface root does not need the tag.
	f.surface.Root = f.root
	if err := f.render(t); err != nil {
		t.Errorf("Render() with surface root error = %v", err)
	}
}

func TestRenderCustomRenderer(t *testing.T) {
	f := newFixture(t)
	f.add(t, f.root, sprite.New(sprite.Ellipse), &geom.Transform{Size: geom.V(8, 2)})

	var got []geom.Vec2
	p := NewPass()
	p.Handle(sprite.Ellipse, func(_ canvas.Canvas, _ *sprite.Sprite, size geom.Vec2) {
		got = append(got, size)
	})
	if err := p.Render(f.world, f.surface); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []geom.Vec2{geom.V(8, 2)}) {
		t.Errorf("renderer calls = %v", got)
	}

	p.Handle(sprite.Ellipse, nil)
	f.rec.Reset()
	if err := p.Render(f.world, f.surface); err != nil {
		t.Fatal(err)
	}
	if n := f.rec.Count(canvas.CmdFill) + f.rec.Count(canvas.CmdStroke); n != 0 {
		t.Errorf("removed renderer still drew %d ops", n)
	}
}

func TestRenderImageFrames(t *testing.T) {
	f := newFixture(t)
	frames := []image.Image{
		image.NewRGBA(image.Rect(0, 0, 2, 2)),
		image.NewRGBA(image.Rect(0, 0, 3, 3)),
	}
	sp := sprite.New(sprite.Image, sprite.WithFrames(frames...))
	f.add(t, f.root, sp, &geom.Transform{Size: geom.V(20, 10)})
	empty := sprite.New(sprite.Image)
	f.add(t, f.root, empty, &geom.Transform{Size: geom.V(20, 10)})

	if err := f.render(t); err != nil {
		t.Fatal(err)
	}
	imgs := f.rec.Filtered(canvas.CmdDrawImage)
	if len(imgs) != 1 {
		t.Fatalf("got %d images, want 1", len(imgs))
	}
	if imgs[0].Image != frames[0] {
		t.Error("frame 0 not drawn")
	}
	if want := [4]float64{-10, -5, 20, 10}; imgs[0].Rect != want {
		t.Errorf("image rect = %v, want %v", imgs[0].Rect, want)
	}

	sp.GotoFrame(1)
	_ = f.render(t)
	if imgs := f.rec.Filtered(canvas.CmdDrawImage); len(imgs) != 1 || imgs[0].Image != frames[1] {
		t.Error("frame 1 not drawn after GotoFrame")
	}

	sp.GotoFrame(7)
	_ = f.render(t)
	if n := f.rec.Count(canvas.CmdDrawImage); n != 0 {
		t.Errorf("out of range frame drew %d images", n)
	}
}
