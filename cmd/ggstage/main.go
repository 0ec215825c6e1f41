// Command ggstage renders a demo scene to PNG frames.
//
// Settings come from an optional TOML or YAML file and are overridden by
// flags:
//
//	ggstage -config stage.toml -frames 30 -zoom 1.5 -output out/frame%03d.png
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/ggstage"
	"github.com/gogpu/ggstage/canvas"
	"github.com/gogpu/ggstage/clock"
	"github.com/gogpu/ggstage/ecs"
	"github.com/gogpu/ggstage/geom"
	"github.com/gogpu/ggstage/scene"
	"github.com/gogpu/ggstage/sprite"
	"github.com/gogpu/ggstage/viewport"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML or YAML settings file")
		width      = flag.Float64("width", 0, "logical surface width")
		rendering  = flag.String("rendering", "", "image rendering: crisp-edges, pixelated or smooth")
		hostWidth  = flag.Float64("host-width", 0, "host client width")
		hostHeight = flag.Float64("host-height", 0, "host client height")
		dpr        = flag.Float64("dpr", 0, "device pixel ratio")
		zoom       = flag.Float64("zoom", 0, "zoom factor")
		frames     = flag.Int("frames", 0, "number of frames to render")
		fps        = flag.Float64("fps", 0, "frames per second of the animation clock")
		output     = flag.String("output", "", "output file pattern, e.g. frame%03d.png")
		images     = flag.String("images", "", "comma-separated image files for the animated sprite")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		ggstage.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Graphics.Width = *width
		case "rendering":
			cfg.Graphics.Rendering = *rendering
		case "host-width":
			cfg.Host.Width = *hostWidth
		case "host-height":
			cfg.Host.Height = *hostHeight
		case "dpr":
			cfg.Host.DPR = *dpr
		case "zoom":
			cfg.Zoom = *zoom
		case "frames":
			cfg.Frames = *frames
		case "fps":
			cfg.FPS = *fps
		case "output":
			cfg.Output = *output
		case "images":
			cfg.Images = strings.Split(*images, ",")
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid settings: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg Config) error {
	w := ecs.NewWorld()
	w.Register(ecs.KindOf[geom.Transform]())
	clk := clock.NewManual(time.Now())
	ecs.SetResource[clock.Clock](w, clk)

	host := viewport.NewStaticHost(cfg.Host.Width, cfg.Host.Height, cfg.Host.DPR)
	stage := ggstage.New(ggstage.WithHost(host), ggstage.WithSettings(cfg.Graphics))
	if err := stage.Startup(w); err != nil {
		return err
	}
	if err := stage.SetZoom(w, cfg.Zoom); err != nil {
		return err
	}

	d, err := buildScene(w, stage.Root(), cfg.Images)
	if err != nil {
		return err
	}
	if err := stage.StartAnimation(w, d.flipbook); err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	step := time.Duration(float64(time.Second) / cfg.FPS)
	raster, ok := host.Canvas().(*canvas.Raster)
	if !ok {
		return fmt.Errorf("host canvas is %T, want *canvas.Raster", host.Canvas())
	}
	for i := 0; i < cfg.Frames; i++ {
		d.tick(w, float64(i)/cfg.FPS)
		if err := stage.Frame(w); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		name := fmt.Sprintf(cfg.Output, i)
		if err := raster.SavePNG(name); err != nil {
			return err
		}
		clk.Advance(step)
	}

	bw, bh := raster.Size()
	log.Printf("rendered %d frame(s) at %dx%d to %s", cfg.Frames, bw, bh, cfg.Output)
	return nil
}

// demo holds the entities the animation loop moves.
type demo struct {
	orbit    ecs.Entity
	flipbook ecs.Entity
}

// buildScene spawns a backdrop, an orbit of ellipses around a bordered
// square and an animated image sprite.
func buildScene(w *ecs.World, root ecs.Entity, images []string) (*demo, error) {
	spawn := func(parent ecs.Entity, sp *sprite.Sprite, t *geom.Transform) (ecs.Entity, error) {
		e := w.Spawn(sp, t, &scene.Node{})
		return e, scene.Attach(w, parent, e)
	}

	if _, err := spawn(root,
		sprite.New(sprite.Rectangle, sprite.WithFill("midnightblue")),
		geom.NewTransform(geom.V(0, 0), geom.V(4000, 4000)),
	); err != nil {
		return nil, err
	}

	orbit, err := spawn(root,
		sprite.New(sprite.Rectangle, sprite.WithFill("rgb(255 200 0)"), sprite.WithBorder("white", 4)),
		geom.NewTransform(geom.V(-150, 0), geom.V(120, 120)),
	)
	if err != nil {
		return nil, err
	}
	colours := []string{"tomato", "#4caf50", "hsl(200, 80%, 60%)", "rebeccapurple"}
	for i, c := range colours {
		a := float64(i) * math.Pi / 2
		opts := []sprite.Option{sprite.WithFill(c), sprite.WithAlpha(0.85)}
		if i%2 == 1 {
			opts = append(opts, sprite.WithFilter("blur(2px)"))
		}
		if _, err := spawn(orbit,
			sprite.New(sprite.Ellipse, opts...),
			geom.NewTransform(geom.V(160*math.Cos(a), 160*math.Sin(a)), geom.V(60, 40)),
		); err != nil {
			return nil, err
		}
	}

	frames, delay, err := flipbookFrames(images)
	if err != nil {
		return nil, err
	}
	flipbook, err := spawn(root,
		sprite.New(sprite.Image,
			sprite.WithFrames(frames...),
			sprite.WithDelay(delay),
			sprite.WithFilter("contrast(120%)")),
		geom.NewTransform(geom.V(250, 0), geom.V(160, 160)),
	)
	if err != nil {
		return nil, err
	}

	var count int
	if err := scene.Walk(w, root, func(ecs.Entity, int) error {
		count++
		return nil
	}); err != nil {
		return nil, fmt.Errorf("walk scene: %w", err)
	}
	ggstage.Logger().Info("ggstage: scene built", "entities", count)
	return &demo{orbit: orbit, flipbook: flipbook}, nil
}

func (d *demo) tick(w *ecs.World, seconds float64) {
	if t, ok := ecs.Get[geom.Transform](w, d.orbit); ok {
		t.Angle = seconds * math.Pi / 2
	}
}

// flipbookFrames loads the given files, or draws a small generated
// sequence when there are none. A single GIF is expanded into its frames.
func flipbookFrames(paths []string) ([]image.Image, time.Duration, error) {
	if len(paths) == 1 && strings.EqualFold(filepath.Ext(paths[0]), ".gif") {
		f, err := os.Open(paths[0])
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		return sprite.DecodeGIF(f)
	}
	if len(paths) > 0 {
		frames, err := sprite.NewLoader(len(paths)).Load(paths...)
		return frames, sprite.DefaultDelay, err
	}
	out := make([]image.Image, 4)
	for i := range out {
		r := canvas.MustNewRaster(16, 16, canvas.WithRendering(canvas.Pixelated))
		r.SetFillStyle("white")
		r.BeginPath()
		r.Rect(0, 0, 16, 16)
		r.Fill()
		r.SetFillStyle(fmt.Sprintf("hsl(%d, 90%%, 50%%)", i*90))
		r.BeginPath()
		r.Rect(float64(i*4), 0, 4, 16)
		r.Fill()
		out[i] = r.Image()
	}
	return out, sprite.DefaultDelay, nil
}
