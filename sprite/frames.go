package sprite

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/ggstage/internal/cache"

	// Decoders for image frames.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNoFrames is returned when a source yields no images.
var ErrNoFrames = errors.New("sprite: no frames")

// DecodeFrame decodes a single image in any registered format
// (PNG, JPEG, GIF, BMP, TIFF, WebP).
func DecodeFrame(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("sprite: decode frame: %w", err)
	}
	return img, nil
}

// LoadFrames reads one frame per file, in argument order.
func LoadFrames(paths ...string) ([]image.Image, error) {
	if len(paths) == 0 {
		return nil, ErrNoFrames
	}
	frames := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := loadFrame(p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return frames, nil
}

// Loader loads frames from files, keeping recently used images in memory
// so sprites that share files decode them once. A Loader is safe for
// concurrent use.
type Loader struct {
	images *cache.LRU[string, image.Image]
}

// NewLoader creates a loader that keeps up to capacity decoded images.
// A non-positive capacity selects a default.
func NewLoader(capacity int) *Loader {
	return &Loader{images: cache.New[string, image.Image](capacity)}
}

// Load is like LoadFrames but serves repeated paths from memory.
func (l *Loader) Load(paths ...string) ([]image.Image, error) {
	if len(paths) == 0 {
		return nil, ErrNoFrames
	}
	frames := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := l.images.GetOrLoad(p, func() (image.Image, error) { return loadFrame(p) })
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}
	return frames, nil
}

// Cached returns how many decoded images the loader holds.
func (l *Loader) Cached() int { return l.images.Len() }

func loadFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := DecodeFrame(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// DecodeGIF decodes every frame of an animated GIF. Frames are composited
// onto the logical screen so each returned image is complete. The returned
// delay is the first frame's delay, or DefaultDelay if the file has none.
func DecodeGIF(r io.Reader) ([]image.Image, time.Duration, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("sprite: decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, 0, ErrNoFrames
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	screen := image.NewRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	for i, p := range g.Image {
		var restore *image.RGBA
		if i < len(g.Disposal) && g.Disposal[i] == gif.DisposalPrevious {
			restore = cloneRGBA(screen)
		}
		draw.Draw(screen, p.Bounds(), p, p.Bounds().Min, draw.Over)
		frames = append(frames, cloneRGBA(screen))

		if i < len(g.Disposal) {
			switch g.Disposal[i] {
			case gif.DisposalBackground:
				draw.Draw(screen, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
			case gif.DisposalPrevious:
				screen = restore
			}
		}
	}

	delay := DefaultDelay
	if len(g.Delay) > 0 && g.Delay[0] > 0 {
		delay = time.Duration(g.Delay[0]) * 10 * time.Millisecond
	}
	return frames, delay, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
