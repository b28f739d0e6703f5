// Package renderer composites relief-shaded frames of a height field.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	gomath "math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-relief/internal/engine/lighting"
	"github.com/Faultbox/midgard-relief/internal/engine/shading"
	"github.com/Faultbox/midgard-relief/internal/engine/shadow"
	"github.com/Faultbox/midgard-relief/internal/engine/terrain"
	"github.com/Faultbox/midgard-relief/pkg/math"
)

// DefaultTileSize is the edge length of a work tile in pixels.
const DefaultTileSize = 32

// ErrClosed is returned by Render after Close.
var ErrClosed = errors.New("compositor closed")

// Options configure a Compositor. Output size is fixed for its lifetime.
type Options struct {
	Width    int
	Height   int
	Workers  int // 0 = runtime.NumCPU()
	TileSize int // 0 = DefaultTileSize
	Tracer   shadow.Config
	Logger   *zap.Logger
}

// Compositor renders frames of one height field into a fixed-size image.
// Render may be called from any goroutine; frames are rendered one at a time.
type Compositor struct {
	field  *terrain.HeightField
	tracer *shadow.Tracer
	width  int
	height int
	tiles  []image.Rectangle
	pool   *workerPool
	log    *zap.Logger

	renderMu sync.Mutex // serialises frames and owns back
	closed   bool       // guarded by renderMu

	mu     sync.RWMutex // guards front
	front  *Image
	back   *Image
	frames uint64
}

// New creates a compositor and starts its worker pool. Call Close when done.
func New(field *terrain.HeightField, opts Options) (*Compositor, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: nil height field", ErrInvalidParameter)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: output size %dx%d", ErrInvalidParameter, opts.Width, opts.Height)
	}
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultTileSize
	}
	if opts.Tracer == (shadow.Config{}) {
		opts.Tracer = shadow.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tiles := newTileGrid(opts.Width, opts.Height, opts.TileSize)
	c := &Compositor{
		field:  field,
		tracer: shadow.New(field, opts.Tracer),
		width:  opts.Width,
		height: opts.Height,
		tiles:  tiles,
		pool:   newWorkerPool(opts.Workers, len(tiles)),
		log:    log,
		front:  NewImage(opts.Width, opts.Height),
		back:   NewImage(opts.Width, opts.Height),
	}

	w, h := field.Size()
	log.Debug("compositor ready",
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Int("field_width", w),
		zap.Int("field_height", h),
		zap.Int("tiles", len(tiles)),
		zap.Int("workers", c.pool.numWorkers),
	)
	return c, nil
}

// Close stops the worker pool. It waits for a frame in flight and may be
// called more than once.
func (c *Compositor) Close() {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.pool.stop()
}

// Size returns the output dimensions.
func (c *Compositor) Size() (width, height int) {
	return c.width, c.height
}

// Field returns the height field being rendered.
func (c *Compositor) Field() *terrain.HeightField {
	return c.field
}

// Image returns the last completed frame. The buffer stays valid until the
// next successful Render; callers that keep it longer should Clone it.
func (c *Compositor) Image() *Image {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.front
}

// Render shades a full frame and returns it.
//
// Invalid parameters are rejected before any pixel is touched: the previous
// frame is returned together with an error wrapping ErrInvalidParameter.
// If ctx is cancelled mid-frame the partial frame is discarded and the
// previous frame is returned with ctx.Err(). After Close the last frame is
// returned with ErrClosed.
func (c *Compositor) Render(ctx context.Context, p Params) (*Image, error) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	if c.closed {
		return c.Image(), ErrClosed
	}
	if err := p.Validate(); err != nil {
		return c.Image(), err
	}
	p = p.Clamp()

	f := c.newFrame(p)
	start := time.Now()
	c.pool.renderFrame(ctx, f, c.tiles)

	if err := ctx.Err(); err != nil {
		c.log.Debug("frame abandoned", zap.Error(err))
		return c.Image(), err
	}

	c.mu.Lock()
	c.front, c.back = c.back, c.front
	c.frames++
	out := c.front
	c.mu.Unlock()

	c.log.Debug("frame rendered",
		zap.Uint64("frame", c.frames),
		zap.Stringer("params", p),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int64("samples", f.stats.samples.Load()),
		zap.Int64("occluded", f.stats.occluded.Load()),
	)
	return out, nil
}

// frame is the read-only state shared by the workers of one Render call.
type frame struct {
	params     Params
	view       View
	light      math.Vec3
	samples    int
	directions int
	field      *terrain.HeightField
	tracer     *shadow.Tracer
	out        *Image
	stats      frameStats
}

func (c *Compositor) newFrame(p Params) *frame {
	total, dirs := p.samples()
	return &frame{
		params: p,
		view: View{
			Width:  c.width,
			Height: c.height,
			Center: c.field.Center(),
			Zoom:   p.Zoom,
		},
		light:      p.Light.Direction(),
		samples:    total,
		directions: dirs,
		field:      c.field,
		tracer:     c.tracer,
		out:        c.back,
	}
}

// worker holds per-goroutine scratch state.
type worker struct {
	random *rand.Rand
	dirs   []math.Vec3
}

// renderTile shades the pixels inside bounds. Tiles never overlap, so
// writes to f.out need no locking.
func (w *worker) renderTile(ctx context.Context, f *frame, bounds image.Rectangle) {
	var samples, occluded int64

	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		if ctx.Err() != nil {
			break
		}
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			v, blocked := w.shadePixel(f, px, py)
			f.out.Set(px, py, v)
			samples += int64(f.samples)
			occluded += int64(blocked)
		}
	}

	f.stats.samples.Add(samples)
	f.stats.occluded.Add(occluded)
}

// strata returns the jitter grid for n samples: gx columns by gy rows with
// no empty row, so sample k falls in cell (k%gx, k/gx).
func strata(n int) (gx, gy int) {
	gx = max(int(gomath.Ceil(gomath.Sqrt(float64(n)))), 1)
	gy = max((n+gx-1)/gx, 1)
	return gx, gy
}

// shadePixel averages f.samples evaluations of one pixel and returns the
// intensity and the number of occluded samples.
func (w *worker) shadePixel(f *frame, px, py int) (float32, int) {
	p := f.params
	base := PixelToField(float32(px), float32(py), f.view)

	w.dirs = lighting.AppendCone(w.dirs[:0], f.light, p.LightSourceWidth, f.directions, w.random)

	gx, gy := strata(f.samples)
	footprint := f.view.Footprint()

	var sum float32
	blocked := 0
	for k := range f.samples {
		pos := base
		if p.jittered() {
			cx, cy := k%gx, k/gx
			sx := (float32(cx) + w.random.Float32()) / float32(gx)
			sy := (float32(cy) + w.random.Float32()) / float32(gy)
			pos.X += (sx - 0.5) * footprint
			pos.Y += (sy - 0.5) * footprint
		}

		dir := w.dirs[k%len(w.dirs)]
		point := f.field.WorldPoint(pos.X, pos.Y)
		lit := f.tracer.Visible(point, dir)
		if !lit {
			blocked++
		}
		sum += shading.Shade(p.Mode, f.field.Normal(pos.X, pos.Y), dir, lit)
	}
	return sum / float32(f.samples), blocked
}
