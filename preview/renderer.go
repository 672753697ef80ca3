// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"

	"golang.org/x/image/vector"

	"github.com/gogpu/depthmesh"
	"github.com/gogpu/depthmesh/grid"
	"github.com/gogpu/depthmesh/mesh"
)

// DefaultBands is the number of depth bands used when none is configured.
const DefaultBands = 8

// ErrInvalidDimensions is returned when width, height or band count is invalid.
var ErrInvalidDimensions = errors.New("preview: invalid dimensions")

// Option configures a Renderer.
type Option func(*options)

type options struct {
	bands      int
	background color.RGBA
	logger     *slog.Logger
}

// WithBands sets the number of depth bands.
func WithBands(n int) Option {
	return func(o *options) {
		o.bands = n
	}
}

// WithBackground sets the color shown where no triangle is drawn.
func WithBackground(c color.RGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithLogger sets the renderer's logger. By default depthmesh.Logger() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Renderer draws published tiles into an RGBA image.
//
// Renderer is NOT safe for concurrent use. Read Image between frames on
// the pipeline's goroutine.
type Renderer struct {
	img    *image.RGBA
	ras    *vector.Rasterizer
	bg     *image.Uniform
	shades []*image.Uniform
	log    *slog.Logger

	// grid to image transform
	scale   float32
	offsetX float32
	offsetY float32

	drawn int
}

var _ depthmesh.Sink = (*Renderer)(nil)

// New creates a Renderer with a width x height output image.
func New(width, height int, opts ...Option) (*Renderer, error) {
	o := options{
		bands:      DefaultBands,
		background: color.RGBA{A: 0xff},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if width <= 0 || height <= 0 || o.bands < 1 {
		return nil, fmt.Errorf("%w: width=%d, height=%d, bands=%d", ErrInvalidDimensions, width, height, o.bands)
	}
	if o.logger == nil {
		o.logger = depthmesh.Logger()
	}

	shades := make([]*image.Uniform, o.bands)
	for i := range shades {
		shades[i] = image.NewUniform(bandColor(i, o.bands))
	}
	return &Renderer{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		ras:    vector.NewRasterizer(width, height),
		bg:     image.NewUniform(o.background),
		shades: shades,
		log:    o.logger,
	}, nil
}

// bandColor returns the gray level of band i: 255 for the nearest band down
// to 64 for the farthest.
func bandColor(i, bands int) color.RGBA {
	v := uint8(255)
	if bands > 1 {
		v = uint8(255 - i*(255-64)/(bands-1))
	}
	return color.RGBA{R: v, G: v, B: v, A: 0xff}
}

// Bands returns the number of depth bands.
func (r *Renderer) Bands() int { return len(r.shades) }

// Image returns the output image. It is redrawn on every Publish.
func (r *Renderer) Image() *image.RGBA { return r.img }

// Drawn returns the number of triangles drawn in the last frame.
func (r *Renderer) Drawn() int { return r.drawn }

// Rebuild fits the grid into the image, keeping its aspect ratio and
// centering it.
func (r *Renderer) Rebuild(topo grid.Topology, _ []*mesh.Tile) error {
	b := r.img.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	spanX := float32(max(topo.Width-1, 1))
	spanY := float32(max(topo.Height-1, 1))

	r.scale = min(w/spanX, h/spanY)
	r.offsetX = (w - spanX*r.scale) / 2
	r.offsetY = (h - spanY*r.scale) / 2

	r.log.Info("preview: fitted grid",
		"grid", fmt.Sprintf("%dx%d", topo.Width, topo.Height),
		"image", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
		"scale", r.scale)
	return nil
}

// Publish redraws the image from the active triangles of out.
func (r *Renderer) Publish(out *depthmesh.Output) error {
	draw.Draw(r.img, r.img.Bounds(), r.bg, image.Point{}, draw.Src)

	zmin, zmax := depthRange(out.Tiles)
	bands := len(r.shades)
	bandOf := func(z float32) int {
		if zmax <= zmin {
			return 0
		}
		b := int((z - zmin) / (zmax - zmin) * float32(bands))
		return min(max(b, 0), bands-1)
	}

	b := r.img.Bounds()
	r.drawn = 0
	for band, shade := range r.shades {
		r.ras.Reset(b.Dx(), b.Dy())
		n := 0
		for _, t := range out.Tiles {
			pos := t.Positions()
			active := t.ActiveTriangles()
			for i := 0; i+2 < len(active); i += 3 {
				p1, p2, p3 := pos[active[i]], pos[active[i+1]], pos[active[i+2]]
				if bandOf((p1.Z+p2.Z+p3.Z)/3) != band {
					continue
				}
				r.ras.MoveTo(r.project(p1))
				r.ras.LineTo(r.project(p2))
				r.ras.LineTo(r.project(p3))
				r.ras.ClosePath()
				n++
			}
		}
		if n > 0 {
			r.ras.Draw(r.img, b, shade, image.Point{})
		}
		r.drawn += n
	}

	if r.log.Enabled(context.Background(), slog.LevelDebug) {
		r.log.Debug("preview: frame drawn", "seq", out.Seq, "triangles", r.drawn)
	}
	return nil
}

// project maps a vertex to image space. Grid rows grow downwards while
// vertex y grows upwards.
func (r *Renderer) project(p mesh.Vec3) (float32, float32) {
	return r.offsetX + p.X*r.scale, r.offsetY - p.Y*r.scale
}

// depthRange returns the z range of all vertices referenced by active
// triangles.
func depthRange(tiles []*mesh.Tile) (float32, float32) {
	zmin := float32(math.Inf(1))
	zmax := float32(math.Inf(-1))
	for _, t := range tiles {
		pos := t.Positions()
		for _, idx := range t.ActiveTriangles() {
			z := pos[idx].Z
			zmin = min(zmin, z)
			zmax = max(zmax, z)
		}
	}
	return zmin, zmax
}

// Encode writes the image as PNG.
func (r *Renderer) Encode(w io.Writer) error {
	return png.Encode(w, r.img)
}

// SavePNG saves the image to a PNG file.
func (r *Renderer) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return r.Encode(f)
}
