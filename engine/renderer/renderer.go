// Package renderer holds the render state shared by every drawable: the
// logical display grid, the viewport, the projection and the backend that
// presents frames.
package renderer

import (
	"fmt"

	"github.com/spaghettifunk/graphpunk/engine/math"
)

type Renderer struct {
	displaySize math.Vec2i
	viewport    math.Vec2i
	aspectRatio float32
	projection  math.Mat4
	background  math.Vec4
	backend     Backend
}

// New creates a renderer for a display of displaySize logical pixels. The
// viewport starts at the backend size.
func New(displaySize math.Vec2i, backend Backend) *Renderer {
	r := &Renderer{
		displaySize: displaySize,
		background:  math.NewVec4(0, 0, 0, 1),
		backend:     backend,
	}
	r.viewport = backend.Size()
	r.updateProjection()
	return r
}

func (r *Renderer) DisplaySize() math.Vec2i {
	return r.displaySize
}

// SetDisplaySize changes the logical grid and rebuilds the projection.
func (r *Renderer) SetDisplaySize(size math.Vec2i) error {
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("display %dx%d: %w", size.X, size.Y, ErrInvalidSize)
	}
	r.displaySize = size
	r.updateProjection()
	return nil
}

func (r *Renderer) Viewport() math.Vec2i {
	return r.viewport
}

// SetViewportSize records the backend area after a resize.
func (r *Renderer) SetViewportSize(width, height int32) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("viewport %dx%d: %w", width, height, ErrInvalidSize)
	}
	r.viewport = math.Vec2i{X: width, Y: height}
	r.aspectRatio = float32(width) / float32(height)
	return nil
}

func (r *Renderer) AspectRatio() float32 {
	return r.aspectRatio
}

// Projection maps display coordinates, origin top left, to normalized device
// coordinates.
func (r *Renderer) Projection() math.Mat4 {
	return r.projection
}

func (r *Renderer) Background() math.Vec4 {
	return r.background
}

func (r *Renderer) SetBackground(color math.Vec4) {
	r.background = color
}

func (r *Renderer) Backend() Backend {
	return r.backend
}

// ToNDC projects a point in display coordinates.
func (r *Renderer) ToNDC(p math.Vec3) math.Vec2 {
	v := p.Transform(r.projection)
	return math.Vec2{X: v.X, Y: v.Y}
}

func (r *Renderer) updateProjection() {
	w := float32(r.displaySize.X)
	h := float32(r.displaySize.Y)
	r.projection = math.NewMat4Orthographic(0, w, h, 0, -1, 1)
	if r.viewport.Y > 0 {
		r.aspectRatio = float32(r.viewport.X) / float32(r.viewport.Y)
	}
}
