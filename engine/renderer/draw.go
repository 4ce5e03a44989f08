package renderer

import (
	"errors"

	"github.com/spaghettifunk/graphpunk/engine/core"
	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/resources"
)

// Drawable is anything the renderer can draw. Drawables are stored in the
// resource store under the Drawable type so that DrawAll finds them.
type Drawable interface {
	Draw(r *Renderer) error

	Color() math.Vec4
	SetColor(color math.Vec4)

	Position() math.Vec3
	SetPosition(position math.Vec3)

	Scale() math.Vec3
	SetScale(scale math.Vec3)

	IsVisible() bool
	SetVisible(value bool)
}

// DrawAll presents one frame: every visible Drawable in the store, in
// insertion order. A drawable that fails is logged and skipped. While the
// Drawable bucket is exclusively borrowed the frame is presented empty.
func (r *Renderer) DrawAll(store *resources.Store) error {
	if err := r.backend.Begin(r.background); err != nil {
		return err
	}

	r.drawStored(store)
	return r.backend.End()
}

func (r *Renderer) drawStored(store *resources.Store) {
	drawables, err := resources.Query[Drawable](store)
	switch {
	case errors.Is(err, resources.ErrNotFound):
		return
	case err != nil:
		core.LogWarn("skipping draw: %v", err)
		return
	}
	defer resources.ReleaseAll(drawables)

	for _, ref := range drawables {
		d := ref.Get()
		if !d.IsVisible() {
			continue
		}
		if err := d.Draw(r); err != nil {
			core.LogError("drawing %s: %v", ref.Key(), err)
		}
	}
}
