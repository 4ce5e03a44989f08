package drawing

import (
	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
	"github.com/spaghettifunk/graphpunk/engine/resources"
	"github.com/spaghettifunk/graphpunk/engine/shader"
)

// AddPixelGrid fills the display with hidden one unit rectangles, stored as
// Drawables under renderer.PixelKey. The renderer grid operations then show
// and hide them.
func AddPixelGrid(store *resources.Store, r *renderer.Renderer, program *shader.Program, color math.Vec4) error {
	pixel, err := NewRectangle(program, color, math.NewVec3Zero(), math.NewVec3One())
	if err != nil {
		return err
	}
	pixel.SetVisible(false)

	size := r.DisplaySize()
	for y := 0; y < int(size.Y); y++ {
		for x := 0; x < int(size.X); x++ {
			p := pixel.Clone()
			p.SetPosition(math.NewVec3(float32(x), float32(y), 0))
			resources.Add[renderer.Drawable](store, renderer.PixelKey(x, y), p)
		}
	}
	return nil
}
