// Package drawing provides the drawables shipped with the engine: filled
// rectangles, the pixel grid built from them, and text.
package drawing

import (
	"errors"

	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/shader"
)

var (
	ErrNoProgram    = errors.New("drawable needs a shader program")
	ErrMissingGlyph = errors.New("font has no glyph")
)

// base carries the state every drawable shares. The transform position is
// the top left corner and its scale is the size.
type base struct {
	program   *shader.Program
	color     math.Vec4
	transform *math.Transform
	visible   bool
}

func newBase(program *shader.Program, color math.Vec4, position, size math.Vec3) base {
	return base{
		program:   program,
		color:     color,
		transform: math.NewTransform(position, 0, size),
		visible:   true,
	}
}

func (b *base) Color() math.Vec4 {
	return b.color
}

func (b *base) SetColor(color math.Vec4) {
	b.color = color
}

func (b *base) Position() math.Vec3 {
	return b.transform.Position
}

func (b *base) SetPosition(position math.Vec3) {
	b.transform.SetPosition(position)
}

func (b *base) Scale() math.Vec3 {
	return b.transform.Scale
}

func (b *base) SetScale(scale math.Vec3) {
	b.transform.SetScale(scale)
}

// Rotation is around the top left corner, in radians.
func (b *base) Rotation() float32 {
	return b.transform.Rotation
}

func (b *base) SetRotation(radians float32) {
	b.transform.SetRotation(radians)
}

func (b *base) Transform() *math.Transform {
	return b.transform
}

func (b *base) IsVisible() bool {
	return b.visible
}

func (b *base) SetVisible(value bool) {
	b.visible = value
}

func (b *base) Program() *shader.Program {
	return b.program
}
