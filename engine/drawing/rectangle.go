package drawing

import (
	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
	"github.com/spaghettifunk/graphpunk/engine/shader"
)

const (
	uniformColor      = "punk_color"
	uniformModel      = "punk_model"
	uniformProjection = "punk_projection"
)

var quadCorners = [4]math.Vec3{
	{X: -0.5, Y: -0.5},
	{X: 0.5, Y: -0.5},
	{X: 0.5, Y: 0.5},
	{X: -0.5, Y: 0.5},
}

// Rectangle is a filled rectangle. Its position is the top left corner in
// display coordinates and its scale is its size. A rotated rectangle is
// drawn as its bounding box, since the backends only fill axis aligned
// quads.
type Rectangle struct {
	base
}

// NewRectangle builds a rectangle drawn with its own copy of program. The
// program must declare the punk_color, punk_model and punk_projection
// uniforms.
func NewRectangle(program *shader.Program, color math.Vec4, position, size math.Vec3) (*Rectangle, error) {
	if program == nil {
		return nil, ErrNoProgram
	}
	p := program.Clone()
	if err := p.SetUniform(uniformColor, color); err != nil {
		return nil, err
	}
	return &Rectangle{base: newBase(p, color, position, size)}, nil
}

// Clone returns an independent copy, program uniforms included.
func (rect *Rectangle) Clone() *Rectangle {
	c := *rect
	c.program = rect.program.Clone()
	t := *rect.transform
	c.transform = &t
	return &c
}

// Model maps the unit quad centered on the origin onto the rectangle. The
// quad is first moved so its top left corner sits on the origin.
func (rect *Rectangle) Model() math.Mat4 {
	return math.NewMat4Translation(math.NewVec3(0.5, 0.5, 0)).Mul(rect.transform.GetLocal())
}

func (rect *Rectangle) Draw(r *renderer.Renderer) error {
	model := rect.Model()
	if err := rect.program.SetUniform(uniformColor, rect.color); err != nil {
		return err
	}
	if err := rect.program.SetUniform(uniformModel, model); err != nil {
		return err
	}
	if err := rect.program.SetUniform(uniformProjection, r.Projection()); err != nil {
		return err
	}

	lo := math.NewVec2(1e30, 1e30)
	hi := math.NewVec2(-1e30, -1e30)
	for _, corner := range quadCorners {
		p := r.ToNDC(corner.Transform(model))
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return r.Backend().DrawQuad(renderer.Quad{
		Min:     lo,
		Max:     hi,
		Color:   rect.color,
		Program: rect.program,
	})
}
