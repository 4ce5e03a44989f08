package drawing

import (
	"fmt"

	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
	"github.com/spaghettifunk/graphpunk/engine/shader"
)

const (
	uniformTexture      = "punk_texture"
	uniformTextureColor = "punk_texture_color"
)

// Text draws a string one glyph at a time. One line of text is one display
// unit high at scale 1, whatever the font size. Rotation is ignored.
type Text struct {
	base
	font Font
	text string
}

func NewText(program *shader.Program, f Font, color math.Vec4, position math.Vec3, text string) (*Text, error) {
	if program == nil {
		return nil, ErrNoProgram
	}
	p := program.Clone()
	if err := p.SetUniform(uniformTexture, int32(0)); err != nil {
		return nil, err
	}
	return &Text{
		base: newBase(p, color, position, math.NewVec3One()),
		font: f,
		text: text,
	}, nil
}

func (t *Text) Text() string {
	return t.text
}

func (t *Text) SetText(text string) {
	t.text = text
}

func (t *Text) Font() Font {
	return t.font
}

// unit converts font pixels to display units.
func (t *Text) unit() float32 {
	h := t.font.LineHeight()
	if h <= 0 {
		return 1
	}
	return 1 / h
}

// Width is the display width of the longest line.
func (t *Text) Width() float32 {
	u := t.unit()
	var widest, line float32
	var prev rune
	for _, c := range t.text {
		if c == '\n' {
			widest = max(widest, line)
			line, prev = 0, 0
			continue
		}
		g, ok := t.font.Glyph(c)
		if !ok {
			continue
		}
		if prev != 0 {
			line += t.font.Kerning(prev, c) * u * t.Scale().X
		}
		line += g.Advance * u * t.Scale().X
		prev = c
	}
	return max(widest, line)
}

func (t *Text) Draw(r *renderer.Renderer) error {
	color := t.color.ToVec3()
	if err := t.program.SetUniform(uniformTextureColor, color); err != nil {
		return err
	}
	if err := t.program.SetUniform(uniformProjection, r.Projection()); err != nil {
		return err
	}

	u := t.unit()
	pen := t.Position()
	var prev rune
	for _, c := range t.text {
		if c == '\n' {
			pen.X = t.Position().X
			pen.Y += t.Scale().Y
			prev = 0
			continue
		}
		g, ok := t.font.Glyph(c)
		if !ok {
			return fmt.Errorf("%w for %q in %s", ErrMissingGlyph, c, t.font.Name())
		}
		if prev != 0 {
			pen.X += t.font.Kerning(prev, c) * u * t.Scale().X
		}

		x0 := pen.X + g.OffsetX*u*t.Scale().X
		y0 := pen.Y + g.OffsetY*u*t.Scale().Y
		x1 := x0 + g.Width*u*t.Scale().X
		y1 := y0 + g.Height*u*t.Scale().Y
		a := r.ToNDC(math.NewVec3(x0, y0, 0))
		b := r.ToNDC(math.NewVec3(x1, y1, 0))

		err := r.Backend().DrawGlyph(renderer.Glyph{
			Rune:  c,
			Min:   math.NewVec2(min(a.X, b.X), min(a.Y, b.Y)),
			Max:   math.NewVec2(max(a.X, b.X), max(a.Y, b.Y)),
			Color: t.color,
		})
		if err != nil {
			return err
		}

		pen.X += g.Advance * u * t.Scale().X
		prev = c
	}
	return nil
}
