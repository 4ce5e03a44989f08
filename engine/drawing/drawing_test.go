package drawing

import (
	"errors"
	"testing"

	"golang.org/x/image/font"

	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/renderer"
	"github.com/spaghettifunk/graphpunk/engine/resources"
	"github.com/spaghettifunk/graphpunk/engine/shader"
)

const eps = 1e-5

func program(t *testing.T, name string) *shader.Program {
	t.Helper()
	p, err := shader.LoadBuiltin(name)
	if err != nil {
		t.Fatalf("LoadBuiltin(%s): %v", name, err)
	}
	return p
}

func newRenderer(w, h int32) (*renderer.Renderer, *renderer.RecordingBackend) {
	backend := renderer.NewRecordingBackend(w*10, h*10)
	return renderer.New(math.Vec2i{X: w, Y: h}, backend), backend
}

func drawOne(t *testing.T, r *renderer.Renderer, b *renderer.RecordingBackend, d renderer.Drawable) renderer.Frame {
	t.Helper()
	if err := b.Begin(r.Background()); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := d.Draw(r); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if err := b.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	f, _ := b.LastFrame()
	return f
}

// --- Rectangle ---

func TestRectangleQuad(t *testing.T) {
	r, backend := newRenderer(4, 2)
	red := math.NewVec4(1, 0, 0, 1)
	rect, err := NewRectangle(program(t, shader.Basic2D), red, math.NewVec3(1, 0, 0), math.NewVec3(2, 1, 1))
	if err != nil {
		t.Fatalf("NewRectangle: %v", err)
	}

	frame := drawOne(t, r, backend, rect)
	if len(frame.Quads) != 1 {
		t.Fatalf("quads = %d, want 1", len(frame.Quads))
	}
	q := frame.Quads[0]
	// x in [1, 3] of 4 and y in [0, 1] of 2.
	if !q.Min.Compare(math.NewVec2(-0.5, 0), eps) || !q.Max.Compare(math.NewVec2(0.5, 1), eps) {
		t.Errorf("quad = %v..%v, want (-0.5, 0)..(0.5, 1)", q.Min, q.Max)
	}
	if q.Color != red {
		t.Errorf("color = %v, want %v", q.Color, red)
	}

	v, ok := rect.Program().Uniform("punk_model")
	if !ok || !v.(math.Mat4).Compare(rect.Model(), 0) {
		t.Error("punk_model uniform should hold the model matrix")
	}
	if _, ok := rect.Program().Uniform("punk_projection"); !ok {
		t.Error("punk_projection uniform should be set after Draw")
	}
}

func TestRectangleRotated(t *testing.T) {
	r, backend := newRenderer(8, 8)
	rect, _ := NewRectangle(program(t, shader.Basic2D), math.NewVec4(1, 1, 1, 1), math.NewVec3(4, 2, 0), math.NewVec3(4, 2, 1))
	rect.SetRotation(math.K_PI / 2)

	model := rect.Model()
	corners := []struct {
		in, want math.Vec3
	}{
		{math.NewVec3(-0.5, -0.5, 0), math.NewVec3(4, 2, 0)},
		{math.NewVec3(0.5, 0.5, 0), math.NewVec3(2, 6, 0)},
	}
	for _, c := range corners {
		if got := c.in.Transform(model); !got.Compare(c.want, eps) {
			t.Errorf("corner %v = %v, want %v", c.in, got, c.want)
		}
	}

	// The bounding box covers x in [2, 4] and y in [2, 6] of 8.
	q := drawOne(t, r, backend, rect).Quads[0]
	if !q.Min.Compare(math.NewVec2(-0.5, -0.5), eps) || !q.Max.Compare(math.NewVec2(0, 0.5), eps) {
		t.Errorf("quad = %v..%v, want (-0.5, -0.5)..(0, 0.5)", q.Min, q.Max)
	}
}

func TestRectangleSettersWriteTransform(t *testing.T) {
	rect, _ := NewRectangle(program(t, shader.Basic2D), math.NewVec4(1, 1, 1, 1), math.Vec3{}, math.NewVec3One())
	before := rect.Model()

	rect.SetPosition(math.NewVec3(3, 1, 0))
	rect.SetScale(math.NewVec3(2, 2, 1))

	tr := rect.Transform()
	if tr.Position != math.NewVec3(3, 1, 0) || tr.Scale != math.NewVec3(2, 2, 1) {
		t.Errorf("transform = %v %v, want the values just set", tr.Position, tr.Scale)
	}
	if rect.Model().Compare(before, eps) {
		t.Error("model should follow the transform")
	}
	if got := math.NewVec3(0.5, 0.5, 0).Transform(rect.Model()); !got.Compare(math.NewVec3(5, 3, 0), eps) {
		t.Errorf("bottom right = %v, want (5, 3, 0)", got)
	}
}

func TestRectangleNeedsProgram(t *testing.T) {
	if _, err := NewRectangle(nil, math.Vec4{}, math.Vec3{}, math.Vec3{}); !errors.Is(err, ErrNoProgram) {
		t.Errorf("err = %v, want ErrNoProgram", err)
	}
	if _, err := NewRectangle(program(t, shader.BasicText), math.Vec4{}, math.Vec3{}, math.Vec3{}); !errors.Is(err, shader.ErrUniformNotFound) {
		t.Errorf("text program: err = %v, want ErrUniformNotFound", err)
	}
}

func TestRectangleCloneIsIndependent(t *testing.T) {
	rect, _ := NewRectangle(program(t, shader.Basic2D), math.NewVec4(1, 1, 1, 1), math.Vec3{}, math.NewVec3One())
	c := rect.Clone()
	c.SetPosition(math.NewVec3(5, 5, 0))
	c.SetRotation(1)
	c.SetVisible(false)

	if rect.Position() != (math.Vec3{}) || rect.Rotation() != 0 || !rect.IsVisible() {
		t.Error("changing the clone changed the original")
	}
	if c.Program() == rect.Program() {
		t.Error("clone should own its program")
	}
}

// --- Pixel grid ---

func TestPixelGrid(t *testing.T) {
	r, backend := newRenderer(64, 32)
	store := resources.NewStore()
	if err := AddPixelGrid(store, r, program(t, shader.Basic2D), math.NewVec4(1, 1, 1, 1)); err != nil {
		t.Fatalf("AddPixelGrid: %v", err)
	}
	if n := resources.Len[renderer.Drawable](store); n != 64*32 {
		t.Fatalf("pixels = %d, want %d", n, 64*32)
	}

	_ = r.SetGridPixel(store, 0, 0, true)
	_ = r.SetGridPixel(store, 63, 31, true)
	if err := r.DrawAll(store); err != nil {
		t.Fatalf("DrawAll: %v", err)
	}

	frame, _ := backend.LastFrame()
	if len(frame.Quads) != 2 {
		t.Fatalf("quads = %d, want 2", len(frame.Quads))
	}
	first := renderer.NDCToViewport(math.NewVec2(frame.Quads[0].Min.X, frame.Quads[0].Max.Y), backend.Size())
	if !first.Compare(math.Vec2{}, 1e-3) {
		t.Errorf("first pixel top left = %v, want (0, 0)", first)
	}
	last := renderer.NDCToViewport(math.NewVec2(frame.Quads[1].Max.X, frame.Quads[1].Min.Y), backend.Size())
	if !last.Compare(math.NewVec2(640, 320), 1e-2) {
		t.Errorf("last pixel bottom right = %v, want (640, 320)", last)
	}
}

// --- Text ---

func TestDefaultFontMetrics(t *testing.T) {
	f := DefaultFont()
	if f.LineHeight() != 13 {
		t.Errorf("LineHeight() = %v, want 13", f.LineHeight())
	}
	g, ok := f.Glyph('A')
	if !ok {
		t.Fatal("basic font should have 'A'")
	}
	if g.Advance != 7 {
		t.Errorf("Advance = %v, want 7", g.Advance)
	}
}

func TestTextDraw(t *testing.T) {
	r, backend := newRenderer(64, 32)
	text, err := NewText(program(t, shader.BasicText), DefaultFont(), math.NewVec4(0, 1, 0, 1), math.NewVec3(2, 3, 0), "hi\nyo")
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}

	frame := drawOne(t, r, backend, text)
	if len(frame.Glyphs) != 4 {
		t.Fatalf("glyphs = %d, want 4", len(frame.Glyphs))
	}
	runes := string([]rune{frame.Glyphs[0].Rune, frame.Glyphs[1].Rune, frame.Glyphs[2].Rune, frame.Glyphs[3].Rune})
	if runes != "hiyo" {
		t.Errorf("runes = %q, want hiyo", runes)
	}
	// The second line sits lower on screen, so lower in NDC.
	if frame.Glyphs[2].Max.Y >= frame.Glyphs[0].Max.Y {
		t.Error("second line should be below the first")
	}
	if frame.Glyphs[1].Min.X <= frame.Glyphs[0].Min.X {
		t.Error("glyphs on a line should advance to the right")
	}

	v, ok := text.Program().Uniform("punk_texture_color")
	if !ok || v.(math.Vec3) != math.NewVec3(0, 1, 0) {
		t.Errorf("punk_texture_color = %v", v)
	}
}

func TestTextWidthMatchesFace(t *testing.T) {
	f := DefaultFont()
	text, _ := NewText(program(t, shader.BasicText), f, math.Vec4{}, math.Vec3{}, "hello")

	want := float32(font.MeasureString(f.Face(), "hello")) / 64 / f.LineHeight()
	if got := text.Width(); got-want > eps || want-got > eps {
		t.Errorf("Width() = %v, want %v", got, want)
	}
}

type asciiFont struct{}

func (asciiFont) Name() string              { return "ascii" }
func (asciiFont) LineHeight() float32       { return 8 }
func (asciiFont) Kerning(_, _ rune) float32 { return 0 }
func (asciiFont) Glyph(r rune) (GlyphMetrics, bool) {
	if r > 127 {
		return GlyphMetrics{}, false
	}
	return GlyphMetrics{Width: 8, Height: 8, Advance: 8}, true
}

func TestTextMissingGlyph(t *testing.T) {
	r, backend := newRenderer(8, 8)
	text, _ := NewText(program(t, shader.BasicText), asciiFont{}, math.Vec4{}, math.Vec3{}, "aé")

	_ = backend.Begin(math.Vec4{})
	err := text.Draw(r)
	_ = backend.End()
	if !errors.Is(err, ErrMissingGlyph) {
		t.Errorf("err = %v, want ErrMissingGlyph", err)
	}
	if text.Width() != 1 {
		t.Errorf("Width() = %v, want 1", text.Width())
	}
}
