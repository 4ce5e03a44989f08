package renderer

import (
	"github.com/spaghettifunk/graphpunk/engine/math"
	"github.com/spaghettifunk/graphpunk/engine/shader"
)

// Quad is a filled rectangle. Min and Max are in normalized device
// coordinates: x grows right, y grows up, both in [-1, 1] when on screen.
type Quad struct {
	Min     math.Vec2
	Max     math.Vec2
	Color   math.Vec4
	Program *shader.Program
}

// Glyph is a single character cell in normalized device coordinates.
type Glyph struct {
	Rune  rune
	Min   math.Vec2
	Max   math.Vec2
	Color math.Vec4
}

// Backend presents frames. Begin and End bracket every frame.
type Backend interface {
	Begin(clear math.Vec4) error
	DrawQuad(q Quad) error
	DrawGlyph(g Glyph) error
	End() error
	// Size is the drawable area in backend units (pixels, cells).
	Size() math.Vec2i
}

// NDCToViewport maps a point in normalized device coordinates onto a
// viewport of the given size, with the origin at the top left.
func NDCToViewport(p math.Vec2, size math.Vec2i) math.Vec2 {
	return math.Vec2{
		X: (p.X + 1) * 0.5 * float32(size.X),
		Y: (1 - p.Y) * 0.5 * float32(size.Y),
	}
}

// Frame is everything a RecordingBackend saw between Begin and End.
type Frame struct {
	Clear  math.Vec4
	Quads  []Quad
	Glyphs []Glyph
}

// RecordingBackend keeps every frame in memory. It backs headless runs and
// tests.
type RecordingBackend struct {
	size   math.Vec2i
	frames []Frame
	open   bool
	// Keep bounds the number of frames retained, 0 keeps all.
	Keep int
}

func NewRecordingBackend(width, height int32) *RecordingBackend {
	return &RecordingBackend{size: math.Vec2i{X: width, Y: height}}
}

func (b *RecordingBackend) Begin(clear math.Vec4) error {
	if b.open {
		return ErrFrameOpen
	}
	b.open = true
	b.frames = append(b.frames, Frame{Clear: clear})
	if b.Keep > 0 && len(b.frames) > b.Keep {
		b.frames = b.frames[len(b.frames)-b.Keep:]
	}
	return nil
}

func (b *RecordingBackend) DrawQuad(q Quad) error {
	if !b.open {
		return ErrNoFrame
	}
	f := &b.frames[len(b.frames)-1]
	f.Quads = append(f.Quads, q)
	return nil
}

func (b *RecordingBackend) DrawGlyph(g Glyph) error {
	if !b.open {
		return ErrNoFrame
	}
	f := &b.frames[len(b.frames)-1]
	f.Glyphs = append(f.Glyphs, g)
	return nil
}

func (b *RecordingBackend) End() error {
	if !b.open {
		return ErrNoFrame
	}
	b.open = false
	return nil
}

func (b *RecordingBackend) Size() math.Vec2i {
	return b.size
}

func (b *RecordingBackend) Resize(width, height int32) {
	b.size = math.Vec2i{X: width, Y: height}
}

func (b *RecordingBackend) Frames() []Frame {
	return b.frames
}

// LastFrame returns the most recent frame, and false when none was drawn.
func (b *RecordingBackend) LastFrame() (Frame, bool) {
	if len(b.frames) == 0 {
		return Frame{}, false
	}
	return b.frames[len(b.frames)-1], true
}
